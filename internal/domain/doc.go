// Package domain defines the core business entities and errors.
//
// The central entity is Operation, which tracks one asynchronous AI
// generation attempt (question generation or feedback analysis) through
// its lifecycle. The remaining entities (sessions, job postings, resumes,
// messages, feedback) are the inputs and outputs of those generations.
package domain

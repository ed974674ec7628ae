// Package llm provides the boundary between the application core and the
// upstream AI provider. It defines the Generator interface the background
// tasks consume, a closed taxonomy of upstream error kinds, the classifier
// that maps raw provider errors onto that taxonomy, and the Gemini-backed
// implementation that applies the retry policy around each call.
package llm

// Package service provides application-level services that sit between the
// HTTP API and the background task layer. The operation service owns the
// creation side of the operation lifecycle: it validates the request against
// the session, persists a pending operation and emits the event that spawns
// the matching background task.
package service

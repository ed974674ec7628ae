// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It adapts external clients to the internal
// services: generation requests come in, pending operations go out, and
// polling reads operation state.
package api

// Package task contains the background execution layer of the operation
// pipeline. A Runner spawns fire-and-forget goroutines that drive each
// operation through its lifecycle (pending -> processing -> completed or
// failed), concrete tasks produce results and transactional side effects,
// and an event handler bridges service-layer events into spawned tasks.
package task

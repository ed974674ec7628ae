// Package events provides types and interfaces for an event-driven architecture.
//
// This package defines event types and handler interfaces that allow for loose
// coupling between components. The operation service emits events without
// knowing which handlers will process them, which keeps the service layer free
// of task-spawning concerns and avoids circular dependencies.
//
// The primary components are:
// - OperationRequestEvent: Represents a request to execute an operation's work
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events

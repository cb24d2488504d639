// Package registry keeps the set of module holders for one running
// application instance.
//
// The Registry maps unique module names to Holders, preserving insertion
// order for deterministic enumeration. A Holder wraps one module instance
// with its immutable definition and mediates everything that touches the
// module: function dispatch, constant retrieval, lifecycle events and
// event-listener accounting.
//
// Dispatch routes synchronous calls inline on the calling thread and runs
// asynchronous bodies on worker goroutines, marshalling their completions
// back onto the script runtime's owning thread through the Scheduler. Once
// the owning AppContext begins teardown no call reaches a holder; racing
// calls fail fast as unavailable and pending completions are dropped.
package registry

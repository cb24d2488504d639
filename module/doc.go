// Package module defines the declarative contract between native capability
// modules and the bridge.
//
// A capability module implements the Module interface by returning an
// immutable Definition: the module's name, its function descriptors
// (synchronous or asynchronous), a constants map, the event names it can
// emit, and optionally a view descriptor. The Definition is assembled once at
// registration time with the fluent Builder and never mutated afterwards.
//
// The package also implements the argument converter: the total,
// deterministic mapping from the loosely-typed values a script call site
// produces to the strongly-typed tuple a native handler expects.
package module

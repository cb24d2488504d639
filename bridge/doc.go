// Package bridge ties the module registry to an embedded goja runtime.
//
// An AppContext owns the module registry and the shared-object table for one
// running application instance, holds a non-owning reference to the hosting
// application shell, and optionally owns an attached script runtime. The
// Runtime type wraps a goja VM together with the event loop that owns its
// thread; the bridge never touches the VM off the loop thread.
//
// Installation places a single root host object (the NativeModules global)
// into the runtime's global scope. Property access on it is intercepted and
// routed to the registry: per module, scripts see the module's constants, its
// callable functions (synchronous functions return or throw, asynchronous
// ones return a promise), and addListener/removeListener entry points for
// event subscription bookkeeping.
package bridge

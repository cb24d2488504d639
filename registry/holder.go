package registry

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/js-bridge/errors"
	"github.com/wippyai/js-bridge/module"
)

// Holder wraps one module instance with its definition and mediates calls,
// constant retrieval and event-listener accounting.
type Holder struct {
	reg *Registry
	mod module.Module
	def *module.Definition

	// Listener counts are atomic per module so concurrent increments and
	// decrements cannot double-fire the observing hooks.
	listenersMu sync.Mutex
	listeners   map[string]int
	total       int
}

// Name returns the module name.
func (h *Holder) Name() string { return h.def.Name() }

// Module returns the wrapped module instance.
func (h *Holder) Module() module.Module { return h.mod }

// Definition returns the module's immutable definition.
func (h *Holder) Definition() *module.Definition { return h.def }

// Constants returns a snapshot of the module's constants.
func (h *Holder) Constants() map[string]any { return h.def.Constants() }

// CallSync invokes the named synchronous function on the calling thread.
// Errors are raised back at the call site: unavailable when the function
// does not exist or is not synchronous, otherwise conversion or call errors.
func (h *Holder) CallSync(fn string, args []any) (any, error) {
	if h.reg.destroyed.Load() {
		return nil, errors.Unavailable("module " + h.Name())
	}

	desc, ok := h.def.Function(fn)
	if !ok {
		return nil, errors.Unavailable("function " + fn + " on module " + h.Name())
	}
	syncFn, ok := desc.(*module.SyncFunction)
	if !ok {
		return nil, errors.Unavailable("synchronous function " + fn + " on module " + h.Name())
	}

	converted, err := module.ConvertArgs(fn, desc.ArgTypes(), args)
	if err != nil {
		return nil, err
	}
	return syncFn.Call(converted)
}

// CallAsync invokes the named asynchronous function. The body runs on a
// worker goroutine; the completion is marshalled onto the runtime's owning
// thread and invoked exactly once. All failures, including conversion
// failures, travel through the error channel; CallAsync never panics or
// returns an error on the calling thread. A call arriving after teardown
// fails fast: the completion is invoked inline with an unavailable error,
// since the scheduler no longer delivers anything.
func (h *Holder) CallAsync(fn string, args []any, complete CallCompletion) {
	if h.reg.destroyed.Load() {
		complete(nil, errors.Unavailable("module "+h.Name()))
		return
	}

	desc, ok := h.def.Function(fn)
	if !ok {
		h.reg.schedule(func() { complete(nil, errors.Unavailable("function "+fn+" on module "+h.Name())) })
		return
	}
	async, ok := desc.(*module.AsyncFunction)
	if !ok {
		h.reg.schedule(func() { complete(nil, errors.Unavailable("asynchronous function "+fn+" on module "+h.Name())) })
		return
	}

	converted, err := module.ConvertArgs(fn, desc.ArgTypes(), args)
	if err != nil {
		h.reg.schedule(func() { complete(nil, err) })
		return
	}

	go async.Call(converted, func(value any, callErr error) {
		h.reg.schedule(func() { complete(value, callErr) })
	})
}

// Call dispatches fn by its declared convention: synchronous descriptors
// complete inline on the calling thread, asynchronous ones through the
// scheduler. Unknown functions complete with an unavailable error.
func (h *Holder) Call(fn string, args []any, complete CallCompletion) {
	desc, ok := h.def.Function(fn)
	if !ok {
		complete(nil, errors.Unavailable("function "+fn+" on module "+h.Name()))
		return
	}

	if desc.Convention() == module.Sync {
		complete(h.CallSync(fn, args))
		return
	}
	h.CallAsync(fn, args, complete)
}

// ModifyListenersCount adjusts the listener count for event by delta,
// clamping at zero. When the module's total count transitions from zero to
// positive its OnStartObserving hook fires exactly once; the symmetric
// transition to zero fires OnStopObserving exactly once. Events the module
// never declared are ignored.
func (h *Holder) ModifyListenersCount(event string, delta int) {
	if delta == 0 {
		return
	}
	if !h.def.HasEvent(event) {
		h.reg.log.Warn("listener count change for undeclared event",
			zap.String("module", h.Name()),
			zap.String("event", event),
		)
		return
	}

	// Hooks fire under the mutex so concurrent increments and decrements
	// observe start/stop in order. Hooks must not mutate listener counts.
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	count := h.listeners[event] + delta
	if count < 0 {
		count = 0
	}
	applied := count - h.listeners[event]
	h.listeners[event] = count

	wasZero := h.total == 0
	h.total += applied
	isZero := h.total == 0

	observer, ok := h.mod.(module.EventObserver)
	if !ok {
		return
	}
	if wasZero && !isZero {
		observer.OnStartObserving()
	} else if !wasZero && isZero {
		observer.OnStopObserving()
	}
}

// ListenersCount returns the current count for event.
func (h *Holder) ListenersCount(event string) int {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	return h.listeners[event]
}

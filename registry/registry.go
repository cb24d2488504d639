package registry

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/js-bridge/errors"
	"github.com/wippyai/js-bridge/module"
)

// Scheduler delivers a function onto the script runtime's owning thread.
// Schedule reports false when no runtime is available to run it; the
// function is then dropped.
type Scheduler interface {
	Schedule(fn func()) bool
}

// CallCompletion receives a call's outcome. It is invoked exactly once, or
// never if the owning context is destroyed while the call is in flight.
type CallCompletion func(value any, err error)

// Registry is the ordered collection of module holders for one AppContext.
// It is created with the AppContext and cleared on its teardown; only the
// owning AppContext mutates it.
type Registry struct {
	holders   map[string]*Holder
	order     []string
	scheduler Scheduler
	log       *zap.Logger
	destroyed atomic.Bool
	mu        sync.RWMutex
}

// New creates an empty registry. scheduler may be nil, in which case
// completions run inline on the delivering goroutine (useful for pure Go
// embeddings and tests). log may be nil.
func New(scheduler Scheduler, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		holders:   make(map[string]*Holder),
		scheduler: scheduler,
		log:       log,
	}
}

// Register inserts a holder for m. Fails with a duplicate-module error when a
// module with the same name already exists, leaving the registry unchanged.
func (r *Registry) Register(m module.Module) (*Holder, error) {
	if r.destroyed.Load() {
		return nil, errors.ContextDeallocated()
	}

	def := m.Definition()
	name := def.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.holders[name]; exists {
		return nil, errors.DuplicateModule(name)
	}

	h := &Holder{
		reg:       r,
		mod:       m,
		def:       def,
		listeners: make(map[string]int),
	}
	r.holders[name] = h
	r.order = append(r.order, name)

	r.log.Debug("registered module",
		zap.String("module", name),
		zap.Int("functions", len(def.Functions())),
	)
	return h, nil
}

// Unregister removes the named holder. Reports whether it existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.holders[name]; !exists {
		return false
	}
	delete(r.holders, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the holder registered under name. Never fails.
func (r *Registry) Get(name string) (*Holder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.holders[name]
	return h, ok
}

// Holders returns the holders in insertion order.
func (r *Registry) Holders() []*Holder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Holder, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.holders[name])
	}
	return out
}

// ModuleNames returns the registered names in insertion order.
func (r *Registry) ModuleNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Call looks up the module and dispatches fn on it, completing inline for
// synchronous descriptors and through the Scheduler for asynchronous ones.
// A missing module is a safe no-op completing with an unavailable error
// rather than propagating a crash.
func (r *Registry) Call(moduleName, fn string, args []any, complete CallCompletion) {
	if r.destroyed.Load() {
		complete(nil, errors.Unavailable("module "+moduleName))
		return
	}

	h, ok := r.Get(moduleName)
	if !ok {
		complete(nil, errors.Unavailable("module "+moduleName))
		return
	}
	h.Call(fn, args, complete)
}

// SupportedEvents aggregates every module's declared event names into one
// flat sequence, preserving registration and declaration order.
func (r *Registry) SupportedEvents() []string {
	var events []string
	for _, h := range r.Holders() {
		events = append(events, h.def.Events()...)
	}
	return events
}

// ViewManagersMetadata lists the prop names of every module whose definition
// carries a view descriptor, keyed by module name.
func (r *Registry) ViewManagersMetadata() map[string][]string {
	out := make(map[string][]string)
	for _, h := range r.Holders() {
		if view := h.def.View(); view != nil {
			out[h.Name()] = view.Props
		}
	}
	return out
}

// Post broadcasts a lifecycle event to every holder in insertion order.
// Holders whose modules do not implement the matching hook ignore it.
// No-op once teardown has begun; the terminal event is delivered by Destroy.
func (r *Registry) Post(event module.LifecycleEvent) {
	if r.destroyed.Load() {
		return
	}
	r.post(event)
}

func (r *Registry) post(event module.LifecycleEvent) {
	r.log.Debug("posting lifecycle event", zap.String("event", string(event)))

	for _, h := range r.Holders() {
		switch event {
		case module.AppEntersForeground:
			if o, ok := h.mod.(module.ForegroundObserver); ok {
				o.OnAppEntersForeground()
			}
		case module.AppBecomesActive:
			if o, ok := h.mod.(module.ActiveObserver); ok {
				o.OnAppBecomesActive()
			}
		case module.AppEntersBackground:
			if o, ok := h.mod.(module.BackgroundObserver); ok {
				o.OnAppEntersBackground()
			}
		case module.AppContextDestroys:
			if o, ok := h.mod.(module.DestroyObserver); ok {
				o.OnAppContextDestroys()
			}
		}
	}
}

// ModifyListenersCount adjusts the named module's listener count for event.
// Unknown modules are ignored.
func (r *Registry) ModifyListenersCount(moduleName, event string, delta int) {
	if h, ok := r.Get(moduleName); ok {
		h.ModifyListenersCount(event, delta)
	}
}

// Destroyed reports whether teardown has begun.
func (r *Registry) Destroyed() bool {
	return r.destroyed.Load()
}

// Destroy begins teardown: blocks further dispatch, broadcasts the terminal
// lifecycle event, then clears the holder set. Idempotent. Completions of
// calls still in flight are dropped, never invoked after this returns.
func (r *Registry) Destroy() {
	if !r.destroyed.CompareAndSwap(false, true) {
		return
	}

	r.post(module.AppContextDestroys)

	r.mu.Lock()
	r.holders = make(map[string]*Holder)
	r.order = nil
	r.mu.Unlock()

	r.log.Debug("registry destroyed")
}

// schedule hands fn to the scheduler, or runs it inline when none is
// configured. The destroyed flag is re-checked at delivery time so nothing
// reaches a holder after teardown.
func (r *Registry) schedule(fn func()) {
	guarded := func() {
		if r.destroyed.Load() {
			return
		}
		fn()
	}

	if r.scheduler == nil {
		guarded()
		return
	}
	if !r.scheduler.Schedule(guarded) {
		r.log.Debug("dropped completion: no runtime to deliver on")
	}
}

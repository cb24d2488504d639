package bridge

import (
	"sync"
	"sync/atomic"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/wippyai/js-bridge/module"
	"github.com/wippyai/js-bridge/registry"
	"github.com/wippyai/js-bridge/shared"
)

// Host is implemented by the embedding application shell. The AppContext
// keeps a non-owning reference and never extends the host's lifetime.
type Host interface {
	// OnMainThread schedules fn onto the application's UI thread, for the
	// few synchronous operations that must touch UI state.
	OnMainThread(fn func())
}

// AppContext coordinates the bridge for one running application instance: it
// owns the module registry and the shared-object table, and optionally an
// attached script runtime.
type AppContext struct {
	log     *zap.Logger
	reg     *registry.Registry
	objects *shared.Table
	host    Host

	rtMu    sync.RWMutex
	rt      *Runtime
	hostObj *hostObject

	destroyed atomic.Bool
}

// Option configures an AppContext.
type Option func(*AppContext)

// WithLogger overrides the package logger for this context.
func WithLogger(l *zap.Logger) Option {
	return func(c *AppContext) { c.log = l }
}

// WithHost sets the hosting application shell. The reference is non-owning.
func WithHost(h Host) Option {
	return func(c *AppContext) { c.host = h }
}

// NewAppContext creates a context with an empty registry and shared-object
// table. No runtime is attached yet.
func NewAppContext(opts ...Option) *AppContext {
	c := &AppContext{
		objects: shared.NewTable(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = Logger()
	}
	c.reg = registry.New(&loopScheduler{ctx: c}, c.log)
	return c
}

// Register adds a capability module to the context's registry.
func (c *AppContext) Register(m module.Module) (*registry.Holder, error) {
	return c.reg.Register(m)
}

// Registry returns the context's module registry.
func (c *AppContext) Registry() *registry.Registry { return c.reg }

// SharedObjects returns the context's shared-object table.
func (c *AppContext) SharedObjects() *shared.Table { return c.objects }

// Runtime returns the attached runtime, or nil.
func (c *AppContext) Runtime() *Runtime {
	c.rtMu.RLock()
	defer c.rtMu.RUnlock()
	return c.rt
}

// AttachRuntime hands the context an owning reference to rt. A previously
// attached runtime is detached first, releasing all script-side state.
func (c *AppContext) AttachRuntime(rt *Runtime) {
	c.DetachRuntime()

	c.rtMu.Lock()
	c.rt = rt
	c.rtMu.Unlock()

	c.log.Debug("runtime attached")
}

// DetachRuntime releases the runtime reference. Dropping the pointer alone
// is insufficient: every module-held script-side object reference is
// explicitly released and the shared-object table is swept before the
// association is discarded.
func (c *AppContext) DetachRuntime() {
	c.rtMu.Lock()
	rt := c.rt
	ho := c.hostObj
	c.rt = nil
	c.hostObj = nil
	c.rtMu.Unlock()

	if rt == nil {
		return
	}
	if ho != nil {
		ho.release()
	}
	c.objects.Clear()
	c.log.Debug("runtime detached, script-side references released")
}

// OnMainThread runs fn on the application's UI thread via the host, or
// inline when no host shell is present.
func (c *AppContext) OnMainThread(fn func()) {
	if c.host != nil {
		c.host.OnMainThread(fn)
		return
	}
	fn()
}

// Post broadcasts an application lifecycle event to every registered module.
func (c *AppContext) Post(event module.LifecycleEvent) {
	c.reg.Post(event)
}

// EmitEvent delivers payload to the script-side listeners a module has
// registered for event. Delivery happens on the runtime's thread. Unknown
// modules, undeclared events and a detached runtime make this a no-op.
func (c *AppContext) EmitEvent(moduleName, event string, payload any) {
	h, ok := c.reg.Get(moduleName)
	if !ok || !h.Definition().HasEvent(event) {
		c.log.Warn("emit for unknown module or event",
			zap.String("module", moduleName),
			zap.String("event", event),
		)
		return
	}

	c.rtMu.RLock()
	rt := c.rt
	ho := c.hostObj
	c.rtMu.RUnlock()

	if rt == nil || ho == nil {
		return
	}
	ho.emit(rt, moduleName, event, payload)
}

// Destroyed reports whether teardown has begun.
func (c *AppContext) Destroyed() bool {
	return c.destroyed.Load()
}

// Destroy tears the context down: dispatch is blocked, the terminal
// lifecycle event is broadcast, script-side references are released and the
// shared-object table is closed. Pending asynchronous completions are
// abandoned, never invoked. Idempotent.
func (c *AppContext) Destroy() {
	if !c.destroyed.CompareAndSwap(false, true) {
		return
	}

	c.reg.Destroy()
	c.DetachRuntime()
	c.objects.Close()
	c.log.Debug("app context destroyed")
}

// loopScheduler adapts the attached runtime's loop to registry.Scheduler.
// With no runtime attached there is nowhere to deliver on, so completions
// are dropped.
type loopScheduler struct {
	ctx *AppContext
}

func (s *loopScheduler) Schedule(fn func()) bool {
	s.ctx.rtMu.RLock()
	rt := s.ctx.rt
	s.ctx.rtMu.RUnlock()

	if rt == nil {
		return false
	}
	return rt.Schedule(func(vm *goja.Runtime) { fn() })
}

package bridge

import (
	"sync/atomic"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"

	"github.com/wippyai/js-bridge/errors"
)

// Runtime couples a goja VM with the event loop that owns its thread. All VM
// access goes through the loop; the zero thread-safety of goja.Runtime is
// contained here.
//
// The usual sequence is: create, attach to an AppContext, install the host
// object, then Start. Before Start, Do executes synchronously by spinning
// the loop; after Start, Do schedules onto the running loop and waits.
type Runtime struct {
	loop    *eventloop.EventLoop
	modules *require.Registry

	// hostObj remembers the root host object installed into this runtime's
	// global scope. The global binding is non-configurable and survives a
	// detach, so a re-install must find its way back to the same object.
	// Only touched on the loop thread.
	hostObj *hostObject

	started atomic.Bool
	stopped atomic.Bool
}

type runtimeConfig struct {
	console bool
	modules *require.Registry
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*runtimeConfig)

// WithRequireRegistry supplies a require registry with native modules
// (console, crypto, ...) to enable inside the runtime.
func WithRequireRegistry(reg *require.Registry) RuntimeOption {
	return func(cfg *runtimeConfig) { cfg.modules = reg }
}

// WithoutConsole disables the console global.
func WithoutConsole() RuntimeOption {
	return func(cfg *runtimeConfig) { cfg.console = false }
}

// NewRuntime creates a runtime with its own event loop. The loop is not
// running yet; call Start once installation is done.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	cfg := runtimeConfig{console: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.modules == nil {
		cfg.modules = new(require.Registry)
	}

	loop := eventloop.NewEventLoop(
		eventloop.WithRegistry(cfg.modules),
		eventloop.EnableConsole(cfg.console),
	)
	return &Runtime{loop: loop, modules: cfg.modules}
}

// Start runs the event loop in a background goroutine.
func (r *Runtime) Start() {
	if r.started.CompareAndSwap(false, true) {
		r.loop.Start()
	}
}

// Stop terminates the event loop, waiting for the current job to finish.
// Jobs scheduled after Stop are dropped.
func (r *Runtime) Stop() {
	if r.started.Load() && r.stopped.CompareAndSwap(false, true) {
		r.loop.Stop()
	}
}

// Schedule enqueues fn onto the loop thread from any goroutine. Reports
// false once the runtime is stopped; the function is then dropped.
func (r *Runtime) Schedule(fn func(vm *goja.Runtime)) bool {
	if r.stopped.Load() {
		return false
	}
	r.loop.RunOnLoop(fn)
	return true
}

// Do executes fn on the loop thread and waits for it to finish. Reports
// false when the runtime has been stopped.
func (r *Runtime) Do(fn func(vm *goja.Runtime)) bool {
	if r.stopped.Load() {
		return false
	}

	if !r.started.Load() {
		r.loop.Run(fn)
		return true
	}

	done := make(chan struct{})
	r.loop.RunOnLoop(func(vm *goja.Runtime) {
		defer close(done)
		fn(vm)
	})
	<-done
	return true
}

// RunScript evaluates src on the loop thread and returns its value. Script
// exceptions come back as errors; a stopped runtime yields an unavailable
// error.
func (r *Runtime) RunScript(name, src string) (goja.Value, error) {
	var (
		value goja.Value
		err   error
	)
	if !r.Do(func(vm *goja.Runtime) {
		value, err = vm.RunScript(name, src)
	}) {
		return nil, errors.Unavailable("script runtime")
	}
	return value, err
}

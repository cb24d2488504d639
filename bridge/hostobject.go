package bridge

import (
	"sync"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/wippyai/js-bridge/errors"
	"github.com/wippyai/js-bridge/module"
	"github.com/wippyai/js-bridge/registry"
)

// GlobalName is the single root property the bridge installs into the
// runtime's global scope.
const GlobalName = "NativeModules"

// Reserved root properties resolved before module lookup.
const (
	propViewManagersMetadata = "viewManagersMetadata"
	propSupportedEvents      = "supportedEvents"
)

type listenerEntry struct {
	value goja.Value
	fn    goja.Callable
}

// hostObject implements goja.DynamicObject for the root host object. It
// intercepts property access and routes it to the module registry, caching
// each module's script-side representation on first access. Property access
// happens on the loop thread, but release may run on the detaching
// goroutine while the loop is still executing script, so the maps are
// guarded by mu.
type hostObject struct {
	ctx *AppContext
	vm  *goja.Runtime

	mu        sync.Mutex
	cache     map[string]*goja.Object
	listeners map[string]map[string][]listenerEntry
}

func newHostObject(ctx *AppContext, vm *goja.Runtime) *hostObject {
	return &hostObject{
		ctx:       ctx,
		vm:        vm,
		cache:     make(map[string]*goja.Object),
		listeners: make(map[string]map[string][]listenerEntry),
	}
}

func (o *hostObject) Get(key string) goja.Value {
	o.mu.Lock()
	obj, ok := o.cache[key]
	o.mu.Unlock()
	if ok {
		return obj
	}

	if h, ok := o.ctx.Registry().Get(key); ok {
		obj := o.buildModuleObject(h)
		o.mu.Lock()
		o.cache[key] = obj
		o.mu.Unlock()
		return obj
	}

	switch key {
	case propViewManagersMetadata:
		meta := make(map[string]any)
		for name, props := range o.ctx.Registry().ViewManagersMetadata() {
			meta[name] = map[string]any{"propsNames": props}
		}
		return o.vm.ToValue(meta)
	case propSupportedEvents:
		return o.vm.ToValue(o.ctx.Registry().SupportedEvents())
	}
	return goja.Undefined()
}

// Set refuses writes; the root object is read-only.
func (o *hostObject) Set(key string, val goja.Value) bool { return false }

func (o *hostObject) Has(key string) bool {
	if _, ok := o.ctx.Registry().Get(key); ok {
		return true
	}
	return key == propViewManagersMetadata || key == propSupportedEvents
}

func (o *hostObject) Delete(key string) bool { return false }

// Keys enumerates the registered module names in insertion order.
func (o *hostObject) Keys() []string {
	return o.ctx.Registry().ModuleNames()
}

// buildModuleObject materializes the holder's script-side representation:
// constants as data properties, functions bound by convention, and the
// listener bookkeeping entry points.
func (o *hostObject) buildModuleObject(h *registry.Holder) *goja.Object {
	obj := o.vm.NewObject()

	for name, value := range h.Constants() {
		_ = obj.Set(name, value)
	}

	for _, desc := range h.Definition().Functions() {
		name := desc.Name()
		if desc.Convention() == module.Sync {
			_ = obj.Set(name, o.syncBinding(h, name))
		} else {
			_ = obj.Set(name, o.asyncBinding(h, name))
		}
	}

	_ = obj.Set("addListener", o.addListenerBinding(h))
	_ = obj.Set("removeListener", o.removeListenerBinding(h))
	_ = obj.Set("removeAllListeners", o.removeAllListenersBinding(h))

	return obj
}

func (o *hostObject) syncBinding(h *registry.Holder, name string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		value, err := h.CallSync(name, exportedArgs(call))
		if err != nil {
			panic(o.errorValue(err))
		}
		return o.vm.ToValue(value)
	}
}

func (o *hostObject) asyncBinding(h *registry.Holder, name string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := o.vm.NewPromise()

		// The completion arrives on the loop thread via the context's
		// scheduler, where resolving the promise is safe.
		h.CallAsync(name, exportedArgs(call), func(value any, err error) {
			if err != nil {
				_ = reject(o.errorValue(err))
				return
			}
			_ = resolve(value)
		})

		return o.vm.ToValue(promise)
	}
}

func (o *hostObject) addListenerBinding(h *registry.Holder) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		event := call.Argument(0).String()
		listener := call.Argument(1)

		fn, ok := goja.AssertFunction(listener)
		if !ok {
			panic(o.errorValue(errors.ArgumentType("addListener", 1, "Function", module.TypeName(listener.Export()))))
		}
		if !h.Definition().HasEvent(event) {
			h.ModifyListenersCount(event, 1) // logs the warning, stays a no-op
			return goja.Undefined()
		}

		mod := h.Name()
		o.mu.Lock()
		if o.listeners[mod] == nil {
			o.listeners[mod] = make(map[string][]listenerEntry)
		}
		o.listeners[mod][event] = append(o.listeners[mod][event], listenerEntry{value: listener, fn: fn})
		o.mu.Unlock()
		h.ModifyListenersCount(event, 1)
		return goja.Undefined()
	}
}

func (o *hostObject) removeListenerBinding(h *registry.Holder) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		event := call.Argument(0).String()
		listener := call.Argument(1)

		o.mu.Lock()
		entries := o.listeners[h.Name()][event]
		removed := false
		for i, e := range entries {
			if e.value.StrictEquals(listener) {
				o.listeners[h.Name()][event] = append(entries[:i], entries[i+1:]...)
				removed = true
				break
			}
		}
		o.mu.Unlock()

		if removed {
			h.ModifyListenersCount(event, -1)
		}
		return goja.Undefined()
	}
}

func (o *hostObject) removeAllListenersBinding(h *registry.Holder) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		event := call.Argument(0).String()

		o.mu.Lock()
		count := len(o.listeners[h.Name()][event])
		if count > 0 {
			delete(o.listeners[h.Name()], event)
		}
		o.mu.Unlock()

		if count > 0 {
			h.ModifyListenersCount(event, -count)
		}
		return goja.Undefined()
	}
}

// emit schedules delivery of payload to the module's listeners for event.
func (o *hostObject) emit(rt *Runtime, moduleName, event string, payload any) {
	rt.Schedule(func(vm *goja.Runtime) {
		o.mu.Lock()
		entries := make([]listenerEntry, len(o.listeners[moduleName][event]))
		copy(entries, o.listeners[moduleName][event])
		o.mu.Unlock()

		value := vm.ToValue(payload)
		for _, e := range entries {
			if _, err := e.fn(goja.Undefined(), value); err != nil {
				o.ctx.log.Warn("event listener threw",
					zap.String("module", moduleName),
					zap.String("event", event),
					zap.Error(err),
				)
			}
		}
	})
}

// release drops every cached script-side reference. Called on runtime
// detach, which may race script still executing on the loop; the VM itself
// is owned by the runtime being discarded.
func (o *hostObject) release() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cache = make(map[string]*goja.Object)
	o.listeners = make(map[string]map[string][]listenerEntry)
}

// errorValue shapes a bridge error for the script side: an Error object
// carrying a stable code, a readable message and the original native error.
func (o *hostObject) errorValue(err error) goja.Value {
	obj := o.vm.NewGoError(err)
	if code := errors.CodeOf(err); code != "" {
		_ = obj.Set("code", string(code))
	}
	return obj
}

func exportedArgs(call goja.FunctionCall) []any {
	args := make([]any, len(call.Arguments))
	for i, a := range call.Arguments {
		args[i] = a.Export()
	}
	return args
}

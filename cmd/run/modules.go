package main

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/wippyai/js-bridge/bridge"
	"github.com/wippyai/js-bridge/errors"
	"github.com/wippyai/js-bridge/module"
	"github.com/wippyai/js-bridge/shared"
)

func registerBuiltins(ctx *bridge.AppContext) error {
	mods := []module.Module{
		newDeviceModule(),
		newClockModule(ctx),
		newStorageModule(ctx),
	}
	for _, m := range mods {
		if _, err := ctx.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// deviceModule exposes static host information as constants.
type deviceModule struct {
	def *module.Definition
}

func newDeviceModule() *deviceModule {
	m := &deviceModule{}
	hostname, _ := os.Hostname()
	m.def = module.NewDefinition("Device").
		Constant("platform", runtime.GOOS).
		Constant("arch", runtime.GOARCH).
		Constant("hostname", hostname).
		SyncFunction("pid", nil,
			func(args []any) (any, error) {
				return int64(os.Getpid()), nil
			}).
		MustBuild()
	return m
}

func (m *deviceModule) Definition() *module.Definition { return m.def }

// clockModule pairs a sync query with an async delay and a tick event.
type clockModule struct {
	def *module.Definition
	ctx *bridge.AppContext

	mu     sync.Mutex
	cancel chan struct{}
}

func newClockModule(ctx *bridge.AppContext) *clockModule {
	m := &clockModule{ctx: ctx}
	m.def = module.NewDefinition("Clock").
		SyncFunction("now", nil,
			func(args []any) (any, error) {
				return time.Now().Format(time.RFC3339Nano), nil
			}).
		AsyncFunction("sleep", []module.ArgType{module.Int},
			func(args []any) (any, error) {
				ms := args[0].(int64)
				if ms < 0 {
					return nil, &errors.Error{Code: "E_NEGATIVE_DURATION", Message: "sleep duration must not be negative"}
				}
				time.Sleep(time.Duration(ms) * time.Millisecond)
				return ms, nil
			}).
		Events("onTick").
		MustBuild()
	return m
}

func (m *clockModule) Definition() *module.Definition { return m.def }

// OnStartObserving begins a once-per-second tick broadcast while at
// least one script listener is attached.
func (m *clockModule) OnStartObserving() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cancel := make(chan struct{})
	m.cancel = cancel
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case t := <-ticker.C:
				m.ctx.EmitEvent("Clock", "onTick", map[string]any{
					"unix": t.Unix(),
				})
			case <-cancel:
				return
			}
		}
	}()
}

func (m *clockModule) OnStopObserving() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		close(m.cancel)
		m.cancel = nil
	}
}

// storageBox is an in-memory key/value store handed to scripts by ID.
type storageBox struct {
	shared.Base

	mu     sync.Mutex
	values map[string]any
}

func (b *storageBox) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values = nil
}

func (b *storageBox) set(key string, value any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.values == nil {
		return errors.Unavailable("storage box")
	}
	b.values[key] = value
	return nil
}

func (b *storageBox) get(key string) any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.values[key]
}

// storageModule demonstrates shared objects: open returns a handle,
// the remaining functions resolve it back to the native box.
type storageModule struct {
	def *module.Definition
	ctx *bridge.AppContext
}

func newStorageModule(ctx *bridge.AppContext) *storageModule {
	m := &storageModule{ctx: ctx}
	m.def = module.NewDefinition("Storage").
		SyncFunction("open", nil,
			func(args []any) (any, error) {
				id := ctx.SharedObjects().Insert(&storageBox{values: map[string]any{}})
				if id == 0 {
					return nil, errors.ContextDeallocated()
				}
				return uint64(id), nil
			}).
		SyncFunction("set", []module.ArgType{module.Int, module.String, module.Any},
			func(args []any) (any, error) {
				box, err := m.box(args[0].(int64))
				if err != nil {
					return nil, err
				}
				return nil, box.set(args[1].(string), args[2])
			}).
		SyncFunction("get", []module.ArgType{module.Int, module.String},
			func(args []any) (any, error) {
				box, err := m.box(args[0].(int64))
				if err != nil {
					return nil, err
				}
				return box.get(args[1].(string)), nil
			}).
		SyncFunction("close", []module.ArgType{module.Int},
			func(args []any) (any, error) {
				m.ctx.SharedObjects().Remove(shared.ID(args[0].(int64)))
				return nil, nil
			}).
		MustBuild()
	return m
}

func (m *storageModule) Definition() *module.Definition { return m.def }

func (m *storageModule) box(id int64) (*storageBox, error) {
	obj, ok := m.ctx.SharedObjects().Get(shared.ID(id))
	if !ok {
		return nil, errors.Unavailable("storage handle")
	}
	return obj.(*storageBox), nil
}

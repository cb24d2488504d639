package bridge

import (
	"testing"
	"time"

	"github.com/dop251/goja"

	"github.com/wippyai/js-bridge/errors"
	"github.com/wippyai/js-bridge/module"
	"github.com/wippyai/js-bridge/shared"
)

// store exposes shared-object handles to scripts.
type store struct {
	def *module.Definition
}

type storeEntry struct {
	shared.Base
	released bool
}

func (e *storeEntry) Release() { e.released = true }

func newStore(ctx *AppContext) *store {
	s := &store{}
	s.def = module.NewDefinition("Store").
		SyncFunction("open", nil,
			func(args []any) (any, error) {
				id := ctx.SharedObjects().Insert(&storeEntry{})
				if id == 0 {
					return nil, errors.ContextDeallocated()
				}
				return uint64(id), nil
			}).
		MustBuild()
	return s
}

func (s *store) Definition() *module.Definition { return s.def }

func TestAppContext_SharedObjectRoundTrip(t *testing.T) {
	ctx := NewAppContext()
	ctx.Register(newStore(ctx))

	rt := NewRuntime(WithoutConsole())
	ctx.AttachRuntime(rt)
	ctx.Install()

	v, err := rt.RunScript("open.js", `NativeModules.Store.open()`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}

	id := shared.ID(v.ToInteger())
	if id == 0 {
		t.Fatal("open should return a nonzero handle")
	}
	obj, ok := ctx.SharedObjects().Get(id)
	if !ok {
		t.Fatal("handle should resolve to the native object")
	}

	ctx.Destroy()

	if _, ok := ctx.SharedObjects().Get(id); ok {
		t.Error("lookups after context destruction must return absent")
	}
	if !obj.(*storeEntry).released {
		t.Error("destroy must sweep shared objects")
	}
}

func TestAppContext_DetachRuntimeSweeps(t *testing.T) {
	ctx := NewAppContext()
	defer ctx.Destroy()

	entry := &storeEntry{}
	ctx.SharedObjects().Insert(entry)

	rt := NewRuntime(WithoutConsole())
	ctx.AttachRuntime(rt)
	ctx.Install()

	ctx.DetachRuntime()

	if !entry.released {
		t.Error("detach must explicitly release script-side references")
	}
	if ctx.Runtime() != nil {
		t.Error("runtime reference should be gone")
	}

	// The table survives a detach; only Destroy closes it.
	if ctx.SharedObjects().Insert(&storeEntry{}) == 0 {
		t.Error("table should stay usable after a detach")
	}
}

func TestAppContext_DetachDuringListenerChurn(t *testing.T) {
	ticker := &staticModule{def: module.NewDefinition("Ticker").
		Events("onTick").
		MustBuild()}

	ctx := NewAppContext()
	defer ctx.Destroy()
	ctx.Register(ticker)

	rt := NewRuntime(WithoutConsole())
	ctx.AttachRuntime(rt)
	ctx.Install()
	rt.Start()
	defer rt.Stop()

	_, err := rt.RunScript("churn.js", `
		var churn = function () {
			NativeModules.Ticker.addListener("onTick", function () {});
			NativeModules.Ticker.removeAllListeners("onTick");
		};
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}

	// Keep the loop busy mutating listener state through the installed root
	// object while the detach releases it from another goroutine.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			rt.Schedule(func(vm *goja.Runtime) {
				if fn, ok := goja.AssertFunction(vm.GlobalObject().Get("churn")); ok {
					_, _ = fn(goja.Undefined())
				}
			})
		}
	}()

	ctx.DetachRuntime()
	<-done
}

func TestAppContext_TeardownRaceNeverCompletes(t *testing.T) {
	release := make(chan struct{})
	slow := &staticModule{def: module.NewDefinition("Slow").
		AsyncFunction("work", nil,
			func(args []any) (any, error) {
				<-release
				return "done", nil
			}).
		MustBuild()}

	ctx := NewAppContext()
	ctx.Register(slow)
	p := newProbe()
	ctx.Register(p)

	rt := NewRuntime(WithoutConsole())
	ctx.AttachRuntime(rt)
	ctx.Install()
	rt.Start()
	defer rt.Stop()

	_, err := rt.RunScript("race.js", `
		NativeModules.Slow.work().then(
			function (v) { NativeModules.Probe.ok(v); },
			function (e) { NativeModules.Probe.fail(e.code); }
		);
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}

	ctx.Destroy()
	close(release)

	select {
	case v := <-p.ch:
		t.Errorf("completion observed after teardown: %v", v)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAppContext_CallAfterDestroyIsUnavailable(t *testing.T) {
	ctx := NewAppContext()
	ctx.Register(constantsModule())
	ctx.Destroy()

	var got error
	ctx.Registry().Call("Constants", "getValue", []any{1}, func(v any, err error) {
		got = err
	})
	if errors.CodeOf(got) != errors.CodeUnavailable {
		t.Errorf("expected ERR_UNAVAILABLE, got %v", got)
	}
}

func TestAppContext_EmitUnknownEventIsNoOp(t *testing.T) {
	ctx := NewAppContext()
	defer ctx.Destroy()
	ctx.Register(constantsModule())

	// No runtime, unknown module, undeclared event: all must be safe.
	ctx.EmitEvent("Constants", "onNope", nil)
	ctx.EmitEvent("Ghost", "onTick", nil)
}

type mainThreadHost struct {
	calls int
}

func (h *mainThreadHost) OnMainThread(fn func()) {
	h.calls++
	fn()
}

func TestAppContext_OnMainThreadUsesHost(t *testing.T) {
	host := &mainThreadHost{}
	ctx := NewAppContext(WithHost(host))
	defer ctx.Destroy()

	ran := false
	ctx.OnMainThread(func() { ran = true })

	if !ran || host.calls != 1 {
		t.Errorf("ran=%v hostCalls=%d", ran, host.calls)
	}
}

func TestAppContext_LifecyclePostFansOut(t *testing.T) {
	m := &lifecycleModule{def: module.NewDefinition("L").MustBuild()}
	ctx := NewAppContext()
	ctx.Register(m)

	ctx.Post(module.AppEntersForeground)
	ctx.Post(module.AppEntersBackground)
	ctx.Destroy()

	want := []module.LifecycleEvent{
		module.AppEntersForeground,
		module.AppEntersBackground,
		module.AppContextDestroys,
	}
	if len(m.seen) != len(want) {
		t.Fatalf("events = %v, want %v", m.seen, want)
	}
	for i := range want {
		if m.seen[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, m.seen[i], want[i])
		}
	}
}

type lifecycleModule struct {
	def  *module.Definition
	seen []module.LifecycleEvent
}

func (m *lifecycleModule) Definition() *module.Definition { return m.def }
func (m *lifecycleModule) OnAppEntersForeground() {
	m.seen = append(m.seen, module.AppEntersForeground)
}
func (m *lifecycleModule) OnAppEntersBackground() {
	m.seen = append(m.seen, module.AppEntersBackground)
}
func (m *lifecycleModule) OnAppContextDestroys() {
	m.seen = append(m.seen, module.AppContextDestroys)
}

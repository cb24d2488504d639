package bridge

import (
	"testing"
	"time"

	"github.com/dop251/goja"
)

func TestRuntime_RunScript(t *testing.T) {
	rt := NewRuntime(WithoutConsole())

	v, err := rt.RunScript("expr.js", `6 * 7`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if v.ToInteger() != 42 {
		t.Errorf("value = %d", v.ToInteger())
	}
}

func TestRuntime_RunScriptPropagatesExceptions(t *testing.T) {
	rt := NewRuntime(WithoutConsole())

	_, err := rt.RunScript("throw.js", `throw new Error("nope")`)
	if err == nil {
		t.Fatal("script exceptions should surface as errors")
	}
}

func TestRuntime_ScheduleDeliversOnLoop(t *testing.T) {
	rt := NewRuntime(WithoutConsole())
	rt.Start()
	defer rt.Stop()

	done := make(chan struct{})
	if !rt.Schedule(func(vm *goja.Runtime) { close(done) }) {
		t.Fatal("schedule on a running loop should succeed")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled function never ran")
	}
}

func TestRuntime_StoppedRuntimeRefusesWork(t *testing.T) {
	rt := NewRuntime(WithoutConsole())
	rt.Start()
	rt.Stop()

	if rt.Schedule(func(vm *goja.Runtime) {}) {
		t.Error("schedule after stop should report false")
	}
	if _, err := rt.RunScript("late.js", `1`); err == nil {
		t.Error("script on a stopped runtime should fail")
	}
}

func TestRuntime_ConsoleAvailableByDefault(t *testing.T) {
	rt := NewRuntime()

	v, err := rt.RunScript("console.js", `typeof console.log`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if v.String() != "function" {
		t.Errorf("console.log = %s, want function", v.String())
	}
}

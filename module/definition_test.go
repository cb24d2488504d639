package module

import (
	"testing"
)

func testHandler(args []any) (any, error) { return nil, nil }

func TestBuilder_Build(t *testing.T) {
	def, err := NewDefinition("Device").
		Constant("platform", "linux").
		Constants(map[string]any{"version": 3}).
		Events("onBatteryLow", "onOrientationChange").
		SyncFunction("getValue", []ArgType{Int}, testHandler).
		AsyncFunction("fetch", []ArgType{String}, testHandler).
		View("DeviceView", "brightness", "orientation").
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if def.Name() != "Device" {
		t.Errorf("name = %s", def.Name())
	}
	if len(def.Functions()) != 2 {
		t.Errorf("functions = %d, want 2", len(def.Functions()))
	}
	if _, ok := def.Function("fetch"); !ok {
		t.Error("fetch should be registered")
	}
	if def.Functions()[0].Name() != "getValue" {
		t.Error("function order must follow declaration order")
	}
	if !def.HasEvent("onBatteryLow") || def.HasEvent("onUnknown") {
		t.Error("event set is wrong")
	}
	if view := def.View(); view == nil || view.Name != "DeviceView" || len(view.Props) != 2 {
		t.Errorf("view = %+v", def.View())
	}
}

func TestBuilder_DuplicateFunction(t *testing.T) {
	_, err := NewDefinition("M").
		SyncFunction("f", nil, testHandler).
		AsyncFunction("f", nil, testHandler).
		Build()
	if err == nil {
		t.Fatal("duplicate function name should fail")
	}
}

func TestBuilder_DuplicateEvent(t *testing.T) {
	_, err := NewDefinition("M").Events("onChange", "onChange").Build()
	if err == nil {
		t.Fatal("duplicate event name should fail")
	}
}

func TestBuilder_EmptyName(t *testing.T) {
	if _, err := NewDefinition("").Build(); err == nil {
		t.Fatal("empty module name should fail")
	}
}

func TestDefinition_ConstantsSnapshot(t *testing.T) {
	def := NewDefinition("M").Constant("k", 1).MustBuild()

	snap := def.Constants()
	snap["k"] = 2
	snap["extra"] = true

	if def.Constants()["k"] != 1 {
		t.Error("mutating a snapshot must not affect the definition")
	}
	if _, ok := def.Constants()["extra"]; ok {
		t.Error("definition constants must stay immutable")
	}
}

func TestMustBuild_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBuild should panic on builder error")
		}
	}()
	NewDefinition("").MustBuild()
}

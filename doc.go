// Package jsbridge lets native Go code expose structured functionality to an
// embedded JavaScript runtime, and lets scripts call back into that native
// logic, without either side knowing the other's memory model.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	jsbridge/          Root package with documentation
//	├── bridge/        AppContext, runtime attachment, host-object installation
//	├── registry/      Module registry and holders, dispatch, lifecycle events
//	├── module/        Module definitions, function descriptors, argument conversion
//	├── shared/        Shared-object table mapping native objects to integer handles
//	└── errors/        Structured error types crossing the native/script boundary
//
// # Quick Start
//
// Register a module and run a script against it:
//
//	ctx := bridge.NewAppContext()
//	defer ctx.Destroy()
//
//	if _, err := ctx.Register(myModule); err != nil {
//	    log.Fatal(err)
//	}
//
//	rt := bridge.NewRuntime()
//	ctx.AttachRuntime(rt)
//	ctx.Install() // binds the NativeModules global
//
//	rt.Start()
//	defer rt.Stop()
//
//	rt.RunScript("app.js", `NativeModules.Device.platform`)
//
// # Modules
//
// A module supplies a declarative Definition: a name, function descriptors
// (synchronous or asynchronous), a constants map, supported event names, and
// optionally a view descriptor. Definitions are immutable once built:
//
//	func (m *Device) Definition() *module.Definition {
//	    return module.NewDefinition("Device").
//	        Constants(map[string]any{"platform": runtime.GOOS}).
//	        SyncFunction("getValue", []module.ArgType{module.Int},
//	            func(args []any) (any, error) {
//	                return args[0].(int64) * 2, nil
//	            }).
//	        MustBuild()
//	}
//
// # Thread Safety
//
// The goja VM is owned by an event loop and is only touched on the loop
// thread. Synchronous functions run on the calling thread. Asynchronous
// function bodies run on worker goroutines; their completions are always
// marshalled back onto the loop thread before resolving the script-side
// promise. Registry and shared-object table mutation is confined to the
// owning AppContext.
package jsbridge

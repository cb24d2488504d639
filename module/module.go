package module

// Module is the registration contract for a native capability module. This is
// the sole way external functionality enters the registry.
type Module interface {
	// Definition returns the module's declarative bundle. It is consulted
	// once, at registration time.
	Definition() *Definition
}

// LifecycleEvent identifies an application lifecycle transition broadcast to
// every registered module.
type LifecycleEvent string

const (
	AppEntersForeground LifecycleEvent = "appEntersForeground"
	AppBecomesActive    LifecycleEvent = "appBecomesActive"
	AppEntersBackground LifecycleEvent = "appEntersBackground"
	AppContextDestroys  LifecycleEvent = "appContextDestroys"
)

// Modules opt into lifecycle events by implementing the matching interface;
// absence of the hook means the event is ignored for that module.

type ForegroundObserver interface {
	OnAppEntersForeground()
}

type ActiveObserver interface {
	OnAppBecomesActive()
}

type BackgroundObserver interface {
	OnAppEntersBackground()
}

type DestroyObserver interface {
	OnAppContextDestroys()
}

// EventObserver is notified when the module's total listener count
// transitions between zero and positive. Each transition fires exactly once.
type EventObserver interface {
	OnStartObserving()
	OnStopObserving()
}

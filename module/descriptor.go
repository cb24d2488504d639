package module

import (
	"github.com/wippyai/js-bridge/errors"
)

// Convention tags a function's calling convention.
type Convention uint8

const (
	// Sync functions execute on the calling thread and return immediately.
	Sync Convention = iota
	// Async functions may run off the calling thread and complete later via
	// callback, delivered on the script runtime's owning thread.
	Async
)

func (c Convention) String() string {
	if c == Async {
		return "async"
	}
	return "sync"
}

// Handler is the native body of a function. It receives the converted
// argument tuple and returns a result value or an error.
type Handler func(args []any) (any, error)

// Descriptor describes one callable unit: its name, declared argument types
// and calling convention. Descriptors are immutable after construction. The
// two concrete variants are SyncFunction and AsyncFunction, selected at
// registration time.
type Descriptor interface {
	Name() string
	ArgTypes() []ArgType
	Convention() Convention
}

// SyncFunction executes on the calling thread before returning.
type SyncFunction struct {
	name     string
	argTypes []ArgType
	handler  Handler
}

func NewSyncFunction(name string, argTypes []ArgType, handler Handler) *SyncFunction {
	return &SyncFunction{name: name, argTypes: argTypes, handler: handler}
}

func (f *SyncFunction) Name() string           { return f.name }
func (f *SyncFunction) ArgTypes() []ArgType    { return f.argTypes }
func (f *SyncFunction) Convention() Convention { return Sync }

// Call runs the native body with the already converted argument tuple.
// A returned bridge error passes through unchanged; any other failure is
// wrapped in a function-call error so provenance survives the boundary.
// A panic in the body is caught and reported as an unexpected error.
func (f *SyncFunction) Call(args []any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, errors.Unexpected(r)
		}
	}()

	value, err = f.handler(args)
	if err != nil {
		return nil, wrapCallError(f.name, err)
	}
	return value, nil
}

// AsyncFunction completes via callback instead of a return value.
type AsyncFunction struct {
	name     string
	argTypes []ArgType
	handler  Handler
}

func NewAsyncFunction(name string, argTypes []ArgType, handler Handler) *AsyncFunction {
	return &AsyncFunction{name: name, argTypes: argTypes, handler: handler}
}

func (f *AsyncFunction) Name() string           { return f.name }
func (f *AsyncFunction) ArgTypes() []ArgType    { return f.argTypes }
func (f *AsyncFunction) Convention() Convention { return Async }

// Call runs the native body in the caller's goroutine and reports the outcome
// through complete, exactly once. Failures go through the error channel only;
// Call never panics. Scheduling the body off the calling thread and
// marshalling the completion onto the runtime's thread is the dispatcher's
// job, not the descriptor's.
func (f *AsyncFunction) Call(args []any, complete func(value any, err error)) {
	defer func() {
		if r := recover(); r != nil {
			complete(nil, errors.Unexpected(r))
		}
	}()

	value, err := f.handler(args)
	if err != nil {
		complete(nil, wrapCallError(f.name, err))
		return
	}
	complete(value, nil)
}

// wrapCallError keeps typed bridge errors intact and attaches the function
// name to everything else.
func wrapCallError(function string, err error) error {
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	return errors.FunctionCall(function, err)
}

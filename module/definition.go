package module

import (
	"fmt"
)

// ViewDefinition describes a module's view factory: the view's name and the
// prop names the script side may set on it. The bridge only transports this
// metadata; rendering is the embedder's concern.
type ViewDefinition struct {
	Name  string
	Props []string
}

// Definition is the immutable, declarative bundle a capability module
// registers with: function descriptors, constants, supported event names and
// an optional view descriptor. Built once via Builder, never mutated after.
type Definition struct {
	name      string
	functions []Descriptor
	byName    map[string]Descriptor
	constants map[string]any
	events    []string
	eventSet  map[string]struct{}
	view      *ViewDefinition
}

func (d *Definition) Name() string { return d.name }

// Functions returns the descriptors in declaration order.
func (d *Definition) Functions() []Descriptor { return d.functions }

// Function returns the descriptor registered under name.
func (d *Definition) Function(name string) (Descriptor, bool) {
	desc, ok := d.byName[name]
	return desc, ok
}

// Constants returns a snapshot of the constants map.
func (d *Definition) Constants() map[string]any {
	out := make(map[string]any, len(d.constants))
	for k, v := range d.constants {
		out[k] = v
	}
	return out
}

// Events returns the declared event names in declaration order.
func (d *Definition) Events() []string { return d.events }

// HasEvent reports whether the module declared the event name.
func (d *Definition) HasEvent(name string) bool {
	_, ok := d.eventSet[name]
	return ok
}

// View returns the view descriptor, or nil if the module has none.
func (d *Definition) View() *ViewDefinition { return d.view }

// Builder assembles a Definition. Errors (empty module name, duplicate
// function or event names) are collected and reported by Build.
type Builder struct {
	def Definition
	err error
}

func NewDefinition(name string) *Builder {
	b := &Builder{
		def: Definition{
			name:      name,
			byName:    make(map[string]Descriptor),
			constants: make(map[string]any),
			eventSet:  make(map[string]struct{}),
		},
	}
	if name == "" {
		b.err = fmt.Errorf("module name cannot be empty")
	}
	return b
}

func (b *Builder) fail(format string, args ...any) *Builder {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
	return b
}

func (b *Builder) addFunction(desc Descriptor) *Builder {
	if desc.Name() == "" {
		return b.fail("module %s: function name cannot be empty", b.def.name)
	}
	if _, exists := b.def.byName[desc.Name()]; exists {
		return b.fail("module %s: duplicate function %q", b.def.name, desc.Name())
	}
	b.def.functions = append(b.def.functions, desc)
	b.def.byName[desc.Name()] = desc
	return b
}

// SyncFunction declares a synchronous function.
func (b *Builder) SyncFunction(name string, argTypes []ArgType, handler Handler) *Builder {
	return b.addFunction(NewSyncFunction(name, argTypes, handler))
}

// AsyncFunction declares an asynchronous function.
func (b *Builder) AsyncFunction(name string, argTypes []ArgType, handler Handler) *Builder {
	return b.addFunction(NewAsyncFunction(name, argTypes, handler))
}

// Constants merges values into the constants map. Later calls win on key
// collisions.
func (b *Builder) Constants(values map[string]any) *Builder {
	for k, v := range values {
		b.def.constants[k] = v
	}
	return b
}

// Constant sets a single constant.
func (b *Builder) Constant(name string, value any) *Builder {
	b.def.constants[name] = value
	return b
}

// Events declares the event names the module can emit.
func (b *Builder) Events(names ...string) *Builder {
	for _, name := range names {
		if _, exists := b.def.eventSet[name]; exists {
			return b.fail("module %s: duplicate event %q", b.def.name, name)
		}
		b.def.events = append(b.def.events, name)
		b.def.eventSet[name] = struct{}{}
	}
	return b
}

// View declares the module's view factory metadata.
func (b *Builder) View(name string, props ...string) *Builder {
	b.def.view = &ViewDefinition{Name: name, Props: props}
	return b
}

// Build finalizes the definition.
func (b *Builder) Build() (*Definition, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &b.def, nil
}

// MustBuild is Build for static definitions that cannot fail at runtime.
func (b *Builder) MustBuild() *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

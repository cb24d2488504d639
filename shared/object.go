package shared

import "sync/atomic"

// ID is an opaque handle identifying a native object from the script side.
// ID 0 means the object is not linked to any script-side state.
type ID uint64

// Object is implemented by native objects that can be exposed across the
// boundary. Embed Base to satisfy it.
type Object interface {
	sharedObjectID() ID
	setSharedObjectID(ID)
}

// Releaser is an optional hook invoked when the object's table entry is
// removed, whether by an explicit Remove or by the teardown sweep.
type Releaser interface {
	Release()
}

// Base carries the shared-object ID stamp. Embed it in any native type that
// crosses the boundary:
//
//	type Database struct {
//	    shared.Base
//	    conn *sql.Conn
//	}
type Base struct {
	id atomic.Uint64
}

func (b *Base) sharedObjectID() ID      { return ID(b.id.Load()) }
func (b *Base) setSharedObjectID(id ID) { b.id.Store(uint64(id)) }

package shared

import (
	"sync"
)

// Table is the per-AppContext association between native objects and their
// script-side handles.
type Table struct {
	entries map[ID]Object
	nextID  uint64
	closed  bool
	mu      sync.RWMutex
}

// NewTable creates an empty table. The first allocated ID is 1.
func NewTable() *Table {
	return &Table{
		entries: make(map[ID]Object),
	}
}

// Insert links obj to the next unused ID and returns it. If the object is
// already linked, its existing ID is returned instead of allocating a new
// one. Returns 0 after the table has been closed.
func (t *Table) Insert(obj Object) ID {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0
	}

	if id := obj.sharedObjectID(); id != 0 {
		if _, ok := t.entries[id]; ok {
			return id
		}
	}

	t.nextID++
	id := ID(t.nextID)
	t.entries[id] = obj
	obj.setSharedObjectID(id)
	return id
}

// Get returns the object linked to id.
func (t *Table) Get(id ID) (Object, bool) {
	if id == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	obj, ok := t.entries[id]
	return obj, ok
}

// IDOf returns obj's handle, or 0 when the object is unlinked.
func (t *Table) IDOf(obj Object) ID {
	id := obj.sharedObjectID()
	if id == 0 {
		return 0
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, ok := t.entries[id]; !ok {
		return 0
	}
	return id
}

// Remove unlinks id and returns the object. The object's ID stamp is cleared
// and its Release hook, if any, is invoked.
func (t *Table) Remove(id ID) (Object, bool) {
	t.mu.Lock()
	obj, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}
	t.mu.Unlock()

	if !ok {
		return nil, false
	}

	obj.setSharedObjectID(0)
	if r, ok := obj.(Releaser); ok {
		r.Release()
	}
	return obj, true
}

// Len returns the number of linked objects.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Clear sweeps every entry, clearing each object's stamp and invoking its
// Release hook. The table stays usable and the ID counter does not reset, so
// swept IDs are never handed out again.
func (t *Table) Clear() {
	t.mu.Lock()
	swept := t.entries
	t.entries = make(map[ID]Object)
	t.mu.Unlock()

	for _, obj := range swept {
		obj.setSharedObjectID(0)
		if r, ok := obj.(Releaser); ok {
			r.Release()
		}
	}
}

// Close sweeps all entries and rejects further inserts. Lookups on a closed
// table return absent.
func (t *Table) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	swept := t.entries
	t.entries = make(map[ID]Object)
	t.mu.Unlock()

	for _, obj := range swept {
		obj.setSharedObjectID(0)
		if r, ok := obj.(Releaser); ok {
			r.Release()
		}
	}
}

// Package shared maps native objects to opaque integer handles so script code
// can reference them without holding a raw native reference, and script-side
// garbage collection can never directly free native memory.
//
// Each AppContext owns one Table. IDs are allocated from a monotonic counter
// starting above zero; 0 is reserved for "no script-side counterpart yet" and
// an ID is never reused for the lifetime of the table. Objects embed Base so
// the table can stamp the ID onto the object, giving a bidirectional mapping
// without a reverse index.
//
// The table performs no reference counting of its own: an entry either exists
// or it does not. Reconciling the two collectors is done by an explicit sweep
// (Clear/Close) at runtime detach or context teardown.
package shared

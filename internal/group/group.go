// Package group implements a bounded ordered collection of uniquely
// identified field sets — the backing store for the form's repeating day and
// cost blocks. Entries are identified by an opaque uuid, never by their
// position or by any user-editable field, so renumbering a day never loses
// its identity.
package group

import "github.com/google/uuid"

// Entry pairs a stable identifier with one block's field values.
type Entry[T any] struct {
	ID     uuid.UUID
	Fields T
}

// Group is an append-only ordered list of entries with a configurable
// maximum size and a fixed minimum size of one. A new group always holds
// exactly one empty entry.
//
// Group is not safe for concurrent use. Each form instance owns its own.
type Group[T any] struct {
	max     int
	entries []Entry[T]
}

// New returns a Group seeded with a single empty entry. max is the largest
// number of entries interactive mutation may create; use SetMax to track a
// dynamic bound such as the resolved day count.
func New[T any](max int) *Group[T] {
	g := &Group[T]{max: max}
	g.entries = append(g.entries, Entry[T]{ID: uuid.New()})
	return g
}

// Append adds a new empty entry at the end and returns its identifier.
// It is a no-op returning false when the group is already at its maximum.
func (g *Group[T]) Append() (uuid.UUID, bool) {
	if len(g.entries) >= g.max {
		return uuid.Nil, false
	}
	id := uuid.New()
	g.entries = append(g.entries, Entry[T]{ID: id})
	return id, true
}

// Remove deletes the entry with the given identifier, preserving the
// relative order of the remainder. It is a no-op returning false when the
// group holds only one entry or the identifier is unknown.
func (g *Group[T]) Remove(id uuid.UUID) bool {
	if len(g.entries) == 1 {
		return false // always keep one
	}
	for i, e := range g.entries {
		if e.ID == id {
			g.entries = append(g.entries[:i], g.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Ensure makes an entry with the given identifier exist, appending an empty
// one if needed, and returns it. Unlike Append it does not enforce the
// maximum: it restores entries from untrusted wire payloads, and an
// over-long payload should fail validation rather than silently lose blocks.
func (g *Group[T]) Ensure(id uuid.UUID) *Entry[T] {
	for i := range g.entries {
		if g.entries[i].ID == id {
			return &g.entries[i]
		}
	}
	g.entries = append(g.entries, Entry[T]{ID: id})
	return &g.entries[len(g.entries)-1]
}

// Update applies fn to the fields of the entry with the given identifier.
// It returns false when the identifier is unknown.
func (g *Group[T]) Update(id uuid.UUID, fn func(*T)) bool {
	for i := range g.entries {
		if g.entries[i].ID == id {
			fn(&g.entries[i].Fields)
			return true
		}
	}
	return false
}

// Entries returns the current entries in insertion order. The returned
// slice is a copy; mutating it does not affect the group.
func (g *Group[T]) Entries() []Entry[T] {
	out := make([]Entry[T], len(g.entries))
	copy(out, g.entries)
	return out
}

// Len returns the current number of entries.
func (g *Group[T]) Len() int { return len(g.entries) }

// Max returns the configured maximum size.
func (g *Group[T]) Max() int { return g.max }

// SetMax re-bounds the group. Shrinking the bound below the current size
// does not evict entries; the surplus must fail validation instead, so the
// user decides which blocks to delete.
func (g *Group[T]) SetMax(max int) { g.max = max }

// ShowAdd reports whether the "add" control should be actionable on the
// entry with the given identifier: only on the last entry, and only while
// the group is below its maximum.
func (g *Group[T]) ShowAdd(id uuid.UUID) bool {
	return len(g.entries) < g.max && g.entries[len(g.entries)-1].ID == id
}

// ShowRemove reports whether "delete" controls should be actionable: on
// every entry, once the group holds more than one.
func (g *Group[T]) ShowRemove() bool { return len(g.entries) > 1 }

package group_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovelytrails/itinerary-builder/internal/group"
)

// costFields mirrors the shape the form stores per cost block.
type costFields struct {
	Entity  string
	Details string
}

func TestNew_SeedsOneEmptyEntry(t *testing.T) {
	g := group.New[costFields](10)

	require.Equal(t, 1, g.Len())
	entry := g.Entries()[0]
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, costFields{}, entry.Fields)
}

func TestAppend_GrowsUntilMax(t *testing.T) {
	g := group.New[costFields](3)

	_, ok := g.Append()
	require.True(t, ok)
	_, ok = g.Append()
	require.True(t, ok)
	require.Equal(t, 3, g.Len())

	id, ok := g.Append()
	assert.False(t, ok, "append at max must be a no-op")
	assert.Equal(t, uuid.Nil, id)
	assert.Equal(t, 3, g.Len())
}

func TestAppend_UniqueIdentifiers(t *testing.T) {
	g := group.New[costFields](10)
	seen := map[uuid.UUID]bool{g.Entries()[0].ID: true}

	for i := 0; i < 9; i++ {
		id, ok := g.Append()
		require.True(t, ok)
		assert.False(t, seen[id], "identifier reused")
		seen[id] = true
	}
}

func TestRemove_RefusedOnSoleEntry(t *testing.T) {
	g := group.New[costFields](10)
	only := g.Entries()[0].ID

	assert.False(t, g.Remove(only))
	assert.Equal(t, 1, g.Len(), "group size never drops below 1")
}

func TestRemove_PreservesOrder(t *testing.T) {
	g := group.New[costFields](10)
	first := g.Entries()[0].ID
	second, _ := g.Append()
	third, _ := g.Append()

	require.True(t, g.Remove(second))

	entries := g.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0].ID)
	assert.Equal(t, third, entries[1].ID)
}

func TestRemove_UnknownIdentifier(t *testing.T) {
	g := group.New[costFields](10)
	g.Append()

	assert.False(t, g.Remove(uuid.New()))
	assert.Equal(t, 2, g.Len())
}

func TestUpdate_MutatesOneEntry(t *testing.T) {
	g := group.New[costFields](10)
	second, _ := g.Append()

	ok := g.Update(second, func(f *costFields) {
		f.Entity = "Hotel"
		f.Details = "3 nights"
	})
	require.True(t, ok)

	entries := g.Entries()
	assert.Equal(t, costFields{}, entries[0].Fields, "other entries untouched")
	assert.Equal(t, "Hotel", entries[1].Fields.Entity)

	assert.False(t, g.Update(uuid.New(), func(*costFields) {}))
}

func TestEnsure_RestoresWirePayloadBeyondMax(t *testing.T) {
	g := group.New[costFields](1)

	extra := uuid.New()
	entry := g.Ensure(extra)
	require.NotNil(t, entry)
	assert.Equal(t, 2, g.Len(), "Ensure ignores the max; validation flags overflow")

	// Ensure on an existing id returns the same entry, not a duplicate.
	again := g.Ensure(extra)
	assert.Equal(t, entry.ID, again.ID)
	assert.Equal(t, 2, g.Len())
}

func TestSetMax_ShrinkDoesNotEvict(t *testing.T) {
	g := group.New[costFields](5)
	g.Append()
	g.Append()

	g.SetMax(2)
	assert.Equal(t, 3, g.Len(), "surplus entries stay until the user deletes them")

	_, ok := g.Append()
	assert.False(t, ok, "but growth is refused")
}

func TestShowAdd_OnlyOnLastEntryBelowMax(t *testing.T) {
	g := group.New[costFields](2)
	first := g.Entries()[0].ID

	assert.True(t, g.ShowAdd(first))

	second, _ := g.Append()
	assert.False(t, g.ShowAdd(first), "not the last entry")
	assert.False(t, g.ShowAdd(second), "at max")
}

func TestShowRemove_OncePluralEntries(t *testing.T) {
	g := group.New[costFields](10)
	assert.False(t, g.ShowRemove())

	g.Append()
	assert.True(t, g.ShowRemove())
}

package daterange_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovelytrails/itinerary-builder/internal/daterange"
)

// fixedNow pins "today" to 2026-01-15 so the selectable window is stable.
func fixedNow() time.Time {
	return time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
}

func newResolver() *daterange.Resolver {
	return daterange.NewAt(fixedNow)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ---- window ----------------------------------------------------------------

func TestResolver_Window(t *testing.T) {
	r := newResolver()

	assert.Equal(t, date(2026, time.January, 15), r.MinDate())
	assert.Equal(t, date(2027, time.December, 31), r.MaxDate())
}

func TestResolver_SetFrom_RefusesOutsideWindow(t *testing.T) {
	r := newResolver()

	assert.False(t, r.SetFrom(date(2026, time.January, 14)), "yesterday")
	assert.False(t, r.SetFrom(date(2028, time.January, 1)), "past Dec 31 next year")

	_, ok := r.From()
	assert.False(t, ok, "refused dates must not be recorded")

	assert.True(t, r.SetFrom(date(2026, time.January, 15)), "today is selectable")
	assert.True(t, r.SetFrom(date(2027, time.December, 31)), "window edge is selectable")
}

func TestResolver_SelectableTo_ExcludesBeforeFrom(t *testing.T) {
	r := newResolver()
	require.True(t, r.SetFrom(date(2026, time.February, 3)))

	assert.False(t, r.SelectableTo(date(2026, time.February, 2)))
	assert.True(t, r.SelectableTo(date(2026, time.February, 3)), "same-day trip allowed")
	assert.False(t, r.SetTo(date(2026, time.February, 2)))
}

// ---- day bound -------------------------------------------------------------

func TestResolver_DayBound_DefaultWhileDatesUnset(t *testing.T) {
	r := newResolver()
	assert.Equal(t, daterange.DefaultDayBound, r.DayBound())

	require.True(t, r.SetFrom(date(2026, time.February, 3)))
	assert.Equal(t, daterange.DefaultDayBound, r.DayBound(), "to date still unset")
}

func TestResolver_DayBound_InclusiveSpan(t *testing.T) {
	r := newResolver()
	require.True(t, r.SetFrom(date(2026, time.February, 3)))
	require.True(t, r.SetTo(date(2026, time.February, 8)))

	assert.Equal(t, 6, r.DayBound())
}

func TestResolver_DayBound_SameDayIsOne(t *testing.T) {
	r := newResolver()
	require.True(t, r.SetFrom(date(2026, time.March, 1)))
	require.True(t, r.SetTo(date(2026, time.March, 1)))

	assert.Equal(t, 1, r.DayBound())
}

func TestResolver_DayBound_ShrinksWhenToDateMovesEarlier(t *testing.T) {
	r := newResolver()
	require.True(t, r.SetFrom(date(2026, time.June, 1)))
	require.True(t, r.SetTo(date(2026, time.June, 30)))
	require.Equal(t, 30, r.DayBound())

	require.True(t, r.SetTo(date(2026, time.June, 5)))
	assert.Equal(t, 5, r.DayBound())
}

func TestSpan_FlooredAtOne(t *testing.T) {
	// Span itself never goes below 1 even for inverted inputs; the resolver
	// prevents inverted pairs from being selected in the first place.
	assert.Equal(t, 1, daterange.Span(date(2026, time.June, 5), date(2026, time.June, 1)))
}

func TestSpan_IgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2026, 2, 3, 23, 59, 0, 0, time.UTC)
	to := time.Date(2026, 2, 8, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 6, daterange.Span(from, to))
}

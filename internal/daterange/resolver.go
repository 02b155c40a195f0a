// Package daterange computes the valid day-count bound for a trip from its
// from/to date pair and enforces the selectable date window.
package daterange

import "time"

// DefaultDayBound is the day-count bound used while either date is still
// unset, so the day-count selector stays usable before both dates are picked.
const DefaultDayBound = 50

// Resolver tracks the chosen from/to dates and derives the maximum
// selectable day count. The selectable window is [today, Dec 31 of next
// year]; dates outside it are excluded from selection rather than rejected
// after the fact.
//
// Resolver is not safe for concurrent use. Each form instance owns its own.
type Resolver struct {
	now  func() time.Time
	from *time.Time
	to   *time.Time
}

// New returns a Resolver with neither date chosen.
func New() *Resolver {
	return &Resolver{now: time.Now}
}

// NewAt returns a Resolver whose notion of "today" comes from now.
// Tests use this to pin the selectable window.
func NewAt(now func() time.Time) *Resolver {
	return &Resolver{now: now}
}

// MinDate returns the earliest selectable date: today, at midnight.
func (r *Resolver) MinDate() time.Time {
	return midnight(r.now())
}

// MaxDate returns the latest selectable date: Dec 31 of next calendar year.
func (r *Resolver) MaxDate() time.Time {
	return time.Date(r.now().Year()+1, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// SelectableFrom reports whether d may be chosen as the from date.
func (r *Resolver) SelectableFrom(d time.Time) bool {
	return r.inWindow(d)
}

// SelectableTo reports whether d may be chosen as the to date. A to date
// earlier than the chosen from date is excluded, not rejected later.
func (r *Resolver) SelectableTo(d time.Time) bool {
	if r.from != nil && midnight(d).Before(midnight(*r.from)) {
		return false
	}
	return r.inWindow(d)
}

// SetFrom records d as the from date. It returns false and leaves the state
// unchanged when d is outside the selectable window.
func (r *Resolver) SetFrom(d time.Time) bool {
	if !r.SelectableFrom(d) {
		return false
	}
	d = midnight(d)
	r.from = &d
	return true
}

// SetTo records d as the to date. It returns false and leaves the state
// unchanged when d is not selectable given the current from date.
func (r *Resolver) SetTo(d time.Time) bool {
	if !r.SelectableTo(d) {
		return false
	}
	d = midnight(d)
	r.to = &d
	return true
}

// From returns the chosen from date, or false when unset.
func (r *Resolver) From() (time.Time, bool) {
	if r.from == nil {
		return time.Time{}, false
	}
	return *r.from, true
}

// To returns the chosen to date, or false when unset.
func (r *Resolver) To() (time.Time, bool) {
	if r.to == nil {
		return time.Time{}, false
	}
	return *r.to, true
}

// DayBound returns the maximum selectable day count. While either date is
// unset it returns DefaultDayBound. Otherwise it is the inclusive span in
// days, floored at 1 so a same-day trip counts as one day.
//
// Callers that let the user pick a day count must revalidate it whenever the
// bound shrinks: rows whose day number now exceeds the bound are invalid.
func (r *Resolver) DayBound() int {
	if r.from == nil || r.to == nil {
		return DefaultDayBound
	}
	return Span(*r.from, *r.to)
}

// Span returns the inclusive day count between from and to, minimum 1.
func Span(from, to time.Time) int {
	diff := midnight(to).Sub(midnight(from))
	days := int(diff.Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

func (r *Resolver) inWindow(d time.Time) bool {
	d = midnight(d)
	return !d.Before(r.MinDate()) && !d.After(r.MaxDate())
}

// midnight truncates t to 00:00 UTC so whole-day arithmetic is unaffected
// by the time of day the resolver was consulted.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

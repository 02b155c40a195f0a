// Package form holds the itinerary form's field state, validates it, and
// flattens it into a submission-ready domain.TripRequest.
//
// Internally the repeating blocks live in typed groups keyed by (kind,
// identifier); the flat "day-<uid>-number" naming is only a wire concern
// handled by Bind.
package form

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lovelytrails/itinerary-builder/internal/daterange"
	"github.com/lovelytrails/itinerary-builder/internal/domain"
	"github.com/lovelytrails/itinerary-builder/internal/group"
)

// DateFormat is the wire format for fromDate/toDate values.
const DateFormat = "2006-01-02"

// DayFields holds one day block's raw field values. Number stays a string
// until flattening: the wire delivers text, and validation reports
// non-numeric input as a field error rather than dropping it.
type DayFields struct {
	Number  string
	Details string
}

// CostFields holds one cost block's raw field values.
type CostFields struct {
	Entity  string
	Details string
}

var (
	dayKey  = regexp.MustCompile(`^day-(.+)-(number|details)$`)
	costKey = regexp.MustCompile(`^cost-(.+)-(entity|details)$`)
)

// Aggregator owns the whole form: scalar fields, the two repeating groups,
// and the date-range resolver that bounds the day count. It never returns a
// Go error for bad input — validation produces a field→message map and
// submission is allowed only when that map is empty.
//
// Aggregator is not safe for concurrent use. Each form instance owns one.
type Aggregator struct {
	title           string
	destination     string
	name            string
	pax             string
	fromDate        string
	toDate          string
	days            string
	inclusions      string
	exclusions      string
	approximateCost string

	resolver *daterange.Resolver
	dayGroup *group.Group[DayFields]
	costs    *group.Group[CostFields]
	useCache bool
}

// New returns an Aggregator with one empty day block, one empty cost block,
// and caching enabled — the state a fresh form presents.
func New() *Aggregator {
	return NewWithResolver(daterange.New())
}

// NewWithResolver is New with an injected resolver, so tests can pin the
// selectable date window.
func NewWithResolver(r *daterange.Resolver) *Aggregator {
	return &Aggregator{
		resolver: r,
		dayGroup: group.New[DayFields](r.DayBound()),
		costs:    group.New[CostFields](domain.MaxCostItems),
		useCache: true,
	}
}

// Days exposes the day-block group for interactive mutation.
func (a *Aggregator) Days() *group.Group[DayFields] { return a.dayGroup }

// Costs exposes the cost-block group for interactive mutation.
func (a *Aggregator) Costs() *group.Group[CostFields] { return a.costs }

// Resolver exposes the date-range resolver.
func (a *Aggregator) Resolver() *daterange.Resolver { return a.resolver }

// UseCache reports the current cache-preference flag.
func (a *Aggregator) UseCache() bool { return a.useCache }

// SetUseCache sets the cache-preference flag carried into the flattened output.
func (a *Aggregator) SetUseCache(v bool) { a.useCache = v }

// ToggleCache flips the cache-preference flag and returns the new value.
func (a *Aggregator) ToggleCache() bool {
	a.useCache = !a.useCache
	return a.useCache
}

// SetFromDate records the from date via the resolver and re-bounds the day
// group. It returns false when the date is outside the selectable window.
func (a *Aggregator) SetFromDate(d time.Time) bool {
	if !a.resolver.SetFrom(d) {
		return false
	}
	a.fromDate = d.Format(DateFormat)
	a.dayGroup.SetMax(a.resolver.DayBound())
	return true
}

// SetToDate records the to date via the resolver and re-bounds the day
// group. It returns false when the date is not selectable.
func (a *Aggregator) SetToDate(d time.Time) bool {
	if !a.resolver.SetTo(d) {
		return false
	}
	a.toDate = d.Format(DateFormat)
	a.dayGroup.SetMax(a.resolver.DayBound())
	return true
}

// Set assigns a scalar field by its wire name. Unknown names are ignored,
// matching the wire contract where anything that is not a day or cost key is
// a top-level scalar. Dates set this way are re-checked during validation.
func (a *Aggregator) Set(name, value string) {
	switch name {
	case "title":
		a.title = value
	case "destination":
		a.destination = value
	case "name":
		a.name = value
	case "pax":
		a.pax = value
	case "fromDate":
		a.fromDate = value
	case "toDate":
		a.toDate = value
	case "days":
		a.days = value
	case "inclusions":
		a.inclusions = value
	case "exclusions":
		a.exclusions = value
	case "approximateCost":
		a.approximateCost = value
	}
}

// Field is one wire field in document order. Binding preserves the order
// fields arrived in, because cost blocks must keep their on-page order in
// the flattened output and the wire carries no other ordering signal.
type Field struct {
	Name  string
	Value string
}

// Bind routes flat wire fields into the aggregator: "day-<uid>-number",
// "day-<uid>-details", "cost-<uid>-entity" and "cost-<uid>-details" names
// are restored into their groups by identifier, everything else goes
// through Set.
//
// When the payload carries its own blocks, the pristine seed entry a fresh
// group starts with is dropped so it does not surface as a phantom empty
// block during validation.
func (a *Aggregator) Bind(fields []Field) {
	daySeed := seedID(a.dayGroup.Entries())
	costSeed := seedID(a.costs.Entries())
	boundDay, boundCost := false, false

	for _, f := range fields {
		name, value := f.Name, f.Value
		if m := dayKey.FindStringSubmatch(name); m != nil {
			id, err := uuid.Parse(m[1])
			if err != nil {
				continue
			}
			entry := a.dayGroup.Ensure(id)
			if m[2] == "number" {
				entry.Fields.Number = value
			} else {
				entry.Fields.Details = value
			}
			if id != daySeed {
				boundDay = true
			}
			continue
		}
		if m := costKey.FindStringSubmatch(name); m != nil {
			id, err := uuid.Parse(m[1])
			if err != nil {
				continue
			}
			entry := a.costs.Ensure(id)
			if m[2] == "entity" {
				entry.Fields.Entity = value
			} else {
				entry.Fields.Details = value
			}
			if id != costSeed {
				boundCost = true
			}
			continue
		}
		a.Set(name, value)
	}

	if boundDay {
		a.dropIfEmpty(daySeed, true)
	}
	if boundCost {
		a.dropIfEmpty(costSeed, false)
	}
}

// Validate runs every field and cross-field rule and returns the failures
// keyed by wire field name. An empty map means the form is submittable.
func (a *Aggregator) Validate() domain.FieldErrors {
	errs := domain.FieldErrors{}

	requireText(errs, "title", a.title, "Title is required")
	requireText(errs, "destination", a.destination, "Destination is required")
	requireText(errs, "name", a.name, "Name is required")
	requireText(errs, "pax", a.pax, "PAX is required")
	requireText(errs, "inclusions", a.inclusions, "Inclusions are required")
	requireText(errs, "exclusions", a.exclusions, "Exclusions are required")

	from, to := a.validateDates(errs)

	bound := daterange.DefaultDayBound
	if from != nil && to != nil {
		bound = daterange.Span(*from, *to)
	}

	days := a.validateDays(errs, bound)
	a.validateDayBlocks(errs, days)
	a.validateCostBlocks(errs)

	if a.approximateCost != "" && !domain.ValidCostBand(a.approximateCost) {
		errs["approximateCost"] = "Invalid cost range"
	}

	return errs
}

// Flatten validates and, when clean, produces the submission document:
// scalars copied verbatim, costs in insertion order, the itinerary sorted
// ascending by day number, and the "Not specified" marker substituted for an
// unset cost band. On validation failure it returns the field errors and a
// zero TripRequest.
func (a *Aggregator) Flatten() (domain.TripRequest, domain.FieldErrors) {
	if errs := a.Validate(); !errs.Empty() {
		return domain.TripRequest{}, errs
	}

	days, _ := strconv.Atoi(strings.TrimSpace(a.days))

	costs := make([]domain.CostItem, 0, a.costs.Len())
	for _, e := range a.costs.Entries() {
		costs = append(costs, domain.CostItem{
			Entity:  strings.TrimSpace(e.Fields.Entity),
			Details: strings.TrimSpace(e.Fields.Details),
		})
	}

	itinerary := make([]domain.DayEntry, 0, a.dayGroup.Len())
	for _, e := range a.dayGroup.Entries() {
		n, _ := strconv.Atoi(strings.TrimSpace(e.Fields.Number))
		itinerary = append(itinerary, domain.DayEntry{
			Number:  n,
			Details: e.Fields.Details,
		})
	}
	// Itinerary order follows the logical day sequence, not the order the
	// user happened to fill the blocks in.
	sortDays(itinerary)

	cost := strings.TrimSpace(a.approximateCost)
	if cost == "" {
		cost = domain.NotSpecified
	}

	return domain.TripRequest{
		Title:           a.title,
		Destination:     a.destination,
		Name:            a.name,
		Pax:             a.pax,
		FromDate:        a.fromDate,
		ToDate:          a.toDate,
		Days:            days,
		Inclusions:      a.inclusions,
		Exclusions:      a.exclusions,
		ApproximateCost: cost,
		Costs:           costs,
		Itinerary:       itinerary,
		UseCache:        a.useCache,
	}, nil
}

// ---- validation helpers ----------------------------------------------------

func (a *Aggregator) validateDates(errs domain.FieldErrors) (from, to *time.Time) {
	if strings.TrimSpace(a.fromDate) == "" {
		errs["fromDate"] = "Please select the from date"
	} else if d, err := time.Parse(DateFormat, a.fromDate); err != nil {
		errs["fromDate"] = "Please select the from date"
	} else if !a.resolver.SelectableFrom(d) {
		errs["fromDate"] = "From date is out of range"
	} else {
		from = &d
	}

	if strings.TrimSpace(a.toDate) == "" {
		errs["toDate"] = "Please select the to date"
	} else if d, err := time.Parse(DateFormat, a.toDate); err != nil {
		errs["toDate"] = "Please select the to date"
	} else {
		to = &d
	}

	// The ordering check needs both dates, but the window check must not:
	// a toDate past the window is wrong no matter what fromDate says.
	if to != nil {
		if from != nil && to.Before(*from) {
			errs["toDate"] = "To date cannot be before the from date"
			to = nil
		} else if !a.resolver.SelectableTo(*to) {
			errs["toDate"] = "To date is out of range"
			to = nil
		}
	}
	return from, to
}

func (a *Aggregator) validateDays(errs domain.FieldErrors, bound int) int {
	raw := strings.TrimSpace(a.days)
	if raw == "" {
		errs["days"] = "Please select the number of days"
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		errs["days"] = "Please select the number of days"
		return 0
	}
	if n > bound {
		errs["days"] = fmt.Sprintf("Number of days cannot exceed %d", bound)
		return 0
	}
	return n
}

func (a *Aggregator) validateDayBlocks(errs domain.FieldErrors, days int) {
	if days == 0 {
		// The day-count selection itself failed; per-block range checks
		// against an unknown bound would only produce noise.
		return
	}
	for _, e := range a.dayGroup.Entries() {
		field := fmt.Sprintf("day-%s-number", e.ID)
		raw := strings.TrimSpace(e.Fields.Number)
		if raw == "" {
			errs[field] = "Day number is required"
			continue
		}
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs[field] = "Must be a number"
		case n < 1:
			errs[field] = "Day must be at least 1"
		case n > days:
			errs[field] = fmt.Sprintf("Day cannot exceed %d", days)
		}
	}
}

func (a *Aggregator) validateCostBlocks(errs domain.FieldErrors) {
	if a.costs.Len() > domain.MaxCostItems {
		errs["costs"] = fmt.Sprintf("At most %d cost items are allowed", domain.MaxCostItems)
	}
	for _, e := range a.costs.Entries() {
		if strings.TrimSpace(e.Fields.Entity) == "" {
			errs[fmt.Sprintf("cost-%s-entity", e.ID)] = "Cost entity is required"
		}
		if strings.TrimSpace(e.Fields.Details) == "" {
			errs[fmt.Sprintf("cost-%s-details", e.ID)] = "Cost details are required"
		}
	}
}

func requireText(errs domain.FieldErrors, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = message
	}
}

func (a *Aggregator) dropIfEmpty(seed uuid.UUID, day bool) {
	if day {
		for _, e := range a.dayGroup.Entries() {
			if e.ID == seed && e.Fields == (DayFields{}) {
				a.dayGroup.Remove(seed)
			}
		}
		return
	}
	for _, e := range a.costs.Entries() {
		if e.ID == seed && e.Fields == (CostFields{}) {
			a.costs.Remove(seed)
		}
	}
}

func seedID[T any](entries []group.Entry[T]) uuid.UUID {
	if len(entries) == 1 {
		return entries[0].ID
	}
	return uuid.Nil
}

// sortDays orders the itinerary ascending by day number. The sort is stable
// so blocks sharing a (still-invalid) duplicate number keep insertion order.
func sortDays(entries []domain.DayEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Number < entries[j].Number
	})
}

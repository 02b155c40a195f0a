// Package domain contains the core data types for the itinerary builder.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (daterange, group, form, submit, handler).
package domain

// MaxCostItems is the hard cap on cost line items per trip request.
// The form refuses to grow the cost group past this size.
const MaxCostItems = 10

// NotSpecified is substituted for the approximate cost band when the user
// leaves the selector empty. The document service renders it verbatim.
const NotSpecified = "Not specified"

// CostBands lists the selectable approximate-cost ranges, in display order.
// An empty value is also valid and flattens to NotSpecified.
var CostBands = []string{
	"5k-15k",
	"15k-30k",
	"30k-50k",
	"50k-100k",
	"100k-250k",
	"250k+",
}

// ValidCostBand reports whether band is one of the fixed cost ranges.
// The empty string is not a valid band; callers treat it as "unset".
func ValidCostBand(band string) bool {
	for _, b := range CostBands {
		if b == band {
			return true
		}
	}
	return false
}

// DayEntry is one itinerary day: its logical day number and a free-text
// description of the day's activities. Day numbers are user-editable and
// may arrive out of order; TripRequest.Itinerary is sorted by Number.
type DayEntry struct {
	Number  int    `json:"number"`
	Details string `json:"details"`
}

// CostItem is one line in the cost breakdown, e.g. {"Hotel", "3 nights at..."}.
// Both fields are required.
type CostItem struct {
	Entity  string `json:"entity"`
	Details string `json:"details"`
}

// TripRequest is the flattened, submission-ready form document. It is the
// exact input shape of the document service's createTripAndFetchPdf mutation.
//
// Invariants (enforced by form.Aggregator before flattening):
//   - Itinerary is sorted ascending by Number, each Number in [1, Days]
//     (the user may skip days, so the entry count need not equal Days)
//   - Costs holds 1..MaxCostItems items, in the order the user entered them
//   - FromDate/ToDate are "2006-01-02" strings with ToDate >= FromDate
type TripRequest struct {
	Title           string     `json:"title"`
	Destination     string     `json:"destination"`
	Name            string     `json:"name"`
	Pax             string     `json:"pax"`
	FromDate        string     `json:"fromDate"`
	ToDate          string     `json:"toDate"`
	Days            int        `json:"days"`
	Inclusions      string     `json:"inclusions"`
	Exclusions      string     `json:"exclusions"`
	ApproximateCost string     `json:"approximateCost"`
	Costs           []CostItem `json:"costs"`
	Itinerary       []DayEntry `json:"itinerary"`
	UseCache        bool       `json:"useCache"`
}

package domain

import (
	"errors"
	"sort"
)

// ErrValidation is wrapped by form errors when input fails business rule
// validation (e.g. missing required field, day number above the bound).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrSubmissionInFlight is returned when a submission is started while a
// previous one for the same form instance has not yet reached a terminal
// state. The submit affordance should be disabled while in flight.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// FieldErrors maps a wire field name to its validation message. Validation
// failures are field-scoped and non-fatal: the form surfaces them for the UI
// to render next to each field and submission proceeds only when the map is
// empty. They are never converted into toasts or transport errors.
type FieldErrors map[string]string

// Empty reports whether no field failed validation.
func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// Fields returns the failing field names in sorted order, for stable logs
// and deterministic test output.
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

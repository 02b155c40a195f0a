package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lovelytrails/itinerary-builder/internal/form"
)

func TestAcceptEdit_NavigationKeysAlwaysPass(t *testing.T) {
	for _, key := range []string{"Backspace", "Delete", "ArrowLeft", "ArrowRight", "Tab"} {
		assert.True(t, form.AcceptEdit("99", key, 0, 0, 6), key)
	}
}

func TestAcceptEdit_NonDigitsRejected(t *testing.T) {
	for _, key := range []string{"a", "-", ".", " ", "Enter", "e"} {
		assert.False(t, form.AcceptEdit("", key, 0, 0, 6), key)
	}
}

func TestAcceptEdit_DigitWithinBound(t *testing.T) {
	assert.True(t, form.AcceptEdit("", "3", 0, 0, 6))
	assert.True(t, form.AcceptEdit("", "6", 0, 0, 6))
}

func TestAcceptEdit_ZeroRejected(t *testing.T) {
	// "0" alone predicts the value 0, below the minimum day number.
	assert.False(t, form.AcceptEdit("", "0", 0, 0, 6))
}

func TestAcceptEdit_PredictedValueAboveBound(t *testing.T) {
	// Field holds "1"; typing "2" at the end predicts 12 > 6.
	assert.False(t, form.AcceptEdit("1", "2", 1, 1, 6))
	// But with a bound of 20, 12 is fine.
	assert.True(t, form.AcceptEdit("1", "2", 1, 1, 20))
}

func TestAcceptEdit_InsertionAtCaret(t *testing.T) {
	// Field holds "1", caret before it; typing "2" predicts 21.
	assert.False(t, form.AcceptEdit("1", "2", 0, 0, 6))
	assert.True(t, form.AcceptEdit("1", "2", 0, 0, 25))
}

func TestAcceptEdit_ReplacingSelection(t *testing.T) {
	// Whole field "50" selected; typing "4" predicts 4.
	assert.True(t, form.AcceptEdit("50", "4", 0, 2, 6))
}

func TestAcceptEdit_OutOfRangeSelectionClamped(t *testing.T) {
	assert.True(t, form.AcceptEdit("1", "2", -5, 99, 25), "bogus selection treated as append")
}

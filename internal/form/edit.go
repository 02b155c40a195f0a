package form

import "strconv"

// navigationKeys are accepted unconditionally: they move the caret or delete
// text and can only shrink the value, never push it out of range on their own.
var navigationKeys = map[string]bool{
	"Backspace":  true,
	"Delete":     true,
	"ArrowLeft":  true,
	"ArrowRight": true,
	"Tab":        true,
}

// AcceptEdit decides whether a candidate keystroke may be committed into a
// day-number field. current is the field's present text, key the keystroke
// name, selStart/selEnd the selection the keystroke would replace, and bound
// the current day-count bound.
//
// Only digit keys that leave the predicted value inside [1, bound] are
// accepted, so the committed field text is always a valid day number. The
// predicate is pure: it carries no UI event state and is property-testable.
func AcceptEdit(current, key string, selStart, selEnd, bound int) bool {
	if navigationKeys[key] {
		return true
	}
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return false
	}

	if selStart < 0 || selStart > len(current) {
		selStart = len(current)
	}
	if selEnd > len(current) {
		selEnd = len(current)
	}
	if selEnd < selStart {
		selEnd = selStart
	}

	predicted := current[:selStart] + key + current[selEnd:]
	n, err := strconv.Atoi(predicted)
	if err != nil {
		return false
	}
	return n >= 1 && n <= bound
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/lovelytrails/itinerary-builder/internal/domain"
	"github.com/lovelytrails/itinerary-builder/internal/submit"
)

// ErrorDetail is the machine-readable error payload shared by all failure
// responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// RecoveryURL points at the upstream platform's status page. Set only
	// on network-kind failures, where checking it is the actionable next step.
	RecoveryURL string `json:"recovery_url,omitempty"`

	// Severity is "soft" for upstream schema complaints the user can fix by
	// editing the form. Omitted for hard failures.
	Severity string `json:"severity,omitempty"`
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`

	// Fields carries field-scoped validation messages, keyed by wire field
	// name. Present only on 422 responses.
	Fields domain.FieldErrors `json:"fields,omitempty"`
}

// requestBody returns an ErrorResponse for a request rejected before
// reaching the form (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "bad_request", Message: message}}
}

// validationBody returns an ErrorResponse carrying the form's field errors.
// The top-level message stays generic; the per-field map is the real signal.
func validationBody(errs domain.FieldErrors) ErrorResponse {
	return ErrorResponse{
		Error:  ErrorDetail{Code: "validation_error", Message: "form validation failed"},
		Fields: errs,
	}
}

// failureBody maps a classified submission failure onto the wire.
func failureBody(f *submit.Failure) ErrorResponse {
	detail := ErrorDetail{
		Code:        failureCode(f.Kind),
		Message:     f.Message,
		RecoveryURL: f.RecoveryURL,
	}
	if f.Severity == submit.SeveritySoft {
		detail.Severity = "soft"
	}
	return ErrorResponse{Error: detail}
}

func failureCode(k submit.Kind) string {
	switch k {
	case submit.KindServerStatus:
		return "server_error"
	case submit.KindSchema:
		return "generation_failed"
	case submit.KindNoData:
		return "no_data"
	case submit.KindUnreachable:
		return "unreachable"
	default:
		return "network_error"
	}
}

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

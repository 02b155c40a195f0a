package submit

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ErrorHeader is the response header the hosting platform sets when a
// request dies before reaching the application. It is consulted only on a
// non-success HTTP status.
const ErrorHeader = "x-vercel-error"

// StatusPageURL is the recovery hint attached to network-kind failures so
// the user can check whether the document service's platform is down.
const StatusPageURL = "https://www.vercel-status.com/"

// Kind partitions terminal failures by where in the pipeline they arose.
type Kind int

const (
	// KindServerStatus is a response with a non-success HTTP status.
	KindServerStatus Kind = iota
	// KindSchema is a well-formed response carrying a GraphQL errors array.
	KindSchema
	// KindNoData is a success response with no payload field.
	KindNoData
	// KindUnreachable means every retry attempt was exhausted.
	KindUnreachable
	// KindNetwork is any fault outside the classified response path:
	// transport errors surfacing past retry, malformed JSON, bad base64.
	KindNetwork
)

// Severity is a presentation hint only; it never affects retry behavior.
// Soft failures are upstream schema/validation complaints the user can
// plausibly fix by editing the form.
type Severity int

const (
	SeverityHard Severity = iota
	SeveritySoft
)

// Failure is a terminal, classified submission outcome. It satisfies error
// so it can flow through ordinary error returns.
type Failure struct {
	Kind        Kind
	Severity    Severity
	Message     string
	RecoveryURL string // set only on network-kind failures
	cause       error
}

func (f *Failure) Error() string { return f.Message }

// Unwrap exposes the underlying transport or decode error, when there is one.
func (f *Failure) Unwrap() error { return f.cause }

// graphQLResponse is the wire shape of the document service's reply.
// Error entries may be bare strings or objects with a message field, so
// they are kept raw until extraction.
type graphQLResponse struct {
	Data struct {
		CreateTripAndFetchPdf string `json:"createTripAndFetchPdf"`
	} `json:"data"`
	Errors []json.RawMessage `json:"errors"`
}

// Classify maps a completed HTTP exchange onto either the decoded PDF bytes
// or a terminal Failure, in priority order: bad status, GraphQL errors,
// missing payload, then payload decode. It is pure — no transport, no
// retry — so the full table is testable without a network.
func Classify(status int, platformError string, body []byte) ([]byte, *Failure) {
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		msg := fmt.Sprintf("Unexpected server error (%d)", status)
		if platformError != "" {
			msg = fmt.Sprintf("Server error (%d): %s", status, platformError)
		}
		return nil, &Failure{Kind: KindServerStatus, Severity: SeverityHard, Message: msg}
	}

	var resp graphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, networkFailure(err)
	}

	if len(resp.Errors) > 0 {
		msg := errorMessage(resp.Errors[0])
		return nil, &Failure{Kind: KindSchema, Severity: schemaSeverity(msg), Message: msg}
	}

	if resp.Data.CreateTripAndFetchPdf == "" {
		return nil, &Failure{Kind: KindNoData, Severity: SeverityHard, Message: "No PDF data returned"}
	}

	pdf, err := base64.StdEncoding.DecodeString(resp.Data.CreateTripAndFetchPdf)
	if err != nil {
		return nil, networkFailure(err)
	}
	return pdf, nil
}

// errorMessage extracts a display message from one GraphQL error entry,
// which may be a bare string or an object with a message field.
func errorMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return "PDF generation failed"
}

// schemaSeverity tags known upstream validation phrasing as soft. The match
// is the same probe the form UI uses to pick a warning icon over an error
// icon; it has no effect on control flow.
func schemaSeverity(msg string) Severity {
	if strings.Contains(msg, "Int cannot") || strings.Contains(msg, "Field") {
		return SeveritySoft
	}
	return SeverityHard
}

func networkFailure(cause error) *Failure {
	return &Failure{
		Kind:        KindNetwork,
		Severity:    SeverityHard,
		Message:     "Network error or server unreachable",
		RecoveryURL: StatusPageURL,
		cause:       cause,
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/lovelytrails/itinerary-builder/internal/domain"
	"github.com/lovelytrails/itinerary-builder/internal/form"
	"github.com/lovelytrails/itinerary-builder/internal/submit"
)

// GenerateItinerary handles POST /api/itinerary.
//
// The body is the form's flat wire map: scalar fields plus
// "day-<uid>-number" style block fields, and an optional boolean useCache.
// Validation failures return 422 with a field→message map and never contact
// the document service; terminal submission failures return 502; success
// streams the generated PDF back as a download.
func (s *Server) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	fields, useCache, err := decodeWireFields(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid request body"))
		return
	}

	// Each request is a fresh, stateless form instance.
	agg := form.New()
	agg.Bind(fields)
	if useCache != nil {
		agg.SetUseCache(*useCache)
	}

	trip, errs := agg.Flatten()
	if !errs.Empty() {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(errs))
		return
	}

	artifact, err := s.newSubmitter().Submit(r.Context(), trip)
	if err != nil {
		var fail *submit.Failure
		if errors.As(err, &fail) {
			writeJSON(w, http.StatusBadGateway, failureBody(fail))
			return
		}
		if errors.Is(err, domain.ErrSubmissionInFlight) {
			writeJSON(w, http.StatusConflict, requestBody("a submission is already in flight"))
			return
		}
		s.log.ErrorContext(r.Context(), "unclassified submission error", "error", err)
		writeJSON(w, http.StatusBadGateway, requestBody("submission failed"))
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Data); err != nil {
		s.log.ErrorContext(r.Context(), "writing artifact", "error", err)
	}
}

// decodeWireFields walks the JSON object token by token so fields keep their
// document order — cost blocks must flatten in the order the user entered
// them, and the wire carries no other ordering signal. Values may be
// strings, numbers, booleans, or null; nested objects and arrays are
// rejected. A boolean useCache is returned separately.
func decodeWireFields(r io.Reader) ([]form.Field, *bool, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if tok != json.Delim('{') {
		return nil, nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var fields []form.Field
	var useCache *bool

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		switch v := valTok.(type) {
		case string:
			fields = append(fields, form.Field{Name: key, Value: v})
		case json.Number:
			fields = append(fields, form.Field{Name: key, Value: v.String()})
		case bool:
			if key == "useCache" {
				b := v
				useCache = &b
				continue
			}
			fields = append(fields, form.Field{Name: key, Value: strconv.FormatBool(v)})
		case nil:
			// Treat null as an absent field.
		default:
			return nil, nil, fmt.Errorf("field %q: nested values are not supported", key)
		}
	}

	// Consume the closing brace so trailing garbage is still an error.
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return fields, useCache, nil
}

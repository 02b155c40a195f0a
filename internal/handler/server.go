// Package handler implements the HTTP surface of the itinerary builder.
// All handlers are methods on Server. Methods are split into concern-specific
// files (health.go, itinerary.go) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lovelytrails/itinerary-builder/internal/domain"
	"github.com/lovelytrails/itinerary-builder/internal/submit"
)

// Submitter defines the submission capability the itinerary handler depends
// on. Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without a real upstream.
type Submitter interface {
	Submit(ctx context.Context, trip domain.TripRequest) (*submit.Artifact, error)
}

// SubmitterFactory mints a fresh Submitter per request. Each POST is one
// form instance's complete submission flow, so the single-flight guard is
// scoped to the request rather than shared across unrelated visitors.
type SubmitterFactory func() Submitter

// Server holds the handler dependencies. Methods are in concern-specific
// files but all operate on this struct.
type Server struct {
	newSubmitter SubmitterFactory
	log          *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default.
func NewServer(factory SubmitterFactory, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{newSubmitter: factory, log: log}
}

// Routes returns the chi router for all API endpoints.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Post("/api/itinerary", s.GenerateItinerary)
	return r
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

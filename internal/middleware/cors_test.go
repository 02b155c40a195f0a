package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovelytrails/itinerary-builder/internal/middleware"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// TestCORSHandler_AllowedOrigin verifies that a request from a configured
// origin receives the Access-Control-Allow-Origin header.
func TestCORSHandler_AllowedOrigin(t *testing.T) {
	h := middleware.NewCORSHandler([]string{"https://www.lovelytrails.com"})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://www.lovelytrails.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://www.lovelytrails.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

// TestCORSHandler_DisallowedOrigin verifies that an unknown origin gets no
// CORS headers (the browser will then block the response).
func TestCORSHandler_DisallowedOrigin(t *testing.T) {
	h := middleware.NewCORSHandler([]string{"https://www.lovelytrails.com"})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// TestCORSHandler_Preflight verifies that an OPTIONS preflight for the form
// submission endpoint is answered with the allowed method and headers.
func TestCORSHandler_Preflight(t *testing.T) {
	h := middleware.NewCORSHandler([]string{"https://www.lovelytrails.com"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/itinerary", nil)
	req.Header.Set("Origin", "https://www.lovelytrails.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	// Browsers send the requested header names lowercased, per the Fetch
	// spec, and rs/cors matches them byte-wise.
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://www.lovelytrails.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

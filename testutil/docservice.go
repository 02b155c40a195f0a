// Package testutil provides shared helpers for integration-style tests.
// Its fake document-generation service lets handler and submitter tests run
// the full submission pipeline against a local httptest server instead of
// the real upstream.
package testutil

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Reply scripts one response from the fake document service.
type Reply struct {
	// Status is the HTTP status code. Zero means 200.
	Status int
	// Body is the raw response body.
	Body string
	// PlatformError, when set, is sent in the x-vercel-error header.
	PlatformError string
}

// PDFReply returns a success Reply whose body carries pdf base64-encoded
// under data.createTripAndFetchPdf, the shape the real service produces.
func PDFReply(pdf []byte) Reply {
	b64 := base64.StdEncoding.EncodeToString(pdf)
	return Reply{Body: fmt.Sprintf(`{"data":{"createTripAndFetchPdf":"%s"}}`, b64)}
}

// ErrorsReply returns a success Reply carrying a GraphQL errors array with
// a single object entry.
func ErrorsReply(message string) Reply {
	return Reply{Body: fmt.Sprintf(`{"errors":[{"message":"%s"}]}`, message)}
}

// StatusReply returns a Reply with the given non-success status and
// optional platform error header.
func StatusReply(status int, platformError string) Reply {
	return Reply{Status: status, PlatformError: platformError}
}

// DocService is a scripted stand-in for the document-generation endpoint.
// It serves POST /graphql, replaying its script in order (the last Reply
// repeats once the script runs out) and recording every request body.
type DocService struct {
	// URL is the base URL to use as the submitter's BaseURL.
	URL string

	mu     sync.Mutex
	script []Reply
	bodies []string
	srv    *httptest.Server
}

// NewDocService starts a fake document service that shuts down with the
// test. At least one Reply must be scripted.
func NewDocService(t *testing.T, script ...Reply) *DocService {
	t.Helper()
	if len(script) == 0 {
		t.Fatal("testutil.NewDocService: empty script")
	}

	d := &DocService{script: script}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", d.serve)
	d.srv = httptest.NewServer(mux)
	d.URL = d.srv.URL
	t.Cleanup(d.srv.Close)
	return d
}

func (d *DocService) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	d.mu.Lock()
	d.bodies = append(d.bodies, string(body))
	i := len(d.bodies) - 1
	if i >= len(d.script) {
		i = len(d.script) - 1
	}
	reply := d.script[i]
	d.mu.Unlock()

	if reply.PlatformError != "" {
		w.Header().Set("x-vercel-error", reply.PlatformError)
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply.Body)
}

// Requests returns the recorded request bodies in arrival order.
func (d *DocService) Requests() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.bodies))
	copy(out, d.bodies)
	return out
}

// Package submit posts a flattened trip request to the remote
// document-generation service, retrying transient faults with linear
// backoff, classifying terminal outcomes, and decoding the PDF artifact on
// success.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/lovelytrails/itinerary-builder/internal/domain"
)

// Mutation is the document service's GraphQL operation. The response carries
// the generated PDF as a base64 string under data.createTripAndFetchPdf.
const Mutation = `mutation createTripAndFetchPdf($input: CreateTripInput!) {
  createTripAndFetchPdf(input: $input)
}`

const (
	maxAttempts = 5
	backoffStep = 5 * time.Second
)

// ArtifactFilename and ArtifactContentType describe the delivered document.
const (
	ArtifactFilename    = "itinerary.pdf"
	ArtifactContentType = "application/pdf"
)

// Artifact is the downloadable file produced by a successful submission.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Config carries the submitter's two behavior knobs. BaseURL is the
// document service endpoint without the /graphql suffix.
// VerboseDiagnostics enables a per-attempt trace of retries and network
// errors; leave it off in production.
type Config struct {
	BaseURL            string
	VerboseDiagnostics bool
}

// Doer is the transport capability the submitter exchanges requests
// through. *http.Client satisfies it; tests inject a scripted fake so
// retry and backoff run without a real network.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SleepFunc waits out one backoff delay. The default honors context
// cancellation; tests substitute a recorder.
type SleepFunc func(ctx context.Context, d time.Duration) error

// State is the submission lifecycle: Idle -> Submitting -> Succeeded or
// Failed, and back to Idle once the caller acknowledges the outcome.
type State int32

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

// Submitter performs the resilient exchange. At most one submission may be
// in flight per Submitter; concurrent Submit calls are refused with
// domain.ErrSubmissionInFlight rather than queued.
type Submitter struct {
	cfg     Config
	client  Doer
	log     *slog.Logger
	sleep   SleepFunc
	backoff func() retry.Backoff
	state   atomic.Int32
}

// Option customizes a Submitter. Used by tests to make time deterministic.
type Option func(*Submitter)

// WithSleep replaces the backoff sleep.
func WithSleep(fn SleepFunc) Option {
	return func(s *Submitter) { s.sleep = fn }
}

// WithBackoff replaces the backoff policy factory. The factory is invoked
// once per submission so attempt counting starts fresh each time.
func WithBackoff(fn func() retry.Backoff) Option {
	return func(s *Submitter) { s.backoff = fn }
}

// New constructs a Submitter. A nil client falls back to a plain
// http.Client; a nil logger falls back to slog.Default.
func New(cfg Config, client Doer, log *slog.Logger, opts ...Option) *Submitter {
	if client == nil {
		client = &http.Client{}
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Submitter{
		cfg:     cfg,
		client:  client,
		log:     log,
		sleep:   ctxSleep,
		backoff: func() retry.Backoff { return linearBackoff(backoffStep) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Submitter) State() State { return State(s.state.Load()) }

// Acknowledge returns a terminal state to Idle so the form can submit
// again. It is a no-op while Idle or Submitting.
func (s *Submitter) Acknowledge() {
	s.state.CompareAndSwap(int32(StateSucceeded), int32(StateIdle))
	s.state.CompareAndSwap(int32(StateFailed), int32(StateIdle))
}

// Submit sends the trip request and returns the decoded PDF artifact, or a
// *Failure describing the terminal outcome. Transient faults (transport
// errors, non-success statuses) are retried up to 5 attempts with 5s, 10s,
// 15s, 20s waits in between; everything else fails exactly once. The
// Submitting state is cleared on every exit path.
func (s *Submitter) Submit(ctx context.Context, trip domain.TripRequest) (_ *Artifact, err error) {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateSubmitting)) {
		return nil, domain.ErrSubmissionInFlight
	}
	defer func() {
		if err != nil {
			s.state.Store(int32(StateFailed))
		} else {
			s.state.Store(int32(StateSucceeded))
		}
	}()

	payload, err := json.Marshal(gqlRequest{
		Query:     Mutation,
		Variables: gqlVariables{Input: trip},
	})
	if err != nil {
		return nil, networkFailure(err)
	}

	resp, fail := s.exchange(ctx, payload)
	if fail != nil {
		s.report(fail)
		return nil, fail
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fail := networkFailure(err)
		s.report(fail)
		return nil, fail
	}

	pdf, fail := Classify(resp.StatusCode, resp.Header.Get(ErrorHeader), body)
	if fail != nil {
		s.report(fail)
		return nil, fail
	}

	return &Artifact{
		Filename:    ArtifactFilename,
		ContentType: ArtifactContentType,
		Data:        pdf,
	}, nil
}

// exchange runs the retry loop and returns the first success response.
// Non-success responses are drained and retried; exhausting every attempt
// yields the unreachable failure.
func (s *Submitter) exchange(ctx context.Context, payload []byte) (*http.Response, *Failure) {
	backoff := s.backoff()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/graphql", bytes.NewReader(payload))
		if err != nil {
			return nil, networkFailure(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		switch {
		case err != nil:
			if s.cfg.VerboseDiagnostics {
				s.log.Warn("retrying after network error",
					"attempt", attempt, "max", maxAttempts, "error", err)
			}
		case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
			return resp, nil
		default:
			if s.cfg.VerboseDiagnostics {
				s.log.Warn("retrying after server status",
					"attempt", attempt, "max", maxAttempts, "status", resp.StatusCode)
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		if attempt == maxAttempts {
			break
		}
		d, _ := backoff.Next()
		if err := s.sleep(ctx, d); err != nil {
			return nil, networkFailure(err)
		}
	}

	return nil, &Failure{
		Kind:     KindUnreachable,
		Severity: SeverityHard,
		Message:  "GraphQL endpoint failed after retries",
	}
}

func (s *Submitter) report(f *Failure) {
	s.log.Error("submission failed",
		"kind", int(f.Kind),
		"message", f.Message,
		"error", f.cause,
	)
}

type gqlVariables struct {
	Input domain.TripRequest `json:"input"`
}

type gqlRequest struct {
	Query     string       `json:"query"`
	Variables gqlVariables `json:"variables"`
}

// linearBackoff yields step, 2*step, 3*step... — the policy behind the
// 5s/10s/15s/20s waits between the five attempts.
func linearBackoff(step time.Duration) retry.Backoff {
	attempt := 0
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return step * time.Duration(attempt), false
	})
}

// ctxSleep waits d or until the context is canceled.
func ctxSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package proposal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/laberr/internal/core"
	"github.com/JonMunkholm/laberr/internal/logging"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// Outcome labels passed to Recorder.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeInvalid  = "invalid"
	OutcomeOpen     = "breaker_open"
)

// Recorder receives forwarding outcomes, typically for metrics.
type Recorder interface {
	ProposalForwarded(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ProposalForwarded(string) {}

// Config holds forwarding settings.
type Config struct {
	Endpoint        string        // Hosted form URL; empty disables proposals
	Subject         string        // Subject line sent with each proposal
	Timeout         time.Duration // Per-request timeout
	MaxConcurrent   int           // Forwards in flight at once
	MaxWait         time.Duration // How long a submission waits for a slot
	BreakerFailures uint32        // Consecutive failures before the breaker opens
	BreakerCooldown time.Duration // How long the breaker stays open
}

// Forwarder posts proposals to the hosted endpoint in the background.
//
// Submission is fire-and-forget: Submit returns once the proposal is
// validated and a forward slot is held. The endpoint's response body is
// never interpreted; only the status is logged and recorded.
//
// Submit refuses proposals while the endpoint breaker is open. A proposal
// already accepted is not retried: if its forward fails or the breaker
// refuses it, the outcome is logged and recorded and the proposal is lost.
type Forwarder struct {
	cfg      Config
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[int]
	limiter  *Limiter
	recorder Recorder
}

// NewForwarder creates a Forwarder. A nil client uses http.DefaultClient;
// a nil recorder discards outcomes.
func NewForwarder(cfg Config, client *http.Client, recorder Recorder) *Forwarder {
	if client == nil {
		client = http.DefaultClient
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = time.Minute
	}

	f := &Forwarder{
		cfg:      cfg,
		client:   client,
		recorder: recorder,
	}
	f.limiter = NewLimiter(cfg.MaxConcurrent, cfg.MaxWait, f.admit)

	// A half-open breaker lets every admitted forward through, so
	// forwards that were waiting for a slot are not refused on recovery.
	f.breaker = gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
		Name:        "proposal-endpoint",
		MaxRequests: uint32(f.limiter.Capacity()),
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.WithFields(context.Background(), "breaker", name).
				Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})

	return f
}

// Enabled reports whether an endpoint is configured.
func (f *Forwarder) Enabled() bool {
	return f.cfg.Endpoint != ""
}

// Submit validates p and forwards it in the background.
// It returns the submission ID used in logs.
func (f *Forwarder) Submit(ctx context.Context, p Proposal) (string, error) {
	if !f.Enabled() {
		return "", ErrDisabled
	}
	if err := p.Validate(); err != nil {
		f.recorder.ProposalForwarded(OutcomeInvalid)
		return "", err
	}

	id := uuid.NewString()
	if err := f.limiter.Acquire(ctx, id); err != nil {
		if errors.Is(err, ErrEndpointUnavailable) {
			f.recorder.ProposalForwarded(OutcomeOpen)
		}
		return "", err
	}

	body := p.Values(f.cfg.Subject).Encode()

	// Detach from the request so the forward survives the response,
	// but keep its values (request ID, client IP) for logging.
	fwdCtx := context.WithoutCancel(ctx)

	go func() {
		defer f.limiter.Release(id)
		f.forward(fwdCtx, id, body)
	}()

	return id, nil
}

// admit refuses new forwards while the endpoint breaker is open.
func (f *Forwarder) admit() error {
	if f.breaker.State() == gobreaker.StateOpen {
		return ErrEndpointUnavailable
	}
	return nil
}

// forward performs one POST through the circuit breaker.
func (f *Forwarder) forward(ctx context.Context, id, body string) {
	logger := logging.WithFields(ctx,
		"submission_id", id,
		"client_ip", core.GetIPAddressFromContext(ctx),
		"user_agent", core.GetUserAgentFromContext(ctx),
	)

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	start := time.Now()
	status, err := f.breaker.Execute(func() (int, error) {
		return f.post(ctx, body)
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		f.recorder.ProposalForwarded(OutcomeOpen)
		logger.Error("proposal dropped, endpoint breaker open", "error", err)
	case err != nil:
		f.recorder.ProposalForwarded(OutcomeFailed)
		logger.Error("proposal forward failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
	case status >= 400:
		f.recorder.ProposalForwarded(OutcomeRejected)
		logger.Warn("proposal rejected by endpoint", "status", status)
	default:
		f.recorder.ProposalForwarded(OutcomeAccepted)
		logger.Info("proposal forwarded", "status", status, "duration_ms", time.Since(start).Milliseconds())
	}
}

// post sends the form. Server errors count as breaker failures;
// client errors do not, since retrying cannot fix them.
func (f *Forwarder) post(ctx context.Context, body string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.Endpoint, strings.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return resp.StatusCode, fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

// Wait blocks until in-flight forwards finish or ctx is done.
func (f *Forwarder) Wait(ctx context.Context) error {
	return f.limiter.WaitForDrain(ctx)
}

// Pending returns the number of forwards in flight.
func (f *Forwarder) Pending() int {
	return f.limiter.ActiveCount()
}

// PendingIDs returns the submission IDs of forwards in flight, oldest first.
func (f *Forwarder) PendingIDs() []string {
	return f.limiter.Pending()
}

// OldestPending returns how long the oldest in-flight forward has run.
func (f *Forwarder) OldestPending() time.Duration {
	return f.limiter.OldestAge()
}

// BreakerState returns the circuit breaker state name.
func (f *Forwarder) BreakerState() string {
	return f.breaker.State().String()
}

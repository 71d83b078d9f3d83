package glean

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

// ProgressFunc is notified once per poll iteration, for caller-visible
// liveness while ingestion runs.
type ProgressFunc func(handleID string, attempt int, state ProcessingState)

// Poller submits content for server-side ingestion and waits for it to
// become ready. A fixed-interval check loop, one item at a time; no backoff,
// no retry.
type Poller struct {
	store       FileStore
	interval    time.Duration
	maxAttempts int
	progress    ProgressFunc
	log         *slog.Logger
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithPollInterval sets the fixed wait between state checks.
func WithPollInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.interval = d }
}

// WithMaxAttempts bounds the number of state checks before giving up.
func WithMaxAttempts(n int) PollerOption {
	return func(p *Poller) { p.maxAttempts = n }
}

// WithProgress overrides the per-iteration progress notification.
func WithProgress(fn ProgressFunc) PollerOption {
	return func(p *Poller) { p.progress = fn }
}

// WithPollerLogger lets the caller supply their own logger.
func WithPollerLogger(log *slog.Logger) PollerOption {
	return func(p *Poller) { p.log = log }
}

// NewPoller creates a Poller over the given store. Defaults: 5 second
// interval, 60 attempts, progress logged as "processing ...".
func NewPoller(store FileStore, opts ...PollerOption) *Poller {
	p := &Poller{
		store:       store,
		interval:    5 * time.Second,
		maxAttempts: 60,
		log:         slog.Default(),
	}
	p.progress = func(handleID string, attempt int, state ProcessingState) {
		p.log.Info("processing ...", "handle", handleID, "attempt", attempt, "state", state)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit uploads the handle's content to the file store and returns a new
// handle carrying the storage name, URI and reported state. Only kinds that
// require ingestion may be submitted.
func (p *Poller) Submit(ctx context.Context, h *ContentHandle) (*ContentHandle, error) {
	if !h.RequiresIngestion() {
		return nil, fmt.Errorf("submit %s: %w", h.ID, ErrNotIngestable)
	}
	if h.name != "" {
		// Already submitted; submission is not repeated for a known file.
		return h, nil
	}

	displayName := filepath.Base(h.Path)
	p.log.Debug("uploading content", "handle", h.ID, "path", h.Path, "mime_type", h.MIMEType)
	stored, err := p.store.Upload(ctx, h.Path, h.MIMEType, displayName)
	if err != nil {
		return nil, fmt.Errorf("submit %s: %w", h.ID, err)
	}
	p.log.Debug("upload accepted", "handle", h.ID, "name", stored.Name, "state", stored.State)

	next := h.clone()
	next.name = stored.Name
	next.URI = stored.URI
	if stored.MIMEType != "" {
		next.MIMEType = stored.MIMEType
	}
	next.State = stored.State
	return next, nil
}

// AwaitReady polls the stored file at the configured interval until it is
// ready or failed, or the attempt budget runs out. An already-ready handle
// returns immediately without a single poll; a handle already in the failed
// state is terminal and is likewise never polled again.
func (p *Poller) AwaitReady(ctx context.Context, h *ContentHandle) (*ContentHandle, error) {
	switch h.State {
	case StateReady:
		return h, nil
	case StateFailed:
		return nil, &IngestionFailedError{Handle: h.ID, State: StateFailed}
	}
	if h.name == "" {
		return nil, fmt.Errorf("await ready %s: handle was never submitted", h.ID)
	}

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		p.progress(h.ID, attempt, StatePending)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("await ready %s: %w", h.ID, ctx.Err())
		case <-time.After(p.interval):
		}

		stored, err := p.store.Get(ctx, h.name)
		if err != nil {
			return nil, fmt.Errorf("await ready %s: %w", h.ID, err)
		}
		p.log.Debug("poll state", "handle", h.ID, "attempt", attempt, "state", stored.State)

		switch stored.State {
		case StateReady:
			next := h.clone()
			next.State = StateReady
			next.URI = stored.URI
			if stored.MIMEType != "" {
				next.MIMEType = stored.MIMEType
			}
			return next, nil
		case StateFailed:
			return nil, &IngestionFailedError{Handle: h.ID, State: stored.State}
		}
	}
	return nil, &IngestionTimeoutError{Handle: h.ID, Attempts: p.maxAttempts}
}

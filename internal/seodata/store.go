package seodata

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ChaChaChung/seo-site/internal/seo"
)

const tracerName = "github.com/ChaChaChung/seo-site/internal/seodata"

// Phase is the lifecycle position of the store.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFetching
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFetching:
		return "fetching"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the store.
type State struct {
	Data      seo.Metadata
	Phase     Phase
	Err       string
	AttemptID string
	UpdatedAt time.Time
}

// Loading reports whether a fetch is in flight.
func (s State) Loading() bool { return s.Phase == PhaseFetching }

// Initialized reports whether the last fetch has completed, successfully or not.
func (s State) Initialized() bool { return s.Phase == PhaseReady || s.Phase == PhaseFailed }

// Failed reports whether the last fetch failed and fallback data is in use.
func (s State) Failed() bool { return s.Phase == PhaseFailed }

// Status is the short label shown in debug output.
func (s State) Status() string {
	switch s.Phase {
	case PhaseFetching:
		return "loading"
	case PhaseFailed:
		return "error"
	case PhaseReady:
		return "loaded"
	default:
		return "idle"
	}
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger used for fetch outcomes.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFallback replaces the triple installed on failure.
func WithFallback(data seo.Metadata) Option {
	return func(s *Store) {
		s.fallback = data
	}
}

// WithTracer overrides the tracer used for the fetch span.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Store) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store owns the metadata triple and guarantees at most one fetch in flight.
type Store struct {
	fetcher  Fetcher
	fallback seo.Metadata
	logger   *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time

	mu     sync.Mutex
	state  State
	seq    uint64
	nextID int
	subs   map[int]func(State)

	// notifyMu orders deliveries; delivered is the seq of the last snapshot handed out.
	notifyMu  sync.Mutex
	delivered uint64
}

// NewStore builds an idle store around fetcher.
func NewStore(fetcher Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher:  fetcher,
		fallback: Fallback(),
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
		subs:     make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize performs the first fetch. It returns false without fetching when a fetch is
// in flight or has already completed.
func (s *Store) Initialize(ctx context.Context) bool {
	s.mu.Lock()
	if s.state.Phase != PhaseIdle {
		s.mu.Unlock()
		return false
	}
	snapshot, seq := s.beginLocked()
	s.mu.Unlock()

	s.publish(snapshot, seq)
	s.run(ctx, snapshot.AttemptID)
	return true
}

// Refetch clears the completed state and fetches again. Calls made while a fetch is in
// flight are dropped and return false.
func (s *Store) Refetch(ctx context.Context) bool {
	s.mu.Lock()
	if s.state.Phase == PhaseFetching {
		s.mu.Unlock()
		s.logger.Debug("refetch dropped: fetch in flight")
		return false
	}
	snapshot, seq := s.beginLocked()
	s.mu.Unlock()

	s.publish(snapshot, seq)
	s.run(ctx, snapshot.AttemptID)
	return true
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive state changes in the order they happened. A
// snapshot older than one already delivered is skipped. fn must not call Initialize or
// Refetch synchronously. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) beginLocked() (State, uint64) {
	s.state.Phase = PhaseFetching
	s.state.Err = ""
	s.state.AttemptID = ulid.Make().String()
	s.state.UpdatedAt = s.now()
	s.seq++
	return s.state, s.seq
}

func (s *Store) run(ctx context.Context, attemptID string) {
	ctx, span := s.tracer.Start(ctx, "seodata.fetch", trace.WithAttributes(
		attribute.String("seodata.attempt_id", attemptID),
	))
	defer span.End()

	logger := s.logger.With(zap.String("attempt_id", attemptID))
	start := s.now()
	data, err := s.fetch(ctx)
	latency := s.now().Sub(start)

	s.mu.Lock()
	if err != nil {
		s.state.Data = s.fallback
		s.state.Phase = PhaseFailed
		s.state.Err = err.Error()
	} else {
		s.state.Data = data
		s.state.Phase = PhaseReady
	}
	s.state.UpdatedAt = s.now()
	s.seq++
	snapshot, seq := s.state, s.seq
	s.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "seo data fetch failed")
		logger.Warn("seo data fetch failed, using fallback", zap.Error(err), zap.Duration("latency", latency))
	} else {
		span.SetStatus(codes.Ok, "")
		logger.Info("seo data loaded", zap.Duration("latency", latency))
	}
	s.publish(snapshot, seq)
}

func (s *Store) fetch(ctx context.Context) (data seo.Metadata, err error) {
	if s.fetcher == nil {
		return seo.Metadata{}, errNoFetcher
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = &panicError{value: rec}
		}
	}()
	return s.fetcher.Fetch(ctx)
}

func (s *Store) publish(state State, seq uint64) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if seq <= s.delivered {
		return
	}
	s.delivered = seq

	s.mu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

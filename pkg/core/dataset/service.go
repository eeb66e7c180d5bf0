package dataset

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"investor_dashboard/pkg/core/ingest"
)

// ErrNotLoaded is returned while no load has succeeded yet.
var ErrNotLoaded = errors.New("dataset not loaded")

// State of the service.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Status describes the most recent load attempts.
type Status struct {
	State       State     `json:"state"`
	LoadID      string    `json:"load_id,omitempty"`
	LoadedAt    time.Time `json:"loaded_at,omitempty"`
	LastAttempt time.Time `json:"last_attempt,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	Loads       int       `json:"loads"`
	Failures    int       `json:"failures"`
}

// Service holds the current dataset. Readers always see a complete load: a
// failed reload keeps serving the previous dataset.
type Service struct {
	src    ingest.Source
	opts   Options
	logger *zap.Logger

	mu      sync.RWMutex
	reload  sync.Mutex
	current *Dataset
	status  Status
}

// NewService creates a service in the loading state. Call Reload to load.
func NewService(src ingest.Source, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Logger = logger.Named("dataset")
	return &Service{
		src:    src,
		opts:   opts,
		logger: opts.Logger,
		status: Status{State: StateLoading},
	}
}

// Current returns the current dataset, or ErrNotLoaded.
func (s *Service) Current() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotLoaded
	}
	return s.current, nil
}

// Status returns a copy of the load status.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Reload loads the fixtures again and swaps them in on success. Concurrent
// reloads are serialized.
func (s *Service) Reload(ctx context.Context) error {
	s.reload.Lock()
	defer s.reload.Unlock()

	ds, err := Load(ctx, s.src, s.opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastAttempt = time.Now()
	if err != nil {
		s.status.Failures++
		s.status.LastError = err.Error()
		if s.current == nil {
			s.status.State = StateFailed
		}
		s.logger.Error("dataset load failed", zap.Error(err), zap.Bool("serving_previous", s.current != nil))
		return err
	}

	s.current = ds
	s.status = Status{
		State:       StateReady,
		LoadID:      ds.LoadID,
		LoadedAt:    ds.LoadedAt,
		LastAttempt: s.status.LastAttempt,
		Loads:       s.status.Loads + 1,
		Failures:    s.status.Failures,
	}
	return nil
}

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// UserAgent identifies the dashboard when it pulls fixtures over HTTP.
const UserAgent = "InvestorDashboard/1.0"

// ErrFetchExhausted is returned once every attempt to fetch a fixture failed.
var ErrFetchExhausted = errors.New("fixture fetch attempts exhausted")

// Source retrieves raw fixture bytes by file name.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// =============================================================================
// HTTP SOURCE
// =============================================================================

// HTTPSource fetches fixtures from a base URL with bounded retries.
type HTTPSource struct {
	baseURL    string
	attempts   int
	backoff    time.Duration
	httpClient *http.Client
	logger     *zap.Logger

	// sleep waits between attempts; tests swap it out.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewHTTPSource creates an HTTP fixture source. attempts below 1 are treated
// as 1, which fails on the first error.
func NewHTTPSource(baseURL string, attempts int, backoff time.Duration, logger *zap.Logger) *HTTPSource {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		baseURL:  strings.TrimRight(baseURL, "/"),
		attempts: attempts,
		backoff:  backoff,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.Named("fetch"),
		sleep:  sleepContext,
		now:    time.Now,
	}
}

// Fetch downloads name, retrying with a linear backoff of backoff*attempt.
// Every request carries a cache-busting query parameter.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		body, err := s.get(ctx, name)
		if err == nil {
			return body, nil
		}
		lastErr = err
		s.logger.Warn("fixture fetch failed",
			zap.String("fixture", name),
			zap.Int("attempt", attempt),
			zap.Int("attempts", s.attempts),
			zap.Error(err))

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == s.attempts {
			break
		}
		if err := s.sleep(ctx, s.backoff*time.Duration(attempt)); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrFetchExhausted, name, s.attempts, lastErr)
}

func (s *HTTPSource) get(ctx context.Context, name string) ([]byte, error) {
	url := s.baseURL + "/" + name + "?v=" + strconv.FormatInt(s.now().UnixNano(), 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d for %s", resp.StatusCode, name)
	}
	return io.ReadAll(resp.Body)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// =============================================================================
// DIRECTORY SOURCE
// =============================================================================

// DirSource reads fixtures from a local directory.
type DirSource struct {
	Dir string
}

// Fetch reads name from the directory. Names may not escape it.
func (d DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !filepath.IsLocal(name) {
		return nil, fmt.Errorf("invalid fixture name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(d.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", name, err)
	}
	return data, nil
}

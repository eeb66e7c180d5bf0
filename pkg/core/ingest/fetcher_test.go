package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSource(url string, attempts int) (*HTTPSource, *[]time.Duration) {
	var waits []time.Duration
	src := NewHTTPSource(url, attempts, time.Second, zap.NewNop())
	src.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return src, &waits
}

func TestHTTPSource_RetriesWithLinearBackoff(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("v"), "cache-busting parameter")
		assert.Equal(t, "/stakeholders.csv", r.URL.Path)
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("Name\nAcme\n"))
	}))
	defer srv.Close()

	src, waits := newTestSource(srv.URL+"/", 3)
	body, err := src.Fetch(context.Background(), "stakeholders.csv")

	require.NoError(t, err)
	assert.Equal(t, "Name\nAcme\n", string(body))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *waits)
}

func TestHTTPSource_AcceptsAny2xx(t *testing.T) {
	for _, code := range []int{http.StatusOK, http.StatusNonAuthoritativeInfo, http.StatusNoContent} {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(code)
		}))

		src, waits := newTestSource(srv.URL, 3)
		_, err := src.Fetch(context.Background(), "products-data.json")
		srv.Close()

		assert.NoError(t, err, "status %d", code)
		assert.Equal(t, int32(1), calls.Load(), "status %d", code)
		assert.Empty(t, *waits, "status %d", code)
	}
}

func TestHTTPSource_Exhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src, waits := newTestSource(srv.URL, 3)
	_, err := src.Fetch(context.Background(), "partner-metrics.json")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchExhausted))
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, *waits, 2, "no wait after the final attempt")
}

func TestHTTPSource_SingleAttemptFailsImmediately(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src, waits := newTestSource(srv.URL, 0)
	_, err := src.Fetch(context.Background(), "x.json")

	assert.ErrorIs(t, err, ErrFetchExhausted)
	assert.Empty(t, *waits)
}

func TestHTTPSource_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src, _ := newTestSource(srv.URL, 3)
	_, err := src.Fetch(ctx, "x.json")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{}`), 0o644))

	src := DirSource{Dir: dir}
	data, err := src.Fetch(context.Background(), "a.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	_, err = src.Fetch(context.Background(), "missing.json")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = src.Fetch(context.Background(), "../escape.json")
	assert.Error(t, err)
}

package api

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rec := httptest.NewRecorder()

	WriteJSON(rec, zap.New(core), http.StatusOK, map[string]float64{"total": math.Inf(1)})

	assert.Equal(t, http.StatusOK, rec.Code)
	entries := logs.FilterMessage("failed to encode response").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
}

func TestWriteJSON_NoLogOnSuccess(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rec := httptest.NewRecorder()

	WriteError(rec, zap.New(core), http.StatusNotFound, "no such endpoint")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"no such endpoint","status":404}`, rec.Body.String())
	assert.Zero(t, logs.Len())
}

func TestWriteJSON_NilLogger(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		WriteJSON(rec, nil, http.StatusOK, math.NaN())
	})
}

// Package api holds what every dashboard HTTP handler shares: CORS, JSON
// responses and access to the loaded dataset.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"investor_dashboard/pkg/core/dataset"
)

// DatasetProvider is the read side of dataset.Service.
type DatasetProvider interface {
	Current() (*dataset.Dataset, error)
	Status() dataset.Status
}

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// CORS sets the cross-origin headers and reports whether the request was a
// preflight that has been fully answered.
func CORS(w http.ResponseWriter, r *http.Request, origin, methods string) bool {
	if origin == "" {
		origin = "*"
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// AllowMethods writes 405 unless r uses one of methods.
func AllowMethods(w http.ResponseWriter, r *http.Request, logger *zap.Logger, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	WriteError(w, logger, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// WriteJSON encodes v with status. The status line is already out when an
// encode fails, so the failure can only be logged.
func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && logger != nil {
		logger.Warn("failed to encode response", zap.Int("status", status), zap.Error(err))
	}
}

// WriteError writes an ErrorResponse.
func WriteError(w http.ResponseWriter, logger *zap.Logger, status int, msg string) {
	WriteJSON(w, logger, status, ErrorResponse{Error: msg, Status: status})
}

// CurrentDataset returns the loaded dataset or answers 503 itself.
func CurrentDataset(w http.ResponseWriter, p DatasetProvider, logger *zap.Logger) (*dataset.Dataset, bool) {
	ds, err := p.Current()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dataset.ErrNotLoaded) {
			status = http.StatusServiceUnavailable
		}
		msg := err.Error()
		if st := p.Status(); st.LastError != "" {
			msg += ": " + st.LastError
		}
		WriteError(w, logger, status, msg)
		return nil, false
	}
	return ds, true
}

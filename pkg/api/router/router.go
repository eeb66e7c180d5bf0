// Package router mounts every dashboard endpoint on one mux.
package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"investor_dashboard/pkg/api"
	configapi "investor_dashboard/pkg/api/config"
	"investor_dashboard/pkg/api/ecosystem"
	"investor_dashboard/pkg/api/fixtures"
	"investor_dashboard/pkg/api/marketsize"
	"investor_dashboard/pkg/api/partners"
	coreconfig "investor_dashboard/pkg/core/config"
	"investor_dashboard/pkg/core/model"
)

// Deps are the router's collaborators.
type Deps struct {
	Config coreconfig.Config
	Data   api.DatasetProvider
	Table  *model.Table
	Static http.Handler
	Logger *zap.Logger
}

// New returns the dashboard handler. The /api/ surface is mounted only when
// the config enables it; everything else goes to the static bundle.
func New(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	if d.Config.Server.API() {
		origin := d.Config.Server.CORSOrigin

		// Config endpoints
		configHandler := configapi.NewHandler(d.Config, d.Data, logger)
		mux.HandleFunc("/api/config", configHandler.HandleConfig)
		mux.HandleFunc("/api/status", configHandler.HandleStatus)

		// Partner network endpoints
		partnersHandler := partners.NewHandler(d.Data, d.Config.Partners.PerPage, origin, logger)
		mux.HandleFunc("/api/partners", partnersHandler.HandleList)
		mux.HandleFunc("/api/partners/columns/{column}", partnersHandler.HandleColumn)

		// Revenue model endpoints
		defaults := model.DefaultState(d.Table)
		defaults.Region = d.Config.Model.DefaultRegion
		defaults.MarketShare = d.Config.Model.DefaultMarketShare
		marketHandler := marketsize.NewHandler(d.Data, d.Table, defaults, origin, logger)
		mux.HandleFunc("/api/market-size/segments", marketHandler.HandleSegments)
		mux.HandleFunc("/api/market-size/model", marketHandler.HandleModel)

		// Ecosystem endpoints
		ecosystemHandler := ecosystem.NewHandler(d.Data, origin, logger)
		mux.HandleFunc("/api/ecosystem/segments", ecosystemHandler.HandleSegments)

		// Raw fixture endpoints
		fixturesHandler := fixtures.NewHandler(d.Data, origin, logger)
		mux.HandleFunc("/api/fixtures", fixturesHandler.HandleList)
		mux.HandleFunc("/api/fixtures/{name}", fixturesHandler.HandleGet)

		mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
			api.WriteError(w, logger, http.StatusNotFound, "no such endpoint")
		})
	}

	if d.Static != nil {
		mux.Handle("/", d.Static)
	}

	return logRequests(mux, logger.Named("http"))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}

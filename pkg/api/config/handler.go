package config

import (
	"net/http"

	"go.uber.org/zap"

	"investor_dashboard/pkg/api"
	coreconfig "investor_dashboard/pkg/core/config"
	"investor_dashboard/pkg/core/dataset"
	"investor_dashboard/pkg/core/model"
)

// Response carries the defaults the client starts from.
type Response struct {
	DefaultRegion      model.Region   `json:"default_region"`
	DefaultMarketShare float64        `json:"default_market_share"`
	Regions            []model.Region `json:"regions"`
	PerPage            int            `json:"per_page"`
	FixtureSource      string         `json:"fixture_source"`
	Status             dataset.Status `json:"status"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	Config coreconfig.Config
	Data   api.DatasetProvider
	logger *zap.Logger
}

// NewHandler creates a new config handler
func NewHandler(cfg coreconfig.Config, data api.DatasetProvider, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Config: cfg,
		Data:   data,
		logger: logger.Named("config"),
	}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	if api.CORS(w, r, h.Config.Server.CORSOrigin, "GET") {
		return
	}
	if !api.AllowMethods(w, r, h.logger, http.MethodGet) {
		return
	}

	api.WriteJSON(w, h.logger, http.StatusOK, Response{
		DefaultRegion:      h.Config.Model.DefaultRegion,
		DefaultMarketShare: h.Config.Model.DefaultMarketShare,
		Regions:            []model.Region{model.RegionUS, model.RegionGlobal},
		PerPage:            h.Config.Partners.PerPage,
		FixtureSource:      h.Config.Fixtures.Source,
		Status:             h.Data.Status(),
	})
}

// HandleStatus reports the dataset load status. It answers 503 until the
// first load succeeds so it can serve as a readiness probe.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if api.CORS(w, r, h.Config.Server.CORSOrigin, "GET") {
		return
	}
	if !api.AllowMethods(w, r, h.logger, http.MethodGet) {
		return
	}

	status := h.Data.Status()
	code := http.StatusOK
	if status.State != dataset.StateReady {
		code = http.StatusServiceUnavailable
	}
	api.WriteJSON(w, h.logger, code, status)
}

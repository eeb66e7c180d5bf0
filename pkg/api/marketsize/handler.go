package marketsize

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"investor_dashboard/pkg/api"
	"investor_dashboard/pkg/core/model"
)

// Handler serves the business-model table and the revenue model.
type Handler struct {
	Data     api.DatasetProvider
	Table    *model.Table
	Defaults model.State
	Origin   string
	logger   *zap.Logger
}

// NewHandler creates a new market size handler
func NewHandler(data api.DatasetProvider, table *model.Table, defaults model.State, origin string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Data:     data,
		Table:    table,
		Defaults: defaults.Normalize(),
		Origin:   origin,
		logger:   logger.Named("marketsize"),
	}
}

// ShareBounds is the allowed market share range, in percent.
type ShareBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SegmentsResponse is everything the model screen needs to render its
// controls.
type SegmentsResponse struct {
	Segments     []model.Segment `json:"segments"`
	DefaultState model.State     `json:"default_state"`
	LineItems    []string        `json:"line_items"`
	MarketShare  ShareBounds     `json:"market_share"`
}

// HandleSegments returns the reference table and the default model state.
func (h *Handler) HandleSegments(w http.ResponseWriter, r *http.Request) {
	if api.CORS(w, r, h.Origin, "GET") {
		return
	}
	if !api.AllowMethods(w, r, h.logger, http.MethodGet) {
		return
	}

	api.WriteJSON(w, h.logger, http.StatusOK, SegmentsResponse{
		Segments:     h.Table.Segments(),
		DefaultState: h.Defaults,
		LineItems:    h.Table.SubscriptionLineItems(),
		MarketShare:  ShareBounds{Min: model.MinMarketShare, Max: model.MaxMarketShare},
	})
}

// HandleModel computes a revenue snapshot. GET uses the default state; POST
// decodes a State over it, so omitted fields keep their defaults.
func (h *Handler) HandleModel(w http.ResponseWriter, r *http.Request) {
	if api.CORS(w, r, h.Origin, "GET, POST") {
		return
	}
	if !api.AllowMethods(w, r, h.logger, http.MethodGet, http.MethodPost) {
		return
	}

	state := h.Defaults.Clone()
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
			api.WriteError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("invalid model state: %v", err))
			return
		}
	}

	// Live volumes come from the loaded ecosystem data. Without a dataset the
	// reference volumes still give a complete model.
	calc := model.NewCalculator(h.Table, nil)
	if ds, err := h.Data.Current(); err == nil {
		calc = ds.Calculator(h.Table)
	} else {
		h.logger.Warn("no dataset, using reference volumes", zap.Error(err))
	}

	snap := calc.Snapshot(state)
	if len(snap.Unknown) > 0 {
		h.logger.Info("unknown segments in model state", zap.Strings("ids", snap.Unknown))
	}
	api.WriteJSON(w, h.logger, http.StatusOK, snap)
}

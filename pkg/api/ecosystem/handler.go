package ecosystem

import (
	"net/http"

	"go.uber.org/zap"

	"investor_dashboard/pkg/api"
	"investor_dashboard/pkg/core/view"
)

// Handler serves the ecosystem segment cards.
type Handler struct {
	Data   api.DatasetProvider
	Origin string
	logger *zap.Logger
}

// NewHandler creates a new ecosystem handler
func NewHandler(data api.DatasetProvider, origin string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Data: data, Origin: origin, logger: logger.Named("ecosystem")}
}

// SegmentsResponse wraps the cards with the load they came from.
type SegmentsResponse struct {
	LoadID   string               `json:"load_id"`
	Segments []view.EcosystemCard `json:"segments"`
}

func (h *Handler) HandleSegments(w http.ResponseWriter, r *http.Request) {
	if api.CORS(w, r, h.Origin, "GET") {
		return
	}
	if !api.AllowMethods(w, r, h.logger, http.MethodGet) {
		return
	}

	ds, ok := api.CurrentDataset(w, h.Data, h.logger)
	if !ok {
		return
	}
	cards, err := view.EcosystemCards(ds)
	if err != nil {
		h.logger.Error("build ecosystem cards", zap.Error(err), zap.String("load_id", ds.LoadID))
		api.WriteError(w, h.logger, http.StatusInternalServerError, err.Error())
		return
	}
	api.WriteJSON(w, h.logger, http.StatusOK, SegmentsResponse{LoadID: ds.LoadID, Segments: cards})
}

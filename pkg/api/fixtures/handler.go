package fixtures

import (
	"fmt"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"investor_dashboard/pkg/api"
	"investor_dashboard/pkg/core/dataset"
	corefixtures "investor_dashboard/pkg/core/fixtures"
)

// Handler serves the loaded fixtures, typed ones as parsed and the rest as
// passed-through documents.
type Handler struct {
	Data   api.DatasetProvider
	Origin string
	logger *zap.Logger
}

// NewHandler creates a new fixtures handler
func NewHandler(data api.DatasetProvider, origin string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Data: data, Origin: origin, logger: logger.Named("fixtures")}
}

// ListResponse names every fixture the current load holds.
type ListResponse struct {
	LoadID string   `json:"load_id"`
	Names  []string `json:"names"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
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

	names := []string{
		corefixtures.StakeholdersCSV,
		corefixtures.PartnerMetricsJSON,
		corefixtures.PartnerNetworkJSON,
		corefixtures.EcosystemJSON,
	}
	for name := range ds.Documents {
		names = append(names, name)
	}
	sort.Strings(names)
	api.WriteJSON(w, h.logger, http.StatusOK, ListResponse{LoadID: ds.LoadID, Names: names})
}

// HandleGet returns the fixture named in the path.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
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

	name := r.PathValue("name")
	body, found := lookup(ds, name)
	if !found {
		api.WriteError(w, h.logger, http.StatusNotFound, fmt.Sprintf("fixture %q not loaded", name))
		return
	}
	api.WriteJSON(w, h.logger, http.StatusOK, body)
}

func lookup(ds *dataset.Dataset, name string) (interface{}, bool) {
	switch name {
	case corefixtures.StakeholdersCSV:
		return ds.Stakeholders, true
	case corefixtures.PartnerMetricsJSON:
		return ds.Metrics, true
	case corefixtures.PartnerNetworkJSON:
		return ds.Network, true
	case corefixtures.EcosystemJSON:
		return ds.Ecosystem, true
	}
	doc, ok := ds.Document(name)
	return doc, ok
}

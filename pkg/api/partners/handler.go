package partners

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"investor_dashboard/pkg/api"
	"investor_dashboard/pkg/core/metric"
	"investor_dashboard/pkg/core/view"
)

// Handler serves the partner network table.
type Handler struct {
	Data    api.DatasetProvider
	PerPage int
	Origin  string
	logger  *zap.Logger
}

// NewHandler creates a new partners handler
func NewHandler(data api.DatasetProvider, perPage int, origin string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Data:    data,
		PerPage: perPage,
		Origin:  origin,
		logger:  logger.Named("partners"),
	}
}

// ColumnValuesResponse lists the distinct values of one column.
type ColumnValuesResponse struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
}

// HandleList answers GET with the state encoded in the query string, or POST
// with a JSON PartnerState body.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if api.CORS(w, r, h.Origin, "GET, POST") {
		return
	}
	if !api.AllowMethods(w, r, h.logger, http.MethodGet, http.MethodPost) {
		return
	}

	// 1. Decode view state
	var (
		state view.PartnerState
		err   error
	)
	if r.Method == http.MethodPost {
		state = view.DefaultPartnerState(h.PerPage)
		err = json.NewDecoder(r.Body).Decode(&state)
	} else {
		state, err = ParseQuery(r.URL.Query(), h.PerPage)
	}
	if err != nil {
		api.WriteError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("invalid partner state: %v", err))
		return
	}

	// 2. Apply to the current dataset
	ds, ok := api.CurrentDataset(w, h.Data, h.logger)
	if !ok {
		return
	}
	page := view.ApplyPartners(ds, state, h.PerPage)
	h.logger.Debug("partner page",
		zap.Int("matched", page.Matched),
		zap.Int("page", page.State.Page),
		zap.String("load_id", ds.LoadID))

	api.WriteJSON(w, h.logger, http.StatusOK, page)
}

// HandleColumn lists the distinct values of the column named in the path.
func (h *Handler) HandleColumn(w http.ResponseWriter, r *http.Request) {
	if api.CORS(w, r, h.Origin, "GET") {
		return
	}
	if !api.AllowMethods(w, r, h.logger, http.MethodGet) {
		return
	}

	column := r.PathValue("column")
	if !view.IsColumn(column) {
		api.WriteError(w, h.logger, http.StatusNotFound, fmt.Sprintf("unknown column %q", column))
		return
	}

	ds, ok := api.CurrentDataset(w, h.Data, h.logger)
	if !ok {
		return
	}
	api.WriteJSON(w, h.logger, http.StatusOK, ColumnValuesResponse{
		Column: column,
		Values: view.ColumnValues(ds, column),
	})
}

// ParseQuery reads a PartnerState from query parameters:
//
//	search, type, product, sort, dir, page, per_page
//	selected (repeatable)
//	filter.<column>, min.<kind>, max.<kind>
//
// Parameters left out keep their defaults.
func ParseQuery(q url.Values, perPage int) (view.PartnerState, error) {
	state := view.DefaultPartnerState(perPage)

	state.Search = q.Get("search")
	state.Type = q.Get("type")
	state.Product = q.Get("product")
	if v := q.Get("sort"); v != "" {
		state.SortColumn = v
	}
	if v := q.Get("dir"); v != "" {
		state.SortDirection = view.SortDirection(strings.ToLower(v))
	}

	var err error
	if state.Page, err = intParam(q, "page", state.Page); err != nil {
		return state, err
	}
	if state.PerPage, err = intParam(q, "per_page", state.PerPage); err != nil {
		return state, err
	}
	state.Selected = q["selected"]

	for key, values := range q {
		prefix, name, found := strings.Cut(key, ".")
		if !found || len(values) == 0 {
			continue
		}
		value := values[0]

		switch prefix {
		case "filter":
			if !view.IsColumn(name) {
				return state, fmt.Errorf("unknown filter column %q", name)
			}
			if state.ColumnFilters == nil {
				state.ColumnFilters = map[string]string{}
			}
			state.ColumnFilters[name] = value
		case "min", "max":
			kind := metric.Kind(name)
			if !isKind(kind) {
				return state, fmt.Errorf("unknown metric %q", name)
			}
			bound, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return state, fmt.Errorf("%s: %w", key, err)
			}
			if state.Ranges == nil {
				state.Ranges = map[metric.Kind]view.Range{}
			}
			rng := state.Ranges[kind]
			if prefix == "min" {
				rng.Min = &bound
			} else {
				rng.Max = &bound
			}
			state.Ranges[kind] = rng
		}
	}
	return state, nil
}

func intParam(q url.Values, key string, def int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func isKind(k metric.Kind) bool {
	for _, kind := range metric.Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

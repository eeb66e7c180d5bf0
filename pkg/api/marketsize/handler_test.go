package marketsize

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investor_dashboard/pkg/api/apitest"
	"investor_dashboard/pkg/core/model"
)

func newHandler(p *apitest.Provider) *Handler {
	table := model.NewTable(model.ReferenceSegments())
	return NewHandler(p, table, model.DefaultState(table), "", nil)
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) model.Snapshot {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func TestHandleSegments(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(&apitest.Provider{}).HandleSegments(rec, httptest.NewRequest(http.MethodGet, "/api/market-size/segments", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Segments []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"segments"`
		DefaultState model.State `json:"default_state"`
		LineItems    []string    `json:"line_items"`
		MarketShare  ShareBounds `json:"market_share"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	require.Len(t, got.Segments, 23)
	assert.Equal(t, model.DealershipID, got.Segments[0].ID)
	assert.Equal(t, "subscription", got.Segments[0].Kind)
	assert.Equal(t, "transactional", got.Segments[1].Kind)
	assert.Len(t, got.LineItems, 8)
	assert.Equal(t, []string{model.DealershipID}, got.DefaultState.SelectedSegments)
	assert.Equal(t, ShareBounds{Min: 1, Max: 100}, got.MarketShare)
}

func TestHandleModel_DefaultState(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(&apitest.Provider{}).HandleModel(rec, httptest.NewRequest(http.MethodGet, "/api/market-size/model", nil))

	snap := decodeSnapshot(t, rec)
	require.NotNil(t, snap.Dealer)
	assert.Equal(t, int64(model.USDealerships), snap.Dealer.AdjustedUnits)
	assert.Equal(t, snap.Dealer.Revenue, snap.Total)
}

func TestHandleModel_LiveVolumes(t *testing.T) {
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"selected_segments":["Fleet Management Company"],"market_share":100}`)
	newHandler(apitest.Ready(apitest.Dataset())).HandleModel(rec, httptest.NewRequest(http.MethodPost, "/api/market-size/model", body))

	snap := decodeSnapshot(t, rec)
	kpi := snap.Transactional["Fleet Management Company"]
	assert.True(t, kpi.LiveVolume)
	assert.Equal(t, 4_500_000.0, kpi.Volume)
	assert.Equal(t, 1_968_750_000.0, snap.Total)
	assert.Equal(t, model.RegionUS, snap.State.Region, "region kept from defaults")
}

func TestHandleModel_PostLeavesDefaultsAlone(t *testing.T) {
	h := newHandler(&apitest.Provider{})
	getModel := func() model.Snapshot {
		rec := httptest.NewRecorder()
		h.HandleModel(rec, httptest.NewRequest(http.MethodGet, "/api/market-size/model", nil))
		return decodeSnapshot(t, rec)
	}

	before := getModel()

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"selected_segments":["OEM"],"selected_line_items":["CRM"]}`)
	h.HandleModel(rec, httptest.NewRequest(http.MethodPost, "/api/market-size/model", body))
	posted := decodeSnapshot(t, rec)
	assert.Equal(t, []string{"OEM"}, posted.State.SelectedSegments)

	after := getModel()
	assert.Equal(t, before.Total, after.Total)
	assert.Equal(t, []string{model.DealershipID}, after.State.SelectedSegments)
	assert.Equal(t, before.State.SelectedLineItems, after.State.SelectedLineItems)

	rec = httptest.NewRecorder()
	h.HandleSegments(rec, httptest.NewRequest(http.MethodGet, "/api/market-size/segments", nil))
	var segs struct {
		DefaultState model.State `json:"default_state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &segs))
	assert.Equal(t, []string{model.DealershipID}, segs.DefaultState.SelectedSegments)
	assert.Len(t, segs.DefaultState.SelectedLineItems, 8)
}

func TestHandleModel_ClampsAndReportsUnknown(t *testing.T) {
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"selected_segments":["EPC","Martians"],"market_share":500,"region":"global"}`)
	newHandler(&apitest.Provider{}).HandleModel(rec, httptest.NewRequest(http.MethodPost, "/api/market-size/model", body))

	snap := decodeSnapshot(t, rec)
	assert.Equal(t, 100.0, snap.State.MarketShare)
	assert.Equal(t, []string{"Martians"}, snap.Unknown)
	// 10,000 * 100,000 * 0.02
	assert.Equal(t, 20_000_000.0, snap.Total)
}

func TestHandleModel_BadBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(&apitest.Provider{}).HandleModel(rec, httptest.NewRequest(http.MethodPost, "/api/market-size/model", strings.NewReader(`{"market_share":"lots"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investor_dashboard/pkg/core/metric"
	"investor_dashboard/pkg/core/model"
	"investor_dashboard/pkg/core/utils"
)

const ecosystemSample = `{
  "segments": [
    {"id": "dg", "name": "Dealer Group", "shaedLtv": 700000, "networkLtv": 40000000,
     "usVolume2024": {"value": 90000, "display": "90K", "source": null, "sourceType": "estimated", "methodology": "Based on **NADA** counts", "note": ""},
     "globalVolume2024": {"value": null, "display": "N/A", "source": null, "sourceType": "estimated", "methodology": null, "note": ""}},
    {"id": "zz", "name": "Zeta Partners"},
    {"id": "alpha", "name": "Alpha Partners"},
    {"id": "fmc", "name": "Fleet Management Company",
     "usVolume2024": {"value": 4500000, "display": "4.5M", "source": "https://example.com", "sourceType": "direct", "methodology": null, "note": "fleet registrations"}},
    {"id": "dealer", "name": "Dealership"}
  ]
}`

func TestEcosystemDataset_Volume(t *testing.T) {
	var ds EcosystemDataset
	_, err := Decode([]byte(ecosystemSample), &ds)
	require.NoError(t, err)

	v, ok := ds.Volume("Fleet Management Company", model.RegionUS)
	assert.True(t, ok)
	assert.Equal(t, 4_500_000.0, v)

	v, ok = ds.Volume("dg", model.RegionUS)
	assert.True(t, ok, "matches by id too")
	assert.Equal(t, 90_000.0, v)

	_, ok = ds.Volume("Dealer Group", model.RegionGlobal)
	assert.False(t, ok, "null volume is unavailable")

	_, ok = ds.Volume("Logistics", model.RegionUS)
	assert.False(t, ok)

	var nilDS *EcosystemDataset
	_, ok = nilDS.Volume("Logistics", model.RegionUS)
	assert.False(t, ok)
}

func TestEcosystemDataset_Ordered(t *testing.T) {
	var ds EcosystemDataset
	_, err := Decode([]byte(ecosystemSample), &ds)
	require.NoError(t, err)

	var names []string
	for _, s := range ds.Ordered() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Dealership", "Fleet Management Company", "Dealer Group", "Alpha Partners", "Zeta Partners"}, names)
	assert.Equal(t, "Dealer Group", ds.Segments[0].Name, "source order untouched")
}

func TestDataPoint_Record(t *testing.T) {
	var ds EcosystemDataset
	_, err := Decode([]byte(ecosystemSample), &ds)
	require.NoError(t, err)

	r := ds.Segments[3].Point(model.RegionUS, metric.KindVolume).Record()
	assert.Equal(t, metric.SourceDirect, r.SourceKind)
	assert.Equal(t, "https://example.com", r.Source)
	assert.Equal(t, 4_500_000.0, r.Number())

	empty := ds.Segments[1].Point(model.RegionGlobal, metric.KindRevenue).Record()
	assert.Equal(t, metric.SourceEstimated, empty.SourceKind)
	assert.Equal(t, 0.0, empty.Number())
}

func TestMetricEntry_Record(t *testing.T) {
	src := "https://example.com/annual-report"
	direct := MetricEntry{Display: "$2.5B", Rationale: "FY2024 annual report", Source: &src}.Record()
	assert.Equal(t, metric.SourceDirect, direct.SourceKind)

	estimated := MetricEntry{Display: "$2-3M", Rationale: "Estimated from headcount"}.Record()
	assert.Equal(t, metric.SourceEstimated, estimated.SourceKind)
	assert.Equal(t, 3_000_000.0, estimated.Number())
}

func TestDecode_HandEditedFixture(t *testing.T) {
	raw := []byte(`{
  "Acme": {
    "segment": "OEM",
    "dealers": "1,200+",
    "buyers": "50-100",
  },
}`)
	var file NetworkFile
	strategy, err := Decode(raw, &file)
	require.NoError(t, err)
	assert.NotEqual(t, utils.StrategyJSON, strategy)
	assert.Equal(t, "1,200+", file["Acme"].Reach(ReachDealers))
	assert.Equal(t, "0", file["Acme"].Reach(ReachOEMs))
}

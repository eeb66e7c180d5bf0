package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedVolumes map[string]float64

func (f fixedVolumes) Volume(id string, _ Region) (float64, bool) {
	v, ok := f[id]
	return v, ok
}

func newCalc(volumes VolumeSource) (*Calculator, *Table) {
	table := NewTable(ReferenceSegments())
	return NewCalculator(table, volumes), table
}

func ptr(v float64) *float64 { return &v }

func TestReferenceSegments_Shape(t *testing.T) {
	segments := ReferenceSegments()
	require.Len(t, segments, 23)

	dealer, ok := segments[0].Model.(Subscription)
	require.True(t, ok, "first segment is the dealership subscription")
	assert.Len(t, dealer.LineItems, 8)

	assert.Equal(t, 18700.0, dealer.MonthlyRevenue)
	assert.Equal(t, float64(USDealerships), dealer.UnitCounts[RegionUS])

	for _, s := range segments[1:] {
		_, isTx := s.Model.(Transactional)
		assert.True(t, isTx, s.ID)
	}
}

func TestSnapshot_DealerRoundsBeforeMultiplying(t *testing.T) {
	table := NewTable([]Segment{{
		ID: DealershipID,
		Model: Subscription{
			LineItems:  []LineItem{{ID: "bundle", MonthlyCost: 18700}},
			UnitCounts: map[Region]float64{RegionUS: 20755},
		},
	}})
	state := DefaultState(table)
	state.MarketShare = 33

	snap := NewCalculator(table, nil).Snapshot(state)
	require.NotNil(t, snap.Dealer)

	// round(20755 * 0.33) = round(6849.15) = 6849
	assert.Equal(t, int64(6849), snap.Dealer.AdjustedUnits)
	assert.Equal(t, 18700.0, snap.Dealer.MonthlyCostPerUnit)
	assert.Equal(t, 224400.0, snap.Dealer.AnnualRevenuePerUnit)
	assert.Equal(t, 1_536_915_600.0, snap.Total)

	unroundedFirst := 20755 * 0.33 * 18700 * 12
	assert.NotEqual(t, unroundedFirst, snap.Total)
}

func TestSnapshot_TransactionalFormula(t *testing.T) {
	calc, _ := newCalc(fixedVolumes{"Fleet Management Company": 4_500_000})

	snap := calc.Snapshot(State{
		SelectedSegments: []string{"Fleet Management Company"},
		Region:           RegionUS,
		MarketShare:      100,
	})

	assert.Equal(t, 1_968_750_000.0, snap.Total)
	kpi := snap.Transactional["Fleet Management Company"]
	assert.True(t, kpi.LiveVolume)
	assert.Equal(t, 12500.0, kpi.Price)
	assert.InDelta(t, 3.5, kpi.FeeRatePercent, 1e-9)
	assert.Equal(t, 4_500_000.0, kpi.AdjustedVolume)
}

func TestSnapshot_FallsBackToReferenceVolume(t *testing.T) {
	calc, _ := newCalc(fixedVolumes{})

	snap := calc.Snapshot(State{
		SelectedSegments: []string{"EPC"},
		Region:           RegionGlobal,
		MarketShare:      50,
	})

	// 10,000 * 0.5 * 100,000 * 0.02
	assert.Equal(t, 10_000_000.0, snap.Total)
	assert.False(t, snap.Transactional["EPC"].LiveVolume)
}

func TestSnapshot_Overrides(t *testing.T) {
	calc, _ := newCalc(nil)

	snap := calc.Snapshot(State{
		SelectedSegments: []string{"Logistics"},
		MarketShare:      100,
		Overrides: map[string]Override{
			"Logistics": {Price: ptr(10000), FeeRate: ptr(-1)},
		},
	})

	// Negative fee rate is ignored, price override applies.
	kpi := snap.Transactional["Logistics"]
	assert.Equal(t, 10000.0, kpi.Price)
	assert.InDelta(t, 7.0, kpi.FeeRatePercent, 1e-9)
	assert.Equal(t, 2_000_000*10000*0.07, snap.Total)
}

func TestSnapshot_AggregatesAndReportsUnknown(t *testing.T) {
	calc, table := newCalc(nil)

	state := DefaultState(table)
	state.SelectedSegments = []string{DealershipID, "EPC", "Nope", "EPC"}

	snap := calc.Snapshot(state)

	require.Len(t, snap.Segments, 2)
	assert.Equal(t, []string{"Nope"}, snap.Unknown)

	var sum float64
	for _, s := range snap.Segments {
		sum += s.Revenue
	}
	assert.Equal(t, sum, snap.Total)
	// 20755 dealers * 18,900 * 12 + 10,000 * 100,000 * 0.02
	assert.Equal(t, 20755*226800.0+20_000_000, snap.Total)
}

func TestSnapshot_LineItemSelection(t *testing.T) {
	calc, _ := newCalc(nil)

	snap := calc.Snapshot(State{
		SelectedSegments:  []string{DealershipID},
		Region:            RegionGlobal,
		MarketShare:       10,
		SelectedLineItems: []string{"DMS", "CRM", "not-a-line-item"},
	})

	require.NotNil(t, snap.Dealer)
	assert.Equal(t, 2, snap.Dealer.SelectedItems)
	assert.Equal(t, 8, snap.Dealer.TotalItems)
	assert.Equal(t, int64(3500), snap.Dealer.AdjustedUnits)
	assert.Equal(t, 3500*11000*12.0, snap.Total)
}

func TestSnapshot_FlatSubscriptionWithoutUnits(t *testing.T) {
	table := NewTable([]Segment{{
		ID:    "Flat",
		Model: Subscription{MonthlyRevenue: 100, AnnualRevenue: 1200},
	}})
	snap := NewCalculator(table, nil).Snapshot(State{SelectedSegments: []string{"Flat"}, MarketShare: 5})

	assert.Equal(t, 1200.0, snap.Total)
	assert.Nil(t, snap.Dealer)
	assert.Empty(t, snap.Subscriptions)
}

func TestState_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		share      float64
		region     Region
		wantShare  float64
		wantRegion Region
	}{
		{"Below range", 0, RegionGlobal, 1, RegionGlobal},
		{"Above range", 250, RegionUS, 100, RegionUS},
		{"In range", 42, "mars", 42, RegionUS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := State{MarketShare: tt.share, Region: tt.region}.Normalize()
			assert.Equal(t, tt.wantShare, got.MarketShare)
			assert.Equal(t, tt.wantRegion, got.Region)
		})
	}
}

func TestState_CloneIsIndependent(t *testing.T) {
	orig := State{
		SelectedSegments:  []string{DealershipID, "EPC"},
		SelectedLineItems: []string{"DMS", "CRM"},
		Overrides:         map[string]Override{"EPC": {Price: ptr(1)}},
	}
	c := orig.Clone()

	c.SelectedSegments[0] = "OEM"
	c.SelectedLineItems = c.SelectedLineItems[:1]
	c.SelectedLineItems[0] = "Inventory Management"
	c.Overrides["Logistics"] = Override{}

	assert.Equal(t, []string{DealershipID, "EPC"}, orig.SelectedSegments)
	assert.Equal(t, []string{"DMS", "CRM"}, orig.SelectedLineItems)
	assert.Len(t, orig.Overrides, 1)
}

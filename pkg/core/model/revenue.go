package model

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

const (
	MinMarketShare = 1
	MaxMarketShare = 100
)

// Override replaces a transactional segment's default price or fee rate.
type Override struct {
	Price   *float64 `json:"price,omitempty"`
	FeeRate *float64 `json:"fee_rate,omitempty"`
}

// State is everything the revenue model depends on. It is plain data so the
// client can post it back as-is.
type State struct {
	SelectedSegments  []string            `json:"selected_segments"`
	Region            Region              `json:"region"`
	MarketShare       float64             `json:"market_share"`
	Overrides         map[string]Override `json:"overrides,omitempty"`
	SelectedLineItems []string            `json:"selected_line_items"`
}

// DefaultState selects the Dealership subscription with its full bundle, US
// region, at 100% market share.
func DefaultState(table *Table) State {
	return State{
		SelectedSegments:  []string{DealershipID},
		Region:            RegionUS,
		MarketShare:       MaxMarketShare,
		SelectedLineItems: table.SubscriptionLineItems(),
	}
}

// Clone returns a deep copy of s. Decoding JSON into the copy leaves s
// untouched.
func (s State) Clone() State {
	out := s
	out.SelectedSegments = slices.Clone(s.SelectedSegments)
	out.SelectedLineItems = slices.Clone(s.SelectedLineItems)
	out.Overrides = maps.Clone(s.Overrides)
	return out
}

// Normalize returns a copy of s with the market share clamped to [1,100], an
// unknown region replaced by US, duplicate selections removed and negative
// overrides dropped.
func (s State) Normalize() State {
	out := s

	switch {
	case out.MarketShare < MinMarketShare:
		out.MarketShare = MinMarketShare
	case out.MarketShare > MaxMarketShare:
		out.MarketShare = MaxMarketShare
	}

	if out.Region != RegionUS && out.Region != RegionGlobal {
		out.Region = RegionUS
	}

	out.SelectedSegments = uniq(s.SelectedSegments)
	out.SelectedLineItems = uniq(s.SelectedLineItems)

	if len(s.Overrides) > 0 {
		out.Overrides = make(map[string]Override, len(s.Overrides))
		for id, o := range s.Overrides {
			if o.Price != nil && *o.Price < 0 {
				o.Price = nil
			}
			if o.FeeRate != nil && *o.FeeRate < 0 {
				o.FeeRate = nil
			}
			out.Overrides[id] = o
		}
	}
	return out
}

func uniq(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// VolumeSource supplies live annual transaction volumes per segment. A false
// second result means the segment has no usable figure for the region.
type VolumeSource interface {
	Volume(segmentID string, region Region) (float64, bool)
}

// SegmentRevenue is one selected segment's contribution to the total.
type SegmentRevenue struct {
	ID      string    `json:"id"`
	Kind    ModelKind `json:"kind"`
	Revenue float64   `json:"revenue"`
}

// SubscriptionKPIs breaks down a per-unit subscription segment.
type SubscriptionKPIs struct {
	TotalUnits           float64 `json:"total_units"`
	AdjustedUnits        int64   `json:"adjusted_units"`
	MonthlyCostPerUnit   float64 `json:"monthly_cost_per_unit"`
	AnnualRevenuePerUnit float64 `json:"annual_revenue_per_unit"`
	Revenue              float64 `json:"revenue"`
	SelectedItems        int     `json:"selected_items"`
	TotalItems           int     `json:"total_items"`
}

// TransactionalKPIs breaks down a transactional segment.
type TransactionalKPIs struct {
	Volume         float64 `json:"volume"`
	AdjustedVolume float64 `json:"adjusted_volume"`
	LiveVolume     bool    `json:"live_volume"`
	Price          float64 `json:"price"`
	FeeRatePercent float64 `json:"fee_rate_percent"`
	Revenue        float64 `json:"revenue"`
}

// Snapshot is the derived revenue model for one State.
type Snapshot struct {
	State         State                        `json:"state"`
	Total         float64                      `json:"total"`
	Segments      []SegmentRevenue             `json:"segments"`
	Dealer        *SubscriptionKPIs            `json:"dealer,omitempty"`
	Subscriptions map[string]SubscriptionKPIs  `json:"subscriptions"`
	Transactional map[string]TransactionalKPIs `json:"transactional"`
	Unknown       []string                     `json:"unknown,omitempty"`
}

// Calculator computes revenue snapshots against a segment table.
type Calculator struct {
	table   *Table
	volumes VolumeSource
}

// NewCalculator creates a calculator. volumes may be nil, in which case every
// transactional segment uses its reference volume.
func NewCalculator(table *Table, volumes VolumeSource) *Calculator {
	return &Calculator{table: table, volumes: volumes}
}

// Snapshot recomputes the whole model from state. It never mutates anything
// and can be called concurrently.
func (c *Calculator) Snapshot(state State) Snapshot {
	state = state.Normalize()
	share := decimal.NewFromFloat(state.MarketShare).Div(decimal.NewFromInt(100))

	snap := Snapshot{
		State:         state,
		Segments:      []SegmentRevenue{},
		Subscriptions: map[string]SubscriptionKPIs{},
		Transactional: map[string]TransactionalKPIs{},
	}

	total := decimal.Zero
	for _, id := range state.SelectedSegments {
		seg, ok := c.table.Get(id)
		if !ok {
			snap.Unknown = append(snap.Unknown, id)
			continue
		}

		var revenue decimal.Decimal
		switch m := seg.Model.(type) {
		case Subscription:
			kpis, rev := c.subscription(m, state, share)
			revenue = rev
			if kpis != nil {
				snap.Subscriptions[id] = *kpis
				if id == DealershipID {
					snap.Dealer = kpis
				}
			}
		case Transactional:
			kpis, rev := c.transactional(id, m, state, share)
			revenue = rev
			snap.Transactional[id] = kpis
		default:
			continue
		}

		total = total.Add(revenue)
		snap.Segments = append(snap.Segments, SegmentRevenue{
			ID:      id,
			Kind:    seg.Model.Kind(),
			Revenue: revenue.InexactFloat64(),
		})
	}

	snap.Total = total.InexactFloat64()
	return snap
}

// subscription prices a per-unit subscription. The covered unit count is
// rounded to whole units before it is multiplied by the annual cost.
// Segments without unit counts for the region contribute their flat annual
// revenue and no KPIs.
func (c *Calculator) subscription(m Subscription, state State, share decimal.Decimal) (*SubscriptionKPIs, decimal.Decimal) {
	units, ok := m.UnitCount(state.Region)
	if !ok {
		return nil, decimal.NewFromFloat(m.AnnualRevenue)
	}

	selected := make(map[string]bool, len(state.SelectedLineItems))
	for _, id := range state.SelectedLineItems {
		selected[id] = true
	}

	// 1. Monthly cost of the selected bundle
	monthly := decimal.Zero
	count := 0
	for _, li := range m.LineItems {
		if selected[li.ID] {
			monthly = monthly.Add(decimal.NewFromFloat(li.MonthlyCost))
			count++
		}
	}

	// 2. Covered units, rounded half up
	adjusted := decimal.NewFromFloat(units).Mul(share).Round(0)

	// 3. Revenue
	annualPerUnit := monthly.Mul(decimal.NewFromInt(12))
	revenue := annualPerUnit.Mul(adjusted)

	return &SubscriptionKPIs{
		TotalUnits:           units,
		AdjustedUnits:        adjusted.IntPart(),
		MonthlyCostPerUnit:   monthly.InexactFloat64(),
		AnnualRevenuePerUnit: annualPerUnit.InexactFloat64(),
		Revenue:              revenue.InexactFloat64(),
		SelectedItems:        count,
		TotalItems:           len(m.LineItems),
	}, revenue
}

func (c *Calculator) transactional(id string, m Transactional, state State, share decimal.Decimal) (TransactionalKPIs, decimal.Decimal) {
	volume, live := m.Volume, false
	if c.volumes != nil {
		if v, ok := c.volumes.Volume(id, state.Region); ok {
			volume, live = v, true
		}
	}

	price, fee := m.UnitPrice, m.FeeRate
	if o, ok := state.Overrides[id]; ok {
		if o.Price != nil {
			price = *o.Price
		}
		if o.FeeRate != nil {
			fee = *o.FeeRate
		}
	}

	adjusted := decimal.NewFromFloat(volume).Mul(share)
	feeRate := decimal.NewFromFloat(fee)
	revenue := adjusted.Mul(decimal.NewFromFloat(price)).Mul(feeRate)

	return TransactionalKPIs{
		Volume:         volume,
		AdjustedVolume: adjusted.InexactFloat64(),
		LiveVolume:     live,
		Price:          price,
		FeeRatePercent: feeRate.Mul(decimal.NewFromInt(100)).InexactFloat64(),
		Revenue:        revenue.InexactFloat64(),
	}, revenue
}

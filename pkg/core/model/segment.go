// Package model holds the business-model reference table and the bottom-up
// revenue model computed from it.
package model

import "encoding/json"

// Region selects which market the volumes and unit counts come from.
type Region string

const (
	RegionUS     Region = "us"
	RegionGlobal Region = "global"
)

// ModelKind tags the two business models a segment can follow.
type ModelKind string

const (
	KindSubscription  ModelKind = "subscription"
	KindTransactional ModelKind = "transactional"
)

// BusinessModel is implemented only by Subscription and Transactional.
// Callers switch on the concrete type to reach model-specific fields.
type BusinessModel interface {
	Kind() ModelKind
	isBusinessModel()
}

// LineItem is one priced component of a subscription bundle.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	MonthlyCost float64 `json:"monthly_cost"`
}

// Subscription segments pay a monthly fee per unit (e.g. per dealership) for
// a bundle of line items.
type Subscription struct {
	MonthlyRevenue float64            `json:"monthly_revenue"`
	AnnualRevenue  float64            `json:"annual_revenue"`
	LineItems      []LineItem         `json:"line_items"`
	UnitCounts     map[Region]float64 `json:"unit_counts,omitempty"`
}

func (Subscription) Kind() ModelKind { return KindSubscription }
func (Subscription) isBusinessModel() {}

// UnitCount returns the number of paying units in the region.
func (s Subscription) UnitCount(region Region) (float64, bool) {
	n, ok := s.UnitCounts[region]
	return n, ok
}

// Transactional segments pay a fee rate on each transaction.
type Transactional struct {
	UnitPrice float64 `json:"unit_price"`
	FeeRate   float64 `json:"fee_rate"`
	Volume    float64 `json:"volume"`
}

func (Transactional) Kind() ModelKind { return KindTransactional }
func (Transactional) isBusinessModel() {}

// Segment is one row of the business-model reference table.
type Segment struct {
	ID           string        `json:"id"`
	Description  string        `json:"description"`
	LTV          float64       `json:"ltv"`
	NetworkLTV   float64       `json:"network_ltv"`
	MarketSize   string        `json:"market_size"`
	MarketVolume string        `json:"market_volume"`
	Employees    string        `json:"employees"`
	Model        BusinessModel `json:"model"`
}

// MarshalJSON adds the model kind so clients can tell the two shapes apart.
func (s Segment) MarshalJSON() ([]byte, error) {
	type plain Segment
	var kind ModelKind
	if s.Model != nil {
		kind = s.Model.Kind()
	}
	return json.Marshal(struct {
		plain
		Kind ModelKind `json:"kind"`
	}{plain(s), kind})
}

// Table indexes segments by ID while keeping their order.
type Table struct {
	order []string
	byID  map[string]Segment
}

// NewTable builds a table. Later duplicates replace earlier ones in place.
func NewTable(segments []Segment) *Table {
	t := &Table{byID: make(map[string]Segment, len(segments))}
	for _, s := range segments {
		if _, seen := t.byID[s.ID]; !seen {
			t.order = append(t.order, s.ID)
		}
		t.byID[s.ID] = s
	}
	return t
}

// Get looks up a segment.
func (t *Table) Get(id string) (Segment, bool) {
	s, ok := t.byID[id]
	return s, ok
}

// Segments returns every segment in table order.
func (t *Table) Segments() []Segment {
	out := make([]Segment, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

// SubscriptionLineItems returns the line item IDs of every subscription
// segment, the default "everything selected" bundle.
func (t *Table) SubscriptionLineItems() []string {
	var ids []string
	for _, id := range t.order {
		if sub, ok := t.byID[id].Model.(Subscription); ok {
			for _, li := range sub.LineItems {
				ids = append(ids, li.ID)
			}
		}
	}
	return ids
}

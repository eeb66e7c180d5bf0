// Package fixtures defines the shapes of the market-research fixture files
// and decodes them leniently.
package fixtures

import (
	"fmt"

	"investor_dashboard/pkg/core/metric"
	"investor_dashboard/pkg/core/utils"
)

// Fixture file names as published next to the client bundle.
const (
	StakeholdersCSV    = "stakeholders.csv"
	PartnerMetricsJSON = "partner-metrics.json"
	PartnerNetworkJSON = "partner-network.json"
	EcosystemJSON      = "ecosystem-analysis-enhanced.json"
	RoadmapJSON        = "stakeholder-roadmap.json"
	ProductsJSON       = "products-data.json"
	NADAProfileJSON    = "nada_ultra_comprehensive.json"
	ATDProfileJSON     = "atd_ultra_comprehensive.json"
	DealerMetricsJSON  = "dealer_key_metrics.json"
)

// DocumentNames are the fixtures served as untyped documents.
var DocumentNames = []string{RoadmapJSON, ProductsJSON, NADAProfileJSON, ATDProfileJSON, DealerMetricsJSON}

// Document is an ad-hoc fixture the server passes through without a schema.
type Document map[string]interface{}

// Decode decodes a JSON fixture, falling back to repair and Hjson for
// hand-edited files.
func Decode(raw []byte, v interface{}) (utils.Strategy, error) {
	strategy, err := utils.SmartDecode(raw, v)
	if err != nil {
		return "", fmt.Errorf("decode fixture: %w", err)
	}
	return strategy, nil
}

// =============================================================================
// PARTNER METRICS (partner-metrics.json)
// =============================================================================

// MetricEntry is one partner figure with the analyst's rationale.
type MetricEntry struct {
	Display   string  `json:"display"`
	Rationale string  `json:"rationale"`
	Source    *string `json:"source"`
}

// Record converts the entry into a metric record.
func (e MetricEntry) Record() metric.Record {
	source := ""
	if e.Source != nil {
		source = *e.Source
	}
	kind := metric.SourceDirect
	if metric.IsEstimate(e.Rationale, source) {
		kind = metric.SourceEstimated
	}
	return metric.Record{
		Display:     e.Display,
		Source:      source,
		SourceKind:  kind,
		Methodology: e.Rationale,
	}
}

// PartnerMetrics holds the three headline figures for one partner.
type PartnerMetrics struct {
	Revenue   MetricEntry `json:"revenue"`
	Volume    MetricEntry `json:"volume"`
	Employees MetricEntry `json:"employees"`
}

// Entry returns the figure for kind.
func (p PartnerMetrics) Entry(kind metric.Kind) MetricEntry {
	switch kind {
	case metric.KindVolume:
		return p.Volume
	case metric.KindEmployees:
		return p.Employees
	default:
		return p.Revenue
	}
}

// MetricsFile maps partner name to metrics.
type MetricsFile map[string]PartnerMetrics

// =============================================================================
// PARTNER NETWORK (partner-network.json)
// =============================================================================

// Reach columns of the partner network table.
const (
	ReachDealers      = "dealers"
	ReachOEMs         = "oems"
	ReachUpfitters    = "upfitters"
	ReachEquipmentMfg = "equipment_mfg"
	ReachBuyers       = "buyers"
)

// ReachColumns lists the reach columns in table order.
var ReachColumns = []string{ReachDealers, ReachOEMs, ReachUpfitters, ReachEquipmentMfg, ReachBuyers}

// NetworkMetrics is a partner's reach into each part of the ecosystem, as
// free-text counts ("1,200+", "50-100").
type NetworkMetrics struct {
	Segment      string `json:"segment"`
	Product      string `json:"product"`
	Dealers      string `json:"dealers"`
	OEMs         string `json:"oems"`
	Upfitters    string `json:"upfitters"`
	EquipmentMfg string `json:"equipment_mfg"`
	Buyers       string `json:"buyers"`
}

// Reach returns the raw text for a reach column, "0" when it is empty.
func (n NetworkMetrics) Reach(column string) string {
	var v string
	switch column {
	case ReachDealers:
		v = n.Dealers
	case ReachOEMs:
		v = n.OEMs
	case ReachUpfitters:
		v = n.Upfitters
	case ReachEquipmentMfg:
		v = n.EquipmentMfg
	case ReachBuyers:
		v = n.Buyers
	}
	if v == "" {
		return "0"
	}
	return v
}

// NetworkFile maps partner name to network reach.
type NetworkFile map[string]NetworkMetrics

package fixtures

import (
	"sort"

	"investor_dashboard/pkg/core/metric"
	"investor_dashboard/pkg/core/model"
)

// DataPoint is one sourced figure in the ecosystem analysis.
type DataPoint struct {
	Value       *float64          `json:"value"`
	Display     string            `json:"display"`
	Source      *string           `json:"source"`
	SourceType  metric.SourceKind `json:"sourceType"`
	Methodology *string           `json:"methodology"`
	Note        string            `json:"note"`
}

// Record converts the data point into a metric record.
func (d DataPoint) Record() metric.Record {
	r := metric.Record{
		Display:    d.Display,
		Value:      d.Value,
		SourceKind: d.SourceType,
		Note:       d.Note,
	}
	if d.Source != nil {
		r.Source = *d.Source
	}
	if d.Methodology != nil {
		r.Methodology = *d.Methodology
	}
	if r.SourceKind == "" {
		r.SourceKind = metric.SourceEstimated
	}
	return r
}

// EcosystemSegment is one ecosystem participant group with 2024 market data.
type EcosystemSegment struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	ShaedLTV            float64   `json:"shaedLtv"`
	NetworkLTV          float64   `json:"networkLtv"`
	GlobalRevenue2024   DataPoint `json:"globalRevenue2024"`
	GlobalVolume2024    DataPoint `json:"globalVolume2024"`
	GlobalEmployees2024 DataPoint `json:"globalEmployees2024"`
	USRevenue2024       DataPoint `json:"usRevenue2024"`
	USVolume2024        DataPoint `json:"usVolume2024"`
	USEmployees2024     DataPoint `json:"usEmployees2024"`
}

// Point returns the data point for a region and metric kind.
func (s EcosystemSegment) Point(region model.Region, kind metric.Kind) DataPoint {
	if region == model.RegionGlobal {
		switch kind {
		case metric.KindVolume:
			return s.GlobalVolume2024
		case metric.KindEmployees:
			return s.GlobalEmployees2024
		}
		return s.GlobalRevenue2024
	}
	switch kind {
	case metric.KindVolume:
		return s.USVolume2024
	case metric.KindEmployees:
		return s.USEmployees2024
	}
	return s.USRevenue2024
}

// EcosystemDataset is the ecosystem-analysis-enhanced.json document.
type EcosystemDataset struct {
	Segments []EcosystemSegment `json:"segments"`
}

// Volume implements model.VolumeSource. Segments are matched by name, then ID.
// A null volume counts as unavailable.
func (d *EcosystemDataset) Volume(segmentID string, region model.Region) (float64, bool) {
	if d == nil {
		return 0, false
	}
	for _, s := range d.Segments {
		if s.Name == segmentID || s.ID == segmentID {
			p := s.Point(region, metric.KindVolume)
			if p.Value == nil {
				return 0, false
			}
			return *p.Value, true
		}
	}
	return 0, false
}

// SegmentOrder is the display order of the ecosystem segment cards.
var SegmentOrder = []string{
	"Dealership",
	"End User",
	"Upfitter",
	"OEM",
	"Equipment Manufacturer",
	"Fleet Management Company",
	"Logistics",
	"Traditional Finance Provider",
	"Insurance Provider",
	"Maintenance Provider",
	"Channel Partner",
	"Remarketing Specialists",
	"Technology Solutions",
	"Charging OEM",
	"Charging as a Service",
	"EPC",
	"Depot",
	"Utility Provider",
	"Grant Administrator",
	"EV Finance Provider",
	"Government Agency",
	"Dealer Group",
}

// Ordered returns a copy of the segments in display order. Names missing
// from SegmentOrder go last, alphabetically.
func (d *EcosystemDataset) Ordered() []EcosystemSegment {
	if d == nil {
		return nil
	}
	rank := make(map[string]int, len(SegmentOrder))
	for i, name := range SegmentOrder {
		rank[name] = i
	}

	out := append([]EcosystemSegment(nil), d.Segments...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[out[i].Name]
		rj, jok := rank[out[j].Name]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return out[i].Name < out[j].Name
	})
	return out
}

package view

import (
	"fmt"

	"investor_dashboard/pkg/core/dataset"
	"investor_dashboard/pkg/core/fixtures"
	"investor_dashboard/pkg/core/metric"
	"investor_dashboard/pkg/core/model"
	"investor_dashboard/pkg/core/utils"
)

// DataPointView is a clickable figure on a segment card together with what
// the methodology dialog shows for it.
type DataPointView struct {
	Display         string            `json:"display"`
	Value           *float64          `json:"value,omitempty"`
	SourceKind      metric.SourceKind `json:"source_kind"`
	Source          string            `json:"source,omitempty"`
	Note            string            `json:"note,omitempty"`
	MethodologyHTML string            `json:"methodology_html,omitempty"`
}

// EcosystemCard is one ecosystem segment card.
type EcosystemCard struct {
	ID                string                                         `json:"id"`
	Name              string                                         `json:"name"`
	Description       string                                         `json:"description"`
	ShaedLTV          float64                                        `json:"shaed_ltv"`
	NetworkLTV        float64                                        `json:"network_ltv"`
	ShaedLTVDisplay   string                                         `json:"shaed_ltv_display"`
	NetworkLTVDisplay string                                         `json:"network_ltv_display"`
	Regions           map[model.Region]map[metric.Kind]DataPointView `json:"regions"`
}

// EcosystemCards returns the ecosystem segment cards in display order.
func EcosystemCards(ds *dataset.Dataset) ([]EcosystemCard, error) {
	segments := ds.Ecosystem.Ordered()
	cards := make([]EcosystemCard, 0, len(segments))
	for _, s := range segments {
		card := EcosystemCard{
			ID:                s.ID,
			Name:              s.Name,
			Description:       s.Description,
			ShaedLTV:          s.ShaedLTV,
			NetworkLTV:        s.NetworkLTV,
			ShaedLTVDisplay:   metric.FormatMagnitude(s.ShaedLTV, metric.KindRevenue, false),
			NetworkLTVDisplay: metric.FormatMagnitude(s.NetworkLTV, metric.KindRevenue, false),
			Regions:           map[model.Region]map[metric.Kind]DataPointView{},
		}
		for _, region := range []model.Region{model.RegionGlobal, model.RegionUS} {
			points := make(map[metric.Kind]DataPointView, len(metric.Kinds))
			for _, kind := range metric.Kinds {
				v, err := pointView(s.Point(region, kind))
				if err != nil {
					return nil, fmt.Errorf("segment %s %s %s: %w", s.Name, region, kind, err)
				}
				points[kind] = v
			}
			card.Regions[region] = points
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func pointView(p fixtures.DataPoint) (DataPointView, error) {
	rec := p.Record()
	html, err := utils.RenderMarkdown(rec.Methodology)
	if err != nil {
		return DataPointView{}, err
	}
	display := p.Display
	if display == "" {
		display = metric.NotAvailable
	}
	return DataPointView{
		Display:         display,
		Value:           p.Value,
		SourceKind:      rec.SourceKind,
		Source:          rec.Source,
		Note:            rec.Note,
		MethodologyHTML: html,
	}, nil
}

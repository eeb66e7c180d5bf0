// Package apitest provides an in-memory dataset provider for handler tests.
package apitest

import (
	"time"

	"investor_dashboard/pkg/core/dataset"
	"investor_dashboard/pkg/core/fixtures"
	"investor_dashboard/pkg/core/ingest"
)

// Provider serves a fixed dataset, or Err when set.
type Provider struct {
	Dataset *dataset.Dataset
	Err     error
	State   dataset.Status
}

// Current implements api.DatasetProvider.
func (p *Provider) Current() (*dataset.Dataset, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Dataset == nil {
		return nil, dataset.ErrNotLoaded
	}
	return p.Dataset, nil
}

// Status implements api.DatasetProvider.
func (p *Provider) Status() dataset.Status {
	return p.State
}

// Ready wraps ds in a provider that reports a successful load.
func Ready(ds *dataset.Dataset) *Provider {
	return &Provider{
		Dataset: ds,
		State: dataset.Status{
			State:    dataset.StateReady,
			LoadID:   ds.LoadID,
			LoadedAt: ds.LoadedAt,
			Loads:    1,
		},
	}
}

func ptr(v float64) *float64 { return &v }

func str(s string) *string { return &s }

// Dataset is a small dataset covering every fixture.
func Dataset() *dataset.Dataset {
	return &dataset.Dataset{
		LoadID:   "load-1",
		LoadedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Stakeholders: []ingest.Stakeholder{
			{Name: "Acme", Type: "OEM", Products: []string{"CPQ"}, Status: "Active"},
			{Name: "Beta Motors", Type: "Dealer", Products: []string{"Order Management"}},
			{Name: "Gamma Fleet", Type: "Fleet", Products: []string{"CPQ", "Upfit Portal"}},
		},
		Metrics: fixtures.MetricsFile{
			"Acme":        {Revenue: fixtures.MetricEntry{Display: "$2.5 billion"}, Employees: fixtures.MetricEntry{Display: "1,200"}},
			"Beta Motors": {Revenue: fixtures.MetricEntry{Display: "$2-3M"}, Employees: fixtures.MetricEntry{Display: "25"}},
		},
		Network: fixtures.NetworkFile{
			"Acme": {Dealers: "1,200+"},
		},
		Ecosystem: &fixtures.EcosystemDataset{
			Segments: []fixtures.EcosystemSegment{
				{
					ID:       "fleet",
					Name:     "Fleet Management Company",
					ShaedLTV: 250000,
					USVolume2024: fixtures.DataPoint{
						Value:       ptr(4_500_000),
						Display:     "4.5M",
						Source:      str("Fleet survey"),
						SourceType:  "direct",
						Methodology: str("**Survey** of fleet managers"),
					},
				},
				{ID: "dealer", Name: "Dealership", ShaedLTV: 224400},
			},
		},
		Documents: map[string]fixtures.Document{
			fixtures.RoadmapJSON: {"quarters": []interface{}{"Q1", "Q2"}},
		},
	}
}

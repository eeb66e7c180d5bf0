// Package dataset loads every fixture the dashboard needs into one immutable
// snapshot and keeps the current snapshot available to the API.
package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"investor_dashboard/pkg/core/fixtures"
	"investor_dashboard/pkg/core/ingest"
	"investor_dashboard/pkg/core/metric"
	"investor_dashboard/pkg/core/model"
)

// Names are the fixture file names to load. An empty name skips that fixture.
type Names struct {
	Stakeholders string   `yaml:"stakeholders"`
	Metrics      string   `yaml:"metrics"`
	Network      string   `yaml:"network"`
	Ecosystem    string   `yaml:"ecosystem"`
	Documents    []string `yaml:"documents"`
}

// DefaultNames are the fixture names the client bundle publishes.
func DefaultNames() Names {
	return Names{
		Stakeholders: fixtures.StakeholdersCSV,
		Metrics:      fixtures.PartnerMetricsJSON,
		Network:      fixtures.PartnerNetworkJSON,
		Ecosystem:    fixtures.EcosystemJSON,
		Documents:    append([]string(nil), fixtures.DocumentNames...),
	}
}

// Options configure a load.
type Options struct {
	Names  Names
	Dedupe ingest.DedupeRule
	Logger *zap.Logger
}

// Dataset is one complete, immutable load of the fixtures.
type Dataset struct {
	LoadID       string                       `json:"load_id"`
	LoadedAt     time.Time                    `json:"loaded_at"`
	Stakeholders []ingest.Stakeholder         `json:"stakeholders"`
	Metrics      fixtures.MetricsFile         `json:"metrics"`
	Network      fixtures.NetworkFile         `json:"network"`
	Ecosystem    *fixtures.EcosystemDataset   `json:"ecosystem"`
	Documents    map[string]fixtures.Document `json:"documents"`
}

// Document returns an untyped fixture by file name.
func (d *Dataset) Document(name string) (fixtures.Document, bool) {
	doc, ok := d.Documents[name]
	return doc, ok
}

// Calculator returns a revenue calculator backed by this load's ecosystem
// volumes.
func (d *Dataset) Calculator(table *model.Table) *model.Calculator {
	if d.Ecosystem == nil {
		return model.NewCalculator(table, nil)
	}
	return model.NewCalculator(table, d.Ecosystem)
}

// Load fetches every configured fixture in parallel and parses them. Any
// failure fails the whole load; a partial dataset is never returned.
func Load(ctx context.Context, src ingest.Source, opts Options) (*Dataset, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ds := &Dataset{
		LoadID:    uuid.NewString(),
		Metrics:   fixtures.MetricsFile{},
		Network:   fixtures.NetworkFile{},
		Ecosystem: &fixtures.EcosystemDataset{},
		Documents: make(map[string]fixtures.Document, len(opts.Names.Documents)),
	}
	logger = logger.With(zap.String("load_id", ds.LoadID))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)

	if name := opts.Names.Stakeholders; name != "" {
		g.Go(func() error {
			raw, err := src.Fetch(gctx, name)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", name, err)
			}
			parsed := ingest.ParseStakeholders(string(raw))
			ds.Stakeholders = ingest.Dedupe(parsed, opts.Dedupe)
			if dropped := len(parsed) - len(ds.Stakeholders); dropped > 0 {
				logger.Info("merged duplicate stakeholders", zap.Int("dropped", dropped))
			}
			return nil
		})
	}

	g.Go(decodeInto(gctx, src, opts.Names.Metrics, &ds.Metrics, logger))
	g.Go(decodeInto(gctx, src, opts.Names.Network, &ds.Network, logger))
	g.Go(decodeInto(gctx, src, opts.Names.Ecosystem, ds.Ecosystem, logger))

	docs := make([]fixtures.Document, len(opts.Names.Documents))
	for i, name := range opts.Names.Documents {
		docs[i] = fixtures.Document{}
		g.Go(decodeInto(gctx, src, name, &docs[i], logger))
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load fixtures: %w", err)
	}

	for i, name := range opts.Names.Documents {
		ds.Documents[name] = docs[i]
	}
	ds.LoadedAt = time.Now()

	reportUnparseable(ds, logger)
	logger.Info("dataset loaded",
		zap.Int("stakeholders", len(ds.Stakeholders)),
		zap.Int("metrics", len(ds.Metrics)),
		zap.Int("network", len(ds.Network)),
		zap.Int("segments", len(ds.Ecosystem.Segments)),
		zap.Int("documents", len(ds.Documents)),
		zap.Duration("took", time.Since(start)))
	return ds, nil
}

func decodeInto(ctx context.Context, src ingest.Source, name string, v interface{}, logger *zap.Logger) func() error {
	return func() error {
		if name == "" {
			return nil
		}
		raw, err := src.Fetch(ctx, name)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", name, err)
		}
		strategy, err := fixtures.Decode(raw, v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		logger.Debug("fixture decoded", zap.String("fixture", name), zap.String("strategy", string(strategy)))
		return nil
	}
}

// reportUnparseable logs every metric string that will read as zero without
// saying "N/A".
func reportUnparseable(ds *Dataset, logger *zap.Logger) {
	for partner, m := range ds.Metrics {
		for _, kind := range metric.Kinds {
			display := m.Entry(kind).Display
			if _, ok := metric.ParseMagnitudeStrict(display); !ok {
				logger.Warn("unparseable metric reads as zero",
					zap.String("partner", partner),
					zap.String("kind", string(kind)),
					zap.String("display", display))
			}
		}
	}
	for _, seg := range ds.Ecosystem.Segments {
		for _, region := range []model.Region{model.RegionUS, model.RegionGlobal} {
			for _, kind := range metric.Kinds {
				p := seg.Point(region, kind)
				if p.Value != nil {
					continue
				}
				if _, ok := metric.ParseMagnitudeStrict(p.Display); !ok {
					logger.Warn("unparseable metric reads as zero",
						zap.String("segment", seg.Name),
						zap.String("region", string(region)),
						zap.String("kind", string(kind)),
						zap.String("display", p.Display))
				}
			}
		}
	}
}

// Command seed_fixtures uploads a directory of fixture files into the
// dashboard_fixtures table so the server can run with fixtures.source: db.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"investor_dashboard/pkg/core/config"
	"investor_dashboard/pkg/core/dataset"
	"investor_dashboard/pkg/core/fixtures"
	"investor_dashboard/pkg/core/ingest"
	"investor_dashboard/pkg/core/logging"
	"investor_dashboard/pkg/core/store"
)

func main() {
	godotenv.Load()

	var (
		configPath string
		dir        string
		dryRun     bool
	)
	cmd := &cobra.Command{
		Use:   "seed_fixtures",
		Short: "Upload fixture files into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Fixtures.Dir
			}
			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
			if err != nil {
				return err
			}
			defer logger.Sync()
			return seed(cmd.Context(), dir, fixtureNames(cfg.Fixtures.Names), dryRun, logger)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "config file")
	cmd.Flags().StringVar(&dir, "dir", "", "directory to upload (default fixtures.dir)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate only")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func fixtureNames(n dataset.Names) []string {
	var names []string
	for _, name := range append([]string{n.Stakeholders, n.Metrics, n.Network, n.Ecosystem}, n.Documents...) {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// validate checks that a fixture will load before it is uploaded.
func validate(name string, raw []byte) error {
	if strings.HasSuffix(name, ".csv") {
		if len(ingest.ParseStakeholders(string(raw))) == 0 {
			return fmt.Errorf("%s has no named rows", name)
		}
		return nil
	}
	var doc interface{}
	if _, err := fixtures.Decode(raw, &doc); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func seed(ctx context.Context, dir string, names []string, dryRun bool, logger *zap.Logger) error {
	// 1. Read and validate everything first
	files := make(map[string][]byte, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := validate(name, raw); err != nil {
			return err
		}
		files[name] = raw
	}
	logger.Info("fixtures valid", zap.String("dir", dir), zap.Int("files", len(files)))
	if dryRun {
		return nil
	}

	// 2. Connect
	if err := store.InitDB(ctx); err != nil {
		return err
	}
	defer store.Close()
	vault := store.NewFixtureVault(store.GetPool(), "")
	if err := vault.EnsureSchema(ctx); err != nil {
		return err
	}

	// 3. Upload
	for _, name := range names {
		if err := vault.Save(ctx, name, files[name]); err != nil {
			return err
		}
		logger.Info("fixture uploaded", zap.String("fixture", name), zap.Int("bytes", len(files[name])))
	}
	return nil
}

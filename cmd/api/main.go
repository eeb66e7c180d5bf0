package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"investor_dashboard/pkg/api/router"
	"investor_dashboard/pkg/api/static"
	"investor_dashboard/pkg/core/config"
	"investor_dashboard/pkg/core/dataset"
	"investor_dashboard/pkg/core/ingest"
	"investor_dashboard/pkg/core/logging"
	"investor_dashboard/pkg/core/model"
	"investor_dashboard/pkg/core/store"
)

var (
	configPath string
	logLevel   string
)

func main() {
	// Load environment variables
	godotenv.Load()

	root := &cobra.Command{
		Use:   "dashboard",
		Short: "Investor dashboard server",
		RunE:  runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the client bundle and the dashboard API",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load every fixture once, inspect the bundle and exit",
		RunE:  runCheck,
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// newSource picks where fixtures are read from.
func newSource(ctx context.Context, cfg config.Config, logger *zap.Logger) (ingest.Source, error) {
	switch cfg.Fixtures.Source {
	case config.SourceHTTP:
		return ingest.NewHTTPSource(cfg.Fixtures.BaseURL, cfg.Fixtures.Attempts, cfg.Fixtures.Backoff, logger), nil
	case config.SourceDB:
		if err := store.InitDB(ctx); err != nil {
			return nil, err
		}
		vault := store.NewFixtureVault(store.GetPool(), cfg.Fixtures.Dir)
		if err := vault.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return vault, nil
	}
	return ingest.DirSource{Dir: cfg.Fixtures.Dir}, nil
}

func inspectBundle(cfg config.Config, logger *zap.Logger) (static.Report, error) {
	report, err := static.Inspect(os.DirFS(cfg.Server.StaticRoot))
	if err != nil {
		return report, err
	}
	if len(report.Missing) > 0 {
		logger.Warn("bundle references missing assets",
			zap.String("root", cfg.Server.StaticRoot),
			zap.Strings("missing", report.Missing))
	} else {
		logger.Info("bundle ok",
			zap.String("root", cfg.Server.StaticRoot),
			zap.String("title", report.Title),
			zap.Int("assets", len(report.Assets)))
	}
	return report, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Static bundle
	if _, err := inspectBundle(cfg, logger); err != nil {
		logger.Warn("cannot inspect bundle", zap.Error(err))
	}

	// 2. Dataset
	src, err := newSource(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("fixture source: %w", err)
	}
	svc := dataset.NewService(src, dataset.Options{
		Names:  cfg.Fixtures.Names,
		Dedupe: cfg.Partners.Dedupe,
		Logger: logger,
	})
	if err := svc.Reload(ctx); err != nil {
		// The static bundle is still useful; the API reports the failure.
		logger.Error("initial load failed, API will answer 503", zap.Error(err))
	}

	if cfg.Fixtures.Watch && cfg.Fixtures.Source == config.SourceFile {
		watcher, err := dataset.NewWatcher(cfg.Fixtures.Dir, svc, logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	// 3. HTTP
	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: router.New(router.Deps{
			Config: cfg,
			Data:   svc,
			Table:  model.NewTable(model.ReferenceSegments()),
			Static: static.NewHandler(cfg.Server.StaticRoot, logger),
			Logger: logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Addr),
			zap.String("fixtures", cfg.Fixtures.Source),
			zap.Bool("api", cfg.Server.API()))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer store.Close()

	ctx := cmd.Context()
	report, err := inspectBundle(cfg, logger)
	if err != nil {
		return err
	}

	src, err := newSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	ds, err := dataset.Load(ctx, src, dataset.Options{
		Names:  cfg.Fixtures.Names,
		Dedupe: cfg.Partners.Dedupe,
		Logger: logger.Named("dataset"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "load %s: %d stakeholders, %d metrics, %d network, %d segments, %d documents\n",
		ds.LoadID, len(ds.Stakeholders), len(ds.Metrics), len(ds.Network), len(ds.Ecosystem.Segments), len(ds.Documents))
	if len(report.Missing) > 0 {
		return fmt.Errorf("bundle is missing %d assets: %v", len(report.Missing), report.Missing)
	}
	return nil
}

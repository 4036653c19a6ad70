package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/WTMsoft/PremScout/internal/catalog"
	"github.com/WTMsoft/PremScout/internal/config"
	"github.com/WTMsoft/PremScout/internal/feed"
	"github.com/WTMsoft/PremScout/internal/fetch"
	"github.com/WTMsoft/PremScout/internal/logging"
	"github.com/WTMsoft/PremScout/internal/metrics"
	"github.com/WTMsoft/PremScout/internal/store"
	"github.com/spf13/cobra"
)

// configKeys are the config keys that may be overridden by a flag of the same name.
var configKeys = []string{
	"dataset_url", "headshots_url", "headshots_base_url", "cache_dir", "use_cache",
	"log_level", "log_format", "addr", "mcp_path", "require_auth", "auth_header",
	"page_size", "metrics_enabled",
}

// app carries the resolved configuration and shared services for one command.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newApp(cmd *cobra.Command) (*app, error) {
	loader := config.NewLoader()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loader.SetConfigFile(path)
	}
	if err := loader.BindFlags(cmd.Flags(), configKeys...); err != nil {
		return nil, errors.Join(err, errApp)
	}
	cfg, err := loader.Read()
	if err != nil {
		return nil, errors.Join(err, errApp)
	}

	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "premscout",
		Version: BuildVersion,
	})
	if used := loader.Path(); used != "" {
		logger.Debug("Loaded config file", slog.String(logging.FieldPath, used))
	}

	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) fetchClient() *fetch.Client {
	client := fetch.NewClient(store.NewFileStore(a.cfg.CacheDir))
	client.HTTP = &http.Client{Timeout: a.cfg.HTTPTimeout}
	client.UserAgent = a.cfg.UserAgent
	client.Retries = a.cfg.Retries
	client.UseCache = a.cfg.UseCache
	client.Metrics = a.metrics
	client.Logger = a.logger
	return client
}

// catalogLoader wires both CSV feeds through one fetch client. force bypasses the cache.
func (a *app) catalogLoader(force bool) *catalog.Loader {
	client := a.fetchClient()
	return &catalog.Loader{
		Dataset:   &feed.CSVDataset{Client: client, Source: a.cfg.DatasetURL, Force: force},
		Headshots: &feed.CSVHeadshots{Client: client, Source: a.cfg.HeadshotsURL, Force: force},
		Logger:    a.logger,
		Metrics:   a.metrics,
	}
}

func (a *app) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cat, err := a.catalogLoader(false).Load(ctx)
	if err != nil {
		return nil, errors.Join(err, catalog.ErrNoData)
	}
	return cat, nil
}

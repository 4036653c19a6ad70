package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/WTMsoft/PremScout/internal/feed"
	"github.com/WTMsoft/PremScout/internal/logging"
	"github.com/WTMsoft/PremScout/internal/metrics"
)

// Loader fetches both feeds and builds a Catalog.
type Loader struct {
	Dataset   feed.DatasetProvider
	Headshots feed.HeadshotProvider
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
}

func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	logger := logging.OrDiscard(l.Logger)
	start := time.Now()

	res, err := feed.LoadAll(ctx, l.Dataset, l.Headshots)
	if err != nil {
		l.Metrics.RecordCatalogLoad(0, time.Since(start), err)
		return nil, err
	}

	cat, err := Build(res.Rows, res.Entries)
	l.Metrics.RecordCatalogLoad(lenOf(cat), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	sum := cat.Summary()
	if sum.Issues > 0 {
		logger.Warn("Dataset cells could not be parsed",
			slog.Int(logging.FieldCount, sum.Issues), slog.Any("first", cat.issues[0]))
	}
	if sum.Warnings > 0 {
		logger.Warn("Headshot entries skipped",
			slog.Int(logging.FieldCount, sum.Warnings), slog.Any("first", cat.warnings[0]))
	}
	logger.Info("Catalog loaded",
		slog.String(logging.FieldSnapshot, sum.ID),
		slog.Int("records", sum.Records),
		slog.Int("teams", sum.Teams),
		slog.Int("missing_headshots", sum.Missing),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
	return cat, nil
}

func lenOf(c *Catalog) int {
	if c == nil {
		return 0
	}
	return c.Len()
}

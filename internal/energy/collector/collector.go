package collector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"energydash/config"
	"energydash/internal/energy/dataset"
	"energydash/internal/energy/loader"
	"energydash/internal/energy/memorystore"
	"energydash/pkg/odre"
)

// Collector wires the export client, the in-memory dataset store and the loader
// for the configured source URL.
type Collector struct {
	URL    string
	Store  *memorystore.MemoryDatasetStore
	Loader *loader.DatasetLoader
	logger *zap.Logger
}

// New builds the data pipeline. The source URL is resolved once, through the
// Parameter Store in prod.
func New(cfg *config.Config, logger *zap.Logger) *Collector {
	restClient := odre.NewRESTClient(cfg.Dataset.Timeout)
	store := memorystore.NewDatasetStore()

	return &Collector{
		URL:    cfg.Dataset.SourceURL(cfg.Log.Environment),
		Store:  store,
		Loader: loader.New(restClient, store, cfg.Dataset.Timeout, logger),
		logger: logger,
	}
}

// Load returns the dataset of the configured URL.
func (c *Collector) Load(ctx context.Context) (*dataset.Dataset, error) {
	return c.Loader.Load(ctx, c.URL)
}

// Warm loads the dataset so the first request is served from memory.
func (c *Collector) Warm(ctx context.Context) error {
	ds, err := c.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm dataset cache: %w", err)
	}
	c.logger.Info("dataset cache warmed",
		zap.String("url", c.URL),
		zap.Int("records", ds.Len()),
		zap.Ints("years", ds.Years()))
	return nil
}

// ReportStats periodically logs the cached datasets until ctx is done.
func (c *Collector) ReportStats(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			entries := c.Store.GetAll()
			c.logger.Info("current cached datasets",
				zap.Int("datasets", len(entries)),
				zap.Int("records", c.Store.CountAll()))
			for _, e := range entries {
				c.logger.Debug("cached dataset",
					zap.String("url", e.URL),
					zap.Time("fetched_at", e.FetchedAt),
					zap.Int("records", e.Records))
			}
		}
	}
}

package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"energydash/internal/energy/dataset"
	"energydash/internal/energy/memorystore"
	"energydash/pkg/odre"
)

// Fetcher retrieves and decodes one dataset export.
type Fetcher interface {
	FetchDataset(ctx context.Context, url string) (*dataset.Dataset, error)
}

// DatasetLoader memoizes fetched datasets by URL.
type DatasetLoader struct {
	Fetcher Fetcher
	Store   *memorystore.MemoryDatasetStore
	Logger  *zap.Logger
	Timeout time.Duration // Upper bound for one fetch and parse, zero means no extra bound
}

func New(fetcher Fetcher, store *memorystore.MemoryDatasetStore, timeout time.Duration, logger *zap.Logger) *DatasetLoader {
	return &DatasetLoader{
		Fetcher: fetcher,
		Store:   store,
		Logger:  logger,
		Timeout: timeout,
	}
}

// Load returns the Dataset for url, fetching it on first use.
// Later calls with the same url return the same *Dataset without network I/O.
// Retrieval and parse errors are returned to the caller and nothing is cached.
func (l *DatasetLoader) Load(ctx context.Context, url string) (*dataset.Dataset, error) {
	ds, hit, err := l.Store.GetOrLoad(ctx, url, func() (*dataset.Dataset, error) {
		return l.fetch(ctx, url)
	})
	if err != nil {
		// The store only returns a bare context error when this caller gave up waiting
		// on another caller's fetch.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			var rerr *odre.RetrievalError
			if !errors.As(err, &rerr) {
				err = &odre.RetrievalError{URL: url, Err: fmt.Errorf("waiting for in-flight fetch: %w", err)}
			}
		}
		return nil, err
	}
	if hit {
		cacheHitsTotal.Inc()
		l.Logger.Debug("dataset cache hit", zap.String("url", url), zap.Int("records", ds.Len()))
	}
	return ds, nil
}

func (l *DatasetLoader) fetch(ctx context.Context, url string) (*dataset.Dataset, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	l.Logger.Info("fetching dataset", zap.String("url", url))
	start := time.Now()

	ds, err := l.Fetcher.FetchDataset(ctx, url)

	elapsed := time.Since(start)
	fetchDuration.Observe(elapsed.Seconds())
	fetchesTotal.WithLabelValues(outcomeOf(err)).Inc()

	if err != nil {
		l.Logger.Error("failed to load dataset",
			zap.String("url", url),
			zap.String("outcome", outcomeOf(err)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}

	datasetRecords.WithLabelValues(url).Set(float64(ds.Len()))
	l.Logger.Info("loaded dataset",
		zap.String("url", url),
		zap.Int("records", ds.Len()),
		zap.Duration("elapsed", elapsed))
	return ds, nil
}

package loader

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"energydash/pkg/odre"
)

const (
	outcomeSuccess        = "success"
	outcomeRetrievalError = "retrieval_error"
	outcomeParseError     = "parse_error"
	outcomeError          = "error"
)

var (
	fetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "energydash",
			Subsystem: "dataset",
			Name:      "fetches_total",
			Help:      "Dataset fetches by outcome.",
		},
		[]string{"outcome"},
	)
	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "energydash",
			Subsystem: "dataset",
			Name:      "cache_hits_total",
			Help:      "Dataset loads served from the in-memory cache.",
		},
	)
	fetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "energydash",
			Subsystem: "dataset",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching and parsing a dataset export.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)
	datasetRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "energydash",
			Subsystem: "dataset",
			Name:      "records",
			Help:      "Records retained in the cached dataset after cleaning.",
		},
		[]string{"url"},
	)
)

// RegisterMetrics registers the loader collectors with reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{fetchesTotal, cacheHitsTotal, fetchDuration, datasetRecords} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func outcomeOf(err error) string {
	var rerr *odre.RetrievalError
	var perr *odre.ParseError
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.As(err, &rerr):
		return outcomeRetrievalError
	case errors.As(err, &perr):
		return outcomeParseError
	}
	return outcomeError
}

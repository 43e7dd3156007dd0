package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"energydash/internal/energy/dataset"
	"energydash/internal/energy/memorystore"
	"energydash/pkg/odre"
)

const exportCSV = "date;heure;date_heure;consommation_brute_gaz_grtgaz;consommation_brute_gaz_terega;consommation_brute_gaz_totale;consommation_brute_electricite_rte\n" +
	"2023-01-01;00:00;2023-01-01T00:00:00+01:00;80;20;100;50\n" +
	"2023-01-01;01:00;2023-01-01T01:00:00+01:00;;20;;50\n" +
	"2023-01-02;00:00;2023-01-02T00:00:00+01:00;60;20;80;40\n"

func newExportServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

// go test -v --run TestLoadMemoizesByURL
func TestLoadMemoizesByURL(t *testing.T) {
	srv, hits := newExportServer(t, http.StatusOK, exportCSV)

	l := New(odre.NewRESTClient(5*time.Second), memorystore.NewDatasetStore(), 5*time.Second, zaptest.NewLogger(t))
	cacheHitsBefore := testutil.ToFloat64(cacheHitsTotal)

	first, err := l.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, 2, first.Len())

	second, err := l.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, int32(1), hits.Load(), "second load must not hit the network")
	require.Equal(t, cacheHitsBefore+1, testutil.ToFloat64(cacheHitsTotal))

	for _, r := range first.Records() {
		require.True(t, r.GasGRTgaz.Valid)
	}
}

// go test -v --run TestLoadRetrievalError
func TestLoadRetrievalError(t *testing.T) {
	srv, hits := newExportServer(t, http.StatusBadGateway, "upstream down")

	l := New(odre.NewRESTClient(5*time.Second), memorystore.NewDatasetStore(), 5*time.Second, zaptest.NewLogger(t))
	failuresBefore := testutil.ToFloat64(fetchesTotal.WithLabelValues(outcomeRetrievalError))

	ds, err := l.Load(context.Background(), srv.URL)
	require.Nil(t, ds)
	var rerr *odre.RetrievalError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, failuresBefore+1, testutil.ToFloat64(fetchesTotal.WithLabelValues(outcomeRetrievalError)))

	// Failures are not cached, so the next call fetches again.
	_, err = l.Load(context.Background(), srv.URL)
	require.Error(t, err)
	require.Equal(t, int32(2), hits.Load())
}

// go test -v --run TestLoadParseErrorReturnsNoDataset
func TestLoadParseErrorReturnsNoDataset(t *testing.T) {
	srv, _ := newExportServer(t, http.StatusOK, "date;heure;date_heure\n2023-01-01;00:00;2023-01-01T00:00:00+01:00\n")

	store := memorystore.NewDatasetStore()
	l := New(odre.NewRESTClient(5*time.Second), store, 5*time.Second, zaptest.NewLogger(t))

	ds, err := l.Load(context.Background(), srv.URL)
	require.Nil(t, ds)
	var perr *odre.ParseError
	require.True(t, errors.As(err, &perr))

	_, ok := store.Get(srv.URL)
	require.False(t, ok, "no partial dataset may be cached")
}

type blockingFetcher struct {
	calls atomic.Int32
}

func (f *blockingFetcher) FetchDataset(ctx context.Context, url string) (*dataset.Dataset, error) {
	f.calls.Add(1)
	<-ctx.Done()
	return nil, &odre.RetrievalError{URL: url, Err: ctx.Err()}
}

// go test -v --run TestLoadTimeout
func TestLoadTimeout(t *testing.T) {
	fetcher := &blockingFetcher{}
	l := New(fetcher, memorystore.NewDatasetStore(), 20*time.Millisecond, zaptest.NewLogger(t))

	_, err := l.Load(context.Background(), "http://example.invalid/export.csv")
	var rerr *odre.RetrievalError
	require.True(t, errors.As(err, &rerr))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, int32(1), fetcher.calls.Load())
}

// go test -v --run TestRegisterMetrics
func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterMetrics(reg))
	require.Error(t, RegisterMetrics(reg), "double registration must fail")
}

// go test -v --run TestLoadWaiterGivesUp
func TestLoadWaiterGivesUp(t *testing.T) {
	fetcher := &blockingFetcher{}
	l := New(fetcher, memorystore.NewDatasetStore(), time.Minute, zaptest.NewLogger(t))

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _ = l.Load(firstCtx, "http://example.invalid/export.csv")
	}()
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := l.Load(ctx, "http://example.invalid/export.csv")

	var rerr *odre.RetrievalError
	require.True(t, errors.As(err, &rerr), "expected RetrievalError, got %v", err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, int32(1), fetcher.calls.Load(), "the waiter must not start its own fetch")

	cancelFirst()
	<-firstDone
}

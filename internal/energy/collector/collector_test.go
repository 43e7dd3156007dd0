package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"energydash/config"
)

const exportCSV = "date;heure;date_heure;consommation_brute_gaz_grtgaz;statut_grtgaz;consommation_brute_gaz_terega;statut_terega;consommation_brute_gaz_totale;consommation_brute_electricite_rte;statut_rte;consommation_brute_totale\n" +
	"2022-03-01;00:00;2022-03-01T00:00:00+01:00;800;Définitif;200;Définitif;1000;500;Définitif;1500\n" +
	"2023-03-01;00:00;2023-03-01T00:00:00+01:00;900;Définitif;300;Définitif;1200;600;Définitif;1800\n"

func newTestCollector(t *testing.T, handler http.HandlerFunc) *Collector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Dataset: config.DatasetConfig{URL: srv.URL, URLParameter: "/energydash/dataset_url", Timeout: 2 * time.Second},
		Log:     config.LogConfig{Environment: "dev"},
	}
	return New(cfg, zaptest.NewLogger(t))
}

// go test -v --run TestWarmThenServeFromMemory
func TestWarmThenServeFromMemory(t *testing.T) {
	var hits atomic.Int32
	c := newTestCollector(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(exportCSV))
	})

	require.NoError(t, c.Warm(context.Background()))
	require.Len(t, c.Store.GetAll(), 1)
	require.Equal(t, 2, c.Store.CountAll(), "CountAll counts records across cached datasets")

	ds, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	require.Equal(t, []int{2022, 2023}, ds.Years())
	require.Equal(t, int32(1), hits.Load())
}

// go test -v --run TestWarmFailure
func TestWarmFailure(t *testing.T) {
	c := newTestCollector(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	require.Error(t, c.Warm(context.Background()))
	require.Empty(t, c.Store.GetAll())
	require.Equal(t, 0, c.Store.CountAll())
}

// go test -v --run TestReportStatsStops
func TestReportStatsStops(t *testing.T) {
	c := newTestCollector(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(exportCSV))
	})
	require.NoError(t, c.Warm(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.ReportStats(ctx, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ReportStats did not return after cancellation")
	}
}

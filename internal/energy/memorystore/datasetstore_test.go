package memorystore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"energydash/internal/energy/dataset"
)

func testDataset(url string, n int) *dataset.Dataset {
	records := make([]dataset.RawRecord, n)
	return dataset.New(url, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), records)
}

// go test -v --run TestGetOrLoadCachesByURL
func TestGetOrLoadCachesByURL(t *testing.T) {
	store := NewDatasetStore()
	var calls int

	load := func(url string) LoadFunc {
		return func() (*dataset.Dataset, error) {
			calls++
			return testDataset(url, 3), nil
		}
	}

	first, hit, err := store.GetOrLoad(context.Background(), "http://a", load("http://a"))
	require.NoError(t, err)
	require.False(t, hit)

	second, hit, err := store.GetOrLoad(context.Background(), "http://a", load("http://a"))
	require.NoError(t, err)
	require.True(t, hit)
	require.Same(t, first, second)
	require.Equal(t, 1, calls)

	_, _, err = store.GetOrLoad(context.Background(), "http://b", load("http://b"))
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Equal(t, 6, store.CountAll())

	entries := store.GetAll()
	require.Len(t, entries, 2)
	require.Equal(t, "http://a", entries[0].URL)
	require.Equal(t, "http://b", entries[1].URL)
}

// go test -v --run TestGetOrLoadDoesNotCacheFailures
func TestGetOrLoadDoesNotCacheFailures(t *testing.T) {
	store := NewDatasetStore()
	boom := errors.New("boom")

	ds, _, err := store.GetOrLoad(context.Background(), "http://a", func() (*dataset.Dataset, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	require.Nil(t, ds)

	_, ok := store.Get("http://a")
	require.False(t, ok)

	ds, hit, err := store.GetOrLoad(context.Background(), "http://a", func() (*dataset.Dataset, error) { return testDataset("http://a", 1), nil })
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, 1, ds.Len())
}

// go test -v --run TestGetOrLoadSingleInFlight
func TestGetOrLoadSingleInFlight(t *testing.T) {
	store := NewDatasetStore()
	var calls atomic.Int32
	release := make(chan struct{})

	load := func() (*dataset.Dataset, error) {
		calls.Add(1)
		<-release
		return testDataset("http://a", 2), nil
	}

	const callers = 16
	results := make([]*dataset.Dataset, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, _, err := store.GetOrLoad(context.Background(), "http://a", load)
			if err == nil {
				results[i] = ds
			}
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	for _, ds := range results {
		require.Same(t, results[0], ds)
	}
}

// go test -v --run TestGetOrLoadWaiterHonoursContext
func TestGetOrLoadWaiterHonoursContext(t *testing.T) {
	store := NewDatasetStore()
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	go func() {
		_, _, _ = store.GetOrLoad(context.Background(), "http://a", func() (*dataset.Dataset, error) {
			close(started)
			<-release
			return testDataset("http://a", 1), nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	begin := time.Now()
	ds, hit, err := store.GetOrLoad(ctx, "http://a", func() (*dataset.Dataset, error) {
		t.Error("a waiter must not start a second load")
		return nil, nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Nil(t, ds)
	require.False(t, hit)
	require.Less(t, time.Since(begin), time.Second)
}

// go test -v --run TestGetOrLoadWaiterRetriesAfterFailure
func TestGetOrLoadWaiterRetriesAfterFailure(t *testing.T) {
	store := NewDatasetStore()
	started := make(chan struct{})
	release := make(chan struct{})

	firstErr := make(chan error, 1)
	go func() {
		_, _, err := store.GetOrLoad(context.Background(), "http://a", func() (*dataset.Dataset, error) {
			close(started)
			<-release
			return nil, errors.New("boom")
		})
		firstErr <- err
	}()
	<-started

	secondDone := make(chan *dataset.Dataset, 1)
	go func() {
		ds, _, _ := store.GetOrLoad(context.Background(), "http://a", func() (*dataset.Dataset, error) {
			return testDataset("http://a", 4), nil
		})
		secondDone <- ds
	}()

	close(release)
	require.Error(t, <-firstErr)
	ds := <-secondDone
	require.NotNil(t, ds)
	require.Equal(t, 4, ds.Len())
}

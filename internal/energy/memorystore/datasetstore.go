package memorystore

import (
	"context"
	"slices"
	"sync"
	"time"

	"energydash/internal/energy/dataset"
)

// LoadFunc produces the Dataset for a URL on a cache miss.
type LoadFunc func() (*dataset.Dataset, error)

// MemoryDatasetStore caches one Dataset per source URL for the process lifetime.
// Entries are never evicted and failed loads are not cached.
type MemoryDatasetStore struct {
	globalMu sync.RWMutex
	data     map[string]*urlDatasetStore
}

// urlDatasetStore tracks one URL. loading is non-nil while a fetch is in flight and is
// closed when it finishes, successfully or not.
type urlDatasetStore struct {
	mu        sync.Mutex
	dataset   *dataset.Dataset
	fetchedAt time.Time
	loading   chan struct{}
}

func NewDatasetStore() *MemoryDatasetStore {
	return &MemoryDatasetStore{
		data: make(map[string]*urlDatasetStore),
	}
}

func (s *MemoryDatasetStore) entry(url string) *urlDatasetStore {
	// Fast path: entry already exists
	s.globalMu.RLock()
	store, ok := s.data[url]
	s.globalMu.RUnlock()
	if ok {
		return store
	}

	s.globalMu.Lock()
	defer s.globalMu.Unlock()
	if store, ok = s.data[url]; !ok {
		store = &urlDatasetStore{}
		s.data[url] = store
	}
	return store
}

// GetOrLoad returns the cached Dataset for url, or runs load and caches its result.
// Concurrent callers for the same url wait for the in-flight load instead of starting another;
// a waiter gives up with ctx.Err() when its own ctx is done. hit reports whether the result
// came from the cache.
func (s *MemoryDatasetStore) GetOrLoad(ctx context.Context, url string, load LoadFunc) (ds *dataset.Dataset, hit bool, err error) {
	store := s.entry(url)

	for {
		store.mu.Lock()
		if store.dataset != nil {
			ds = store.dataset
			store.mu.Unlock()
			return ds, true, nil
		}
		if store.loading == nil {
			done := make(chan struct{})
			store.loading = done
			store.mu.Unlock()
			return store.run(done, load)
		}
		wait := store.loading
		store.mu.Unlock()

		select {
		case <-wait:
			// Either cached now or failed; a failure is retried by this caller.
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
}

func (store *urlDatasetStore) run(done chan struct{}, load LoadFunc) (ds *dataset.Dataset, hit bool, err error) {
	defer func() {
		store.mu.Lock()
		store.loading = nil
		if err == nil && ds != nil {
			store.dataset = ds
			store.fetchedAt = ds.FetchedAt()
		}
		store.mu.Unlock()
		close(done)
	}()

	ds, err = load()
	if err != nil {
		return nil, false, err
	}
	return ds, false, nil
}

// Get returns the cached Dataset for url without loading.
func (s *MemoryDatasetStore) Get(url string) (*dataset.Dataset, bool) {
	s.globalMu.RLock()
	store, ok := s.data[url]
	s.globalMu.RUnlock()
	if !ok {
		return nil, false
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	return store.dataset, store.dataset != nil
}

// Entry describes one cached Dataset.
type Entry struct {
	URL       string    `json:"url"`
	FetchedAt time.Time `json:"fetchedAt"`
	Records   int       `json:"records"`
}

// GetAll lists the loaded entries ordered by URL. URLs with a load in flight are skipped.
func (s *MemoryDatasetStore) GetAll() []Entry {
	s.globalMu.RLock()
	stores := make(map[string]*urlDatasetStore, len(s.data))
	for url, store := range s.data {
		stores[url] = store
	}
	s.globalMu.RUnlock()

	entries := make([]Entry, 0, len(stores))
	for url, store := range stores {
		store.mu.Lock()
		if store.dataset != nil {
			entries = append(entries, Entry{
				URL:       url,
				FetchedAt: store.fetchedAt,
				Records:   store.dataset.Len(),
			})
		}
		store.mu.Unlock()
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		switch {
		case a.URL < b.URL:
			return -1
		case a.URL > b.URL:
			return 1
		}
		return 0
	})
	return entries
}

// CountAll returns the total number of records held across all cached Datasets.
func (s *MemoryDatasetStore) CountAll() int {
	total := 0
	for _, e := range s.GetAll() {
		total += e.Records
	}
	return total
}

package colloc

import (
	"context"
	"fmt"
	"sync"
)

// Fetcher loads a JSON document by path. *httpx.Client satisfies it.
type Fetcher interface {
	FetchJSON(ctx context.Context, path string, v any) error
}

const indexPath = "assets/data/collocations_index.json"

// IndexEntry is one indexed collocation.
type IndexEntry struct {
	Lesson string `json:"lesson"`
	ID     string `json:"id"`
	EN     string `json:"en"`
	FA     string `json:"fa,omitempty"`
}

// Index is the cross-lesson collocation index. Collocation ids repeat
// across lessons, so lookups prefer the (lesson, id) pair and fall back
// to the first id-only hit.
type Index struct {
	fetcher Fetcher

	mu      sync.Mutex
	entries []IndexEntry
	loaded  bool
}

// NewIndex returns an index backed by f, loaded lazily.
func NewIndex(f Fetcher) *Index {
	return &Index{fetcher: f}
}

func (ix *Index) load(ctx context.Context) ([]IndexEntry, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.loaded {
		return ix.entries, nil
	}
	var raw struct {
		Entries []IndexEntry `json:"entries"`
	}
	if err := ix.fetcher.FetchJSON(ctx, indexPath, &raw); err != nil {
		return nil, fmt.Errorf("load collocation index: %w", err)
	}
	ix.entries = raw.Entries
	ix.loaded = true
	return ix.entries, nil
}

// Find resolves a collocation. With a lesson id, an exact (lesson, id)
// match wins; otherwise the first entry with the id is returned. A nil
// result means the id is not indexed.
func (ix *Index) Find(ctx context.Context, lesson, id string) (*IndexEntry, error) {
	entries, err := ix.load(ctx)
	if err != nil {
		return nil, err
	}
	var fallback *IndexEntry
	for i := range entries {
		e := &entries[i]
		if e.ID != id {
			continue
		}
		if lesson == "" || e.Lesson == lesson {
			return e, nil
		}
		if fallback == nil {
			fallback = e
		}
	}
	return fallback, nil
}

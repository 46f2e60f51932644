package pollen

import (
	"context"
	"sync"
)

// FakeFetcher returns scripted results.
type FakeFetcher struct {
	mu    sync.Mutex
	calls int

	// Results are returned in order; the last one repeats.
	Results []Result

	// Gate, if set, makes Fetch wait for a value before returning.
	Gate chan struct{}
}

// NewFakeFetcher creates a FakeFetcher that always returns c.
func NewFakeFetcher(c Category) *FakeFetcher {
	return &FakeFetcher{Results: []Result{{Category: c}}}
}

// Fetch returns the next scripted result.
func (f *FakeFetcher) Fetch(ctx context.Context) (Category, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.mu.Unlock()

	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return Unknown, ctx.Err()
		}
	}

	if len(f.Results) == 0 {
		return Unknown, nil
	}
	if i >= len(f.Results) {
		i = len(f.Results) - 1
	}
	r := f.Results[i]
	return r.Category, r.Err
}

// Calls returns how many times Fetch was called.
func (f *FakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

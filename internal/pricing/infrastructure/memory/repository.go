package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	pricing "wisewatt-cloud/internal/pricing/domain"
)

// PriceRepository is an in-memory price table for tests and local runs.
// Inserts are idempotent per timestamp, matching the Postgres behaviour.
type PriceRepository struct {
	mu          sync.RWMutex
	byTimestamp map[time.Time]pricing.PriceEntry
}

// NewPriceRepository constructs an empty repository.
func NewPriceRepository() *PriceRepository {
	return &PriceRepository{byTimestamp: make(map[time.Time]pricing.PriceEntry)}
}

// GetAllPrices returns all entries ordered by timestamp.
func (r *PriceRepository) GetAllPrices(_ context.Context) ([]pricing.PriceEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]pricing.PriceEntry, 0, len(r.byTimestamp))
	for _, entry := range r.byTimestamp {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp.Before(result[j].Timestamp) })
	return result, nil
}

// InsertPrices appends entries, skipping timestamps already present.
func (r *PriceRepository) InsertPrices(_ context.Context, entries []pricing.PriceEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range entries {
		key := entry.Timestamp.UTC()
		if _, exists := r.byTimestamp[key]; exists {
			continue
		}
		entry.Timestamp = key
		r.byTimestamp[key] = entry
	}
	return nil
}

package pricing

import (
	"context"
	"time"
)

// PriceEntry is one hourly electricity price record. Identity is the
// timestamp; entries are append-only and never updated once stored.
type PriceEntry struct {
	Timestamp          time.Time
	PricePerKwh        float64
	TransportAndDuties float64
	TotalPrice         float64
}

// Repository manages price persistence. Insert must be idempotent per
// timestamp so that racing ingestions cannot create duplicate rows.
type Repository interface {
	GetAllPrices(ctx context.Context) ([]PriceEntry, error)
	InsertPrices(ctx context.Context, entries []PriceEntry) error
}

// Feed fetches raw price entries from the external exporter for a date span.
type Feed interface {
	FetchPrices(ctx context.Context, from, to time.Time) ([]PriceEntry, error)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pricing "wisewatt-cloud/internal/pricing/domain"
)

const defaultPricesTable = "electricity_prices"

// DBTX is the subset of database/sql used by repositories, satisfied by
// *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PriceRepository is a Postgres implementation of the price table.
type PriceRepository struct {
	db    DBTX
	table string
}

// NewPriceRepository constructs a repository.
func NewPriceRepository(db DBTX, opts ...PriceOption) *PriceRepository {
	repo := &PriceRepository{db: db, table: defaultPricesTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// PriceOption configures the repository.
type PriceOption func(*PriceRepository)

// WithPricesTable overrides the default table name.
func WithPricesTable(table string) PriceOption {
	return func(repo *PriceRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// GetAllPrices loads the full price table ordered by timestamp.
func (r *PriceRepository) GetAllPrices(ctx context.Context) ([]pricing.PriceEntry, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("price repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT ts, price_per_kwh, transport_and_duties, total_price
FROM %s
ORDER BY ts ASC`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []pricing.PriceEntry
	for rows.Next() {
		var entry pricing.PriceEntry
		if err := rows.Scan(&entry.Timestamp, &entry.PricePerKwh, &entry.TransportAndDuties, &entry.TotalPrice); err != nil {
			return nil, err
		}
		entry.Timestamp = entry.Timestamp.UTC()
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// InsertPrices appends entries. The timestamp is the primary key and the
// insert skips conflicting rows, so racing ingestions of overlapping spans
// stay duplicate-free without caller-side locking.
func (r *PriceRepository) InsertPrices(ctx context.Context, entries []pricing.PriceEntry) error {
	if r == nil || r.db == nil {
		return errors.New("price repo: nil db")
	}
	if len(entries) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
INSERT INTO %s (ts, price_per_kwh, transport_and_duties, total_price)
VALUES ($1, $2, $3, $4)
ON CONFLICT (ts) DO NOTHING`, r.table)

	for _, entry := range entries {
		if _, err := r.db.ExecContext(ctx, query,
			entry.Timestamp.UTC(), entry.PricePerKwh, entry.TransportAndDuties, entry.TotalPrice); err != nil {
			return err
		}
	}
	return nil
}

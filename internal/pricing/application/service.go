package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"wisewatt-cloud/internal/observability/metrics"
	pricing "wisewatt-cloud/internal/pricing/domain"
)

// Clock supplies the current wall time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses the process clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Service serves the hourly price table, refreshing it from the external
// feed when the stored data no longer covers at least one day into the
// future. Ingestion is serialized: concurrent callers share one refresh.
type Service struct {
	repo         pricing.Repository
	feed         pricing.Feed
	clock        Clock
	logger       *log.Logger
	daysBackward int
	daysForward  int

	refreshMu sync.Mutex
}

// Option configures the service.
type Option func(*Service)

// WithFetchWindow overrides how far back and forward the feed request spans.
func WithFetchWindow(backward, forward int) Option {
	return func(s *Service) {
		if backward > 0 {
			s.daysBackward = backward
		}
		if forward > 0 {
			s.daysForward = forward
		}
	}
}

// WithClock overrides the clock.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService constructs a price service.
func NewService(repo pricing.Repository, feed pricing.Feed, logger *log.Logger, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("price service: nil repository")
	}
	if feed == nil {
		return nil, errors.New("price service: nil feed")
	}
	if logger == nil {
		logger = log.Default()
	}
	service := &Service{
		repo:         repo,
		feed:         feed,
		clock:        SystemClock{},
		logger:       logger,
		daysBackward: 4,
		daysForward:  4,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Prices returns the stored price table, refreshing from the feed first when
// the table is empty or no longer reaches into tomorrow. A failed refresh is
// propagated; stale data is never served silently in its place.
func (s *Service) Prices(ctx context.Context) ([]pricing.PriceEntry, error) {
	stored, err := s.repo.GetAllPrices(ctx)
	if err != nil {
		return nil, err
	}
	if !s.needsRefresh(stored) {
		return stored, nil
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetAllPrices(ctx)
}

// needsRefresh reports whether stored coverage fails to reach the start of
// tomorrow.
func (s *Service) needsRefresh(stored []pricing.PriceEntry) bool {
	if len(stored) == 0 {
		return true
	}
	now := s.clock.Now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	for _, entry := range stored {
		if !entry.Timestamp.Before(tomorrow) {
			return false
		}
	}
	return true
}

func (s *Service) refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// A concurrent caller may have refreshed while we waited for the lock.
	stored, err := s.repo.GetAllPrices(ctx)
	if err != nil {
		return err
	}
	if !s.needsRefresh(stored) {
		return nil
	}

	started := time.Now()
	now := s.clock.Now()
	from := now.AddDate(0, 0, -s.daysBackward)
	to := now.AddDate(0, 0, s.daysForward)

	fetched, err := s.feed.FetchPrices(ctx, from, to)
	if err != nil {
		if errors.Is(err, pricing.ErrMalformedFeed) {
			metrics.IncFeedParseFailure()
		}
		metrics.ObservePriceRefresh("error", time.Since(started))
		return fmt.Errorf("price service: refresh: %w", err)
	}

	existing := make(map[time.Time]struct{}, len(stored))
	for _, entry := range stored {
		existing[entry.Timestamp.UTC()] = struct{}{}
	}

	fresh := make([]pricing.PriceEntry, 0, len(fetched))
	for _, entry := range fetched {
		if _, seen := existing[entry.Timestamp.UTC()]; seen {
			continue
		}
		fresh = append(fresh, entry)
	}

	if len(fresh) > 0 {
		if err := s.repo.InsertPrices(ctx, fresh); err != nil {
			metrics.ObservePriceRefresh("error", time.Since(started))
			return fmt.Errorf("price service: store: %w", err)
		}
	}

	metrics.ObservePriceRefresh("success", time.Since(started))
	s.logger.Printf("price refresh: fetched=%d inserted=%d span=%s..%s",
		len(fetched), len(fresh), from.Format("2006-01-02"), to.Format("2006-01-02"))
	return nil
}

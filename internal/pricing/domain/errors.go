package pricing

import "errors"

var (
	// ErrMalformedFeed is returned when a feed line cannot be parsed; the
	// whole ingestion attempt is aborted, never partially applied.
	ErrMalformedFeed = errors.New("pricing: malformed feed data")
	// ErrFeedUnavailable is returned when the feed cannot be reached or
	// responds with a non-success status.
	ErrFeedUnavailable = errors.New("pricing: feed unavailable")
	// ErrPriceNotFound is returned in strict mode when no entry covers a
	// requested hour.
	ErrPriceNotFound = errors.New("pricing: no price for hour")
)

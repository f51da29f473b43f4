package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pricing "wisewatt-cloud/internal/pricing/domain"
)

const (
	// Feed timestamps look like "05.03.2024 - 14:00".
	timestampLayout = "02.01.2006 - 15:04"
	dateParamLayout = "2006-01-02"

	defaultTimeout = 10 * time.Second
)

// Client fetches the hourly price CSV export from the supplier. The region
// and tariff parameters are opaque pass-throughs taken from configuration.
type Client struct {
	baseURL string
	region  string
	tariff  string
	client  *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

// WithTimeout overrides the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// NewClient constructs a feed client.
func NewClient(baseURL, region, tariff string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("feed client: empty base url")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("feed client: base url: %w", err)
	}
	client := &Client{
		baseURL: baseURL,
		region:  region,
		tariff:  tariff,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FetchPrices downloads and parses the CSV export for the given date span.
// Unreachable feed or non-success status maps to ErrFeedUnavailable; any
// garbled line fails the whole batch with ErrMalformedFeed.
func (c *Client) FetchPrices(ctx context.Context, from, to time.Time) ([]pricing.PriceEntry, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.exportURL(from, to), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pricing.ErrFeedUnavailable, err)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pricing.ErrFeedUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", pricing.ErrFeedUnavailable, response.StatusCode)
	}

	var entries []pricing.PriceEntry
	scanner := bufio.NewScanner(response.Body)
	header := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if header {
			header = false
			continue
		}
		if line == "" {
			continue
		}
		entry, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", pricing.ErrFeedUnavailable, err)
	}
	return entries, nil
}

func (c *Client) exportURL(from, to time.Time) string {
	params := url.Values{}
	params.Set("obexport_format", "csv")
	params.Set("obexport_start", from.Format(dateParamLayout))
	params.Set("obexport_end", to.Format(dateParamLayout))
	if c.region != "" {
		params.Set("obexport_region", c.region)
	}
	if c.tariff != "" {
		params.Set("obexport_tariff", c.tariff)
	}
	separator := "?"
	if strings.Contains(c.baseURL, "?") {
		separator = "&"
	}
	return c.baseURL + separator + params.Encode()
}

// parseLine splits one data row of the export. Every row must carry exactly
// four quoted fields: timestamp, price per kWh, transport and duties, and
// total price. The numeric fields use a decimal comma.
func parseLine(line string) (pricing.PriceEntry, error) {
	fields, err := splitQuoted(line)
	if err != nil {
		return pricing.PriceEntry{}, err
	}

	timestamp, err := time.Parse(timestampLayout, fields[0])
	if err != nil {
		return pricing.PriceEntry{}, fmt.Errorf("%w: timestamp %q", pricing.ErrMalformedFeed, fields[0])
	}

	values := make([]float64, 3)
	for i, raw := range fields[1:] {
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return pricing.PriceEntry{}, fmt.Errorf("%w: number %q", pricing.ErrMalformedFeed, raw)
		}
		values[i] = parsed
	}

	return pricing.PriceEntry{
		Timestamp:          timestamp,
		PricePerKwh:        values[0],
		TransportAndDuties: values[1],
		TotalPrice:         values[2],
	}, nil
}

func splitQuoted(line string) ([]string, error) {
	if !strings.HasPrefix(line, `"`) || !strings.HasSuffix(line, `"`) {
		return nil, fmt.Errorf("%w: line %q", pricing.ErrMalformedFeed, line)
	}
	fields := strings.Split(strings.TrimSuffix(strings.TrimPrefix(line, `"`), `"`), `","`)
	if len(fields) != 4 {
		return nil, fmt.Errorf("%w: expected 4 fields, got %d", pricing.ErrMalformedFeed, len(fields))
	}
	for _, field := range fields {
		if strings.Contains(field, `"`) {
			return nil, fmt.Errorf("%w: line %q", pricing.ErrMalformedFeed, line)
		}
	}
	return fields, nil
}

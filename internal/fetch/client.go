// Package fetch obtains remote inputs for the pipeline: the reference CPI
// index and URL-hosted salary tables. All fetches are synchronous, blocking
// calls with a fixed timeout and no retries; failures degrade, they never
// crash the pipeline. A time-bounded cache avoids redundant network calls
// across re-runs.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"sueldoreal/internal/dataprocessing"
	"sueldoreal/pkg/contracts/domain"
)

// DefaultReferenceURL is the FRED download endpoint for the US CPI series
// used to fill a missing cpi_us column.
const DefaultReferenceURL = "https://fred.stlouisfed.org/series/CPIAUCSL/downloaddata/CPIAUCSL.csv"

// Reference-source column names, renamed to fecha/cpi_us internally.
const (
	refColDate  = "DATE"
	refColValue = "CPIAUCSL"
)

// FetchError is recoverable: a remote source could not be read, so the
// derived series that depend on it degrade to unavailable while the rest of
// the pipeline continues.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Options configures a Client.
type Options struct {
	ReferenceURL string
	Timeout      time.Duration
	ReferenceTTL time.Duration
	TableTTL     time.Duration
	MaxBodySize  int64
}

// DefaultOptions returns the production defaults: 30s timeout, 24h reference
// TTL, 1h table TTL, 16 MiB body cap.
func DefaultOptions() Options {
	return Options{
		ReferenceURL: DefaultReferenceURL,
		Timeout:      30 * time.Second,
		ReferenceTTL: 24 * time.Hour,
		TableTTL:     time.Hour,
		MaxBodySize:  16 << 20,
	}
}

// Client fetches remote CSV sources through a shared snapshot cache.
// Concurrent fetches of the same URL are collapsed into a single request.
type Client struct {
	http   *http.Client
	cache  *Cache
	group  singleflight.Group
	opts   Options
	logger *slog.Logger
}

// NewClient creates a fetch client. Zero option fields take their defaults;
// a nil cache gets a fresh one on the system clock.
func NewClient(opts Options, cache *Cache, logger *slog.Logger) *Client {
	def := DefaultOptions()
	if opts.ReferenceURL == "" {
		opts.ReferenceURL = def.ReferenceURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.ReferenceTTL <= 0 {
		opts.ReferenceTTL = def.ReferenceTTL
	}
	if opts.TableTTL <= 0 {
		opts.TableTTL = def.TableTTL
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = def.MaxBodySize
	}
	if cache == nil {
		cache = NewCache(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:   &http.Client{Timeout: opts.Timeout},
		cache:  cache,
		opts:   opts,
		logger: logger.With(slog.String("component", "fetch_client")),
	}
}

// FetchReferenceIndex downloads and parses the reference CPI series. Served
// from the cache when a snapshot younger than the reference TTL exists.
// Months are normalized and rows without a numeric value are dropped.
func (c *Client) FetchReferenceIndex(ctx context.Context) (*domain.ReferenceIndex, error) {
	body, err := c.get(ctx, c.opts.ReferenceURL, c.opts.ReferenceTTL, "reference index")
	if err != nil {
		return nil, err
	}

	raw, err := dataprocessing.ParseCSV(bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Source: "reference index", Err: err}
	}
	dateIdx := raw.ColumnIndex(refColDate)
	valueIdx := raw.ColumnIndex(refColValue)
	if dateIdx < 0 || valueIdx < 0 {
		return nil, &FetchError{
			Source: "reference index",
			Err:    fmt.Errorf("unexpected columns, want %s and %s", refColDate, refColValue),
		}
	}

	index := &domain.ReferenceIndex{}
	for i := range raw.Rows {
		month, ok := dataprocessing.NormalizeMonth(raw.Cell(i, dateIdx))
		if !ok {
			continue
		}
		level := dataprocessing.ParseNumber(raw.Cell(i, valueIdx))
		if level == nil {
			continue
		}
		index.Points = append(index.Points, domain.ReferencePoint{Month: month, CPIForeign: *level})
	}

	c.logger.InfoContext(ctx, "reference index loaded",
		slog.Int("points", len(index.Points)))

	return index, nil
}

// FetchTable downloads a remote salary table as raw CSV bytes. Served from
// the cache when a snapshot younger than the table TTL exists.
func (c *Client) FetchTable(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url, c.opts.TableTTL, "remote table")
}

func (c *Client) get(ctx context.Context, url string, ttl time.Duration, source string) ([]byte, error) {
	if data, ok := c.cache.Get(url, ttl); ok {
		c.logger.DebugContext(ctx, "cache hit", slog.String("source", source))
		return data, nil
	}

	// The download is shared by every collapsed caller and feeds the cache,
	// so it must not die with whichever request happened to start it. The
	// client's own timeout still bounds it.
	v, err, _ := c.group.Do(url, func() (interface{}, error) {
		return c.download(context.WithoutCancel(ctx), url, source)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Client) download(ctx context.Context, url, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Source: source, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBodySize))
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}

	c.cache.Put(url, data)
	c.logger.InfoContext(ctx, "remote source fetched",
		slog.String("source", source),
		slog.Int("bytes", len(data)))

	return data, nil
}

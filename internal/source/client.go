// Package source provides the HTTP client for the remote spreadsheet-backed
// journal API: a read path returning the full row set and a fire-and-forget
// write path appending one row.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/openscholar/journal-catalog-service/internal/domain"
)

const sourceName = "journal-sheet"

// DefaultTimeout bounds the wait on any single call to the remote source.
const DefaultTimeout = 10 * time.Second

// Config holds remote source settings.
type Config struct {
	// URL is the endpoint serving the journal rows.
	URL string
	// Timeout is the bounded wait per call; DefaultTimeout when zero.
	Timeout time.Duration
	// RateLimit is the maximum requests per second; unlimited when zero.
	RateLimit float64
}

// Client talks to the remote data source.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// appendRequest is the write-path envelope: the source appends every row in
// data to its sheet.
type appendRequest struct {
	Data []domain.RawRow `json:"data"`
}

// NewClient creates a remote source client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		url:     cfg.URL,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With().Str("component", "source-client").Logger(),
	}
}

// FetchAll retrieves the full raw row set from the remote source. Each call
// is cache-busted with a timestamp query parameter so intermediaries cannot
// serve a stale sheet.
func (c *Client) FetchAll(ctx context.Context) ([]domain.RawRow, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("parse source URL: %w", err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewExternalAPIError(sourceName, 0, "fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewExternalAPIError(sourceName, resp.StatusCode, "unexpected status", nil)
	}

	var rows []domain.RawRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, domain.NewExternalAPIError(sourceName, resp.StatusCode, "decode response", err)
	}

	c.logger.Debug().
		Int("rows", len(rows)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched rows from remote source")

	return rows, nil
}

// Append sends one new row to the remote source. The write path is
// fire-and-forget: the endpoint only answers opaquely, so success is
// inferred purely from the absence of a transport-level error or timeout.
func (c *Client) Append(ctx context.Context, row domain.RawRow) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(appendRequest{Data: []domain.RawRow{row}})
	if err != nil {
		return fmt.Errorf("encode append request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build append request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewExternalAPIError(sourceName, 0, "append failed", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug().Int("status", resp.StatusCode).Msg("append delivered")
	return nil
}

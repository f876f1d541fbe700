// Package feed downloads a GeoJSON earthquake feed and turns it into labeled
// points for the nearest-events pipeline.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
)

// DefaultURL is the USGS summary feed of every event in the last 30 days.
const DefaultURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_month.geojson"

// ErrUnexpectedStatus is returned when the feed answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected feed status")

// Config controls how the feed is fetched.
type Config struct {
	URL            string
	UserAgent      string
	Timeout        time.Duration
	RequestsPerSec float64
	CacheTTL       time.Duration
}

// Client fetches the feed. It is safe for concurrent use.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *gocache.Cache
	logger     *slog.Logger
}

// NewClient creates a feed client, filling in defaults for zero config values.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		url:        cfg.URL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		logger:     logger,
	}
	// a ttl <= 0 disables caching
	if cfg.CacheTTL > 0 {
		c.cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

// Fetch downloads the feed and returns its point events. A failed download is
// returned as an error; there is no retry.
func (c *Client) Fetch(ctx context.Context) ([]geo.LabeledPoint, error) {
	if points, found := c.cached(); found {
		c.logger.Debug("feed served from cache", "url", c.url, "points", len(points))
		return points, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for feed rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not download feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	fc, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}

	points, skipped := fc.Points()
	c.logger.Info("feed downloaded",
		"url", c.url,
		"features", len(fc.Features),
		"points", len(points),
		"skipped_non_point", skipped.NotPoint,
		"skipped_bad_position", skipped.BadPosition,
		"took", time.Since(start),
	)

	if c.cache != nil {
		c.cache.SetDefault(c.url, points)
	}
	return points, nil
}

func (c *Client) cached() ([]geo.LabeledPoint, bool) {
	if c.cache == nil {
		return nil, false
	}
	v, found := c.cache.Get(c.url)
	if !found {
		return nil, false
	}
	points, ok := v.([]geo.LabeledPoint)
	return points, ok
}

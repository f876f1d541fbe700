// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/thomhuang/EarthquakesByDistance/internal/dedupe"
	"github.com/thomhuang/EarthquakesByDistance/internal/distance"
	"github.com/thomhuang/EarthquakesByDistance/internal/feed"
	"github.com/thomhuang/EarthquakesByDistance/internal/nearest"
)

// Config is everything the CLI and the server need to run.
type Config struct {
	Feed feed.Config

	TopK           int
	EarthRadiusKm  float64
	DistanceMethod string
	Dedupe         dedupe.Tolerance
	Workers        int

	LogLevel slog.Level
	LogFile  string

	HTTPAddr string
}

// LoadEnv loads a .env file from the working directory if there is one.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, assuming environment variables are set directly")
	}
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// LoadFile reads the configuration from the given env file. Variables already
// set in the process environment take precedence over the file.
func LoadFile(path string) (Config, error) {
	fileEnv, err := godotenv.Read(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read env file %s: %w", path, err)
	}
	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	})
}

// FromLookup builds a Config using lookup to resolve variables.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	r := reader{lookup: lookup}

	cfg := Config{
		Feed: feed.Config{
			URL:            r.getString("FEED_URL", feed.DefaultURL),
			UserAgent:      r.getString("USER_AGENT", "EarthquakesByDistance/1.0"),
			Timeout:        r.getDuration("FEED_TIMEOUT", 15*time.Second),
			RequestsPerSec: r.getFloat("FEED_REQUESTS_PER_SEC", 1),
			CacheTTL:       r.getDuration("FEED_CACHE_TTL", 0),
		},
		TopK:           r.getInt("TOP_K", nearest.DefaultK),
		EarthRadiusKm:  r.getFloat("EARTH_RADIUS_KM", distance.EarthRadiusKm),
		DistanceMethod: r.getString("DISTANCE_METHOD", distance.MethodHaversine),
		Dedupe: dedupe.Tolerance{
			Mode:     dedupe.Mode(r.getString("DEDUPE_MODE", string(dedupe.ModeExact))),
			Epsilon:  r.getFloat("DEDUPE_EPSILON", 0),
			Decimals: r.getInt("DEDUPE_DECIMALS", 0),
		},
		Workers:  r.getInt("WORKERS", runtime.NumCPU()),
		LogFile:  r.getString("LOG_FILE", ""),
		HTTPAddr: r.getString("HTTP_ADDR", ":8080"),
	}

	if level, ok := lookup("LOG_LEVEL"); ok && level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			r.errs = append(r.errs, fmt.Errorf("LOG_LEVEL: %w", err))
		}
	}

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that parsed but make no sense.
func (c Config) Validate() error {
	var errs []error
	if c.TopK < 0 {
		errs = append(errs, fmt.Errorf("TOP_K must not be negative, got %d", c.TopK))
	}
	if _, err := distance.New(c.DistanceMethod, c.EarthRadiusKm); err != nil {
		errs = append(errs, err)
	}
	if err := c.Dedupe.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Feed.Timeout < 0 {
		errs = append(errs, fmt.Errorf("FEED_TIMEOUT must not be negative, got %s", c.Feed.Timeout))
	}
	return errors.Join(errs...)
}

// Pipeline builds the nearest-events pipeline described by the config.
func (c Config) Pipeline() (*nearest.Pipeline, error) {
	calc, err := distance.New(c.DistanceMethod, c.EarthRadiusKm)
	if err != nil {
		return nil, err
	}
	dd, err := dedupe.New(c.Dedupe)
	if err != nil {
		return nil, err
	}
	return nearest.New(
		nearest.WithK(c.TopK),
		nearest.WithCalculator(calc),
		nearest.WithDeduplicator(dd),
		nearest.WithWorkers(c.Workers),
	), nil
}

// reader collects parse errors so every bad variable is reported at once.
type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) getString(key, def string) string {
	if v, ok := r.lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (r *reader) getInt(key string, def int) int {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r *reader) getFloat(key string, def float64) float64 {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (r *reader) getDuration(key string, def time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomhuang/EarthquakesByDistance/internal/dedupe"
	"github.com/thomhuang/EarthquakesByDistance/internal/distance"
	"github.com/thomhuang/EarthquakesByDistance/internal/feed"
	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, feed.DefaultURL, cfg.Feed.URL)
	assert.Equal(t, 15*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Feed.CacheTTL)
	assert.Equal(t, 10, cfg.TopK)
	assert.Equal(t, distance.EarthRadiusKm, cfg.EarthRadiusKm)
	assert.Equal(t, distance.MethodHaversine, cfg.DistanceMethod)
	assert.Equal(t, dedupe.ModeExact, cfg.Dedupe.Mode)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Positive(t, cfg.Workers)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"FEED_URL":        "http://localhost:9999/feed.geojson",
		"FEED_TIMEOUT":    "3s",
		"FEED_CACHE_TTL":  "2m",
		"TOP_K":           "5",
		"EARTH_RADIUS_KM": "6378.137",
		"DISTANCE_METHOD": "s2",
		"DEDUPE_MODE":     "round",
		"DEDUPE_DECIMALS": "3",
		"WORKERS":         "2",
		"LOG_LEVEL":       "debug",
		"LOG_FILE":        "quakes.log",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/feed.geojson", cfg.Feed.URL)
	assert.Equal(t, 3*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.Feed.CacheTTL)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 6378.137, cfg.EarthRadiusKm)
	assert.Equal(t, distance.MethodS2, cfg.DistanceMethod)
	assert.Equal(t, dedupe.Tolerance{Mode: dedupe.ModeRound, Decimals: 3}, cfg.Dedupe)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "quakes.log", cfg.LogFile)
}

func TestFromLookup_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric k", map[string]string{"TOP_K": "ten"}},
		{"negative k", map[string]string{"TOP_K": "-1"}},
		{"bad duration", map[string]string{"FEED_TIMEOUT": "soon"}},
		{"bad radius", map[string]string{"EARTH_RADIUS_KM": "0"}},
		{"unknown method", map[string]string{"DISTANCE_METHOD": "taxicab"}},
		{"epsilon without value", map[string]string{"DEDUPE_MODE": "epsilon"}},
		{"unknown log level", map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tc.env))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TOP_K=3\nDEDUPE_MODE=epsilon\nDEDUPE_EPSILON=0.001\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, dedupe.Tolerance{Mode: dedupe.ModeEpsilon, Epsilon: 0.001}, cfg.Dedupe)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestConfigPipeline(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"TOP_K": "1"}))
	require.NoError(t, err)

	p, err := cfg.Pipeline()
	require.NoError(t, err)

	got := p.Run([]geo.LabeledPoint{
		{Point: geo.GeoPoint{Lon: 5, Lat: 5}, Label: "far"},
		{Point: geo.GeoPoint{Lon: 1, Lat: 1}, Label: "near"},
	}, geo.GeoPoint{})
	require.Len(t, got, 1)
	assert.Equal(t, "near", got[0].Label)
}

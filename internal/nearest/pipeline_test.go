package nearest

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomhuang/EarthquakesByDistance/internal/dedupe"
	"github.com/thomhuang/EarthquakesByDistance/internal/distance"
	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
)

func lp(lon, lat float64, label string) geo.LabeledPoint {
	return geo.LabeledPoint{Point: geo.GeoPoint{Lon: lon, Lat: lat}, Label: label}
}

func randomFeed(n int, seed int64) []geo.LabeledPoint {
	rng := rand.New(rand.NewSource(seed))
	points := make([]geo.LabeledPoint, 0, n)
	for i := 0; i < n; i++ {
		// coarse grid so the feed carries duplicates
		lon := float64(rng.Intn(3600))/10 - 180
		lat := float64(rng.Intn(1800))/10 - 90
		points = append(points, lp(lon, lat, fmt.Sprintf("M %.1f - event %d", rng.Float64()*6, i)))
	}
	return points
}

func TestPipeline_Run(t *testing.T) {
	t.Run("duplicate origin collapses and B is about 111 km away", func(t *testing.T) {
		raw := []geo.LabeledPoint{lp(0, 0, "A"), lp(0, 0, "A-dup"), lp(1, 0, "B")}

		got := New().Run(raw, geo.GeoPoint{})

		require.Len(t, got, 2)
		assert.Contains(t, []string{"A", "A-dup"}, got[0].Label)
		assert.Zero(t, got[0].DistanceKm)
		assert.Equal(t, "B", got[1].Label)
		assert.EqualValues(t, 111, got[1].RoundedKm())
	})

	t.Run("point at the reference ranks first", func(t *testing.T) {
		newYork := geo.GeoPoint{Lon: -73.935242, Lat: 40.730610}
		raw := append(randomFeed(500, 3), lp(newYork.Lon, newYork.Lat, "Here"))

		got := New().Run(raw, newYork)

		require.NotEmpty(t, got)
		assert.Equal(t, "Here", got[0].Label)
		assert.Zero(t, got[0].DistanceKm)
	})

	t.Run("empty input yields empty result", func(t *testing.T) {
		got := New().Run(nil, geo.GeoPoint{Lon: 10, Lat: 10})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestPipeline_ReportsAtMostK(t *testing.T) {
	raw := randomFeed(1000, 11)

	assert.Len(t, New().Run(raw, geo.GeoPoint{}), DefaultK)
	assert.Len(t, New(WithK(3)).Run(raw, geo.GeoPoint{}), 3)
	assert.Empty(t, New(WithK(0)).Run(raw, geo.GeoPoint{}))
}

func TestPipeline_ParallelMatchesSequential(t *testing.T) {
	raw := randomFeed(3000, 5)
	ref := geo.GeoPoint{Lon: 139.69, Lat: 35.68}

	sequential := New(WithWorkers(1), WithK(50)).Run(raw, ref)
	parallel := New(WithWorkers(8), WithK(50)).Run(raw, ref)

	assert.Equal(t, sequential, parallel)
}

func TestPipeline_Idempotent(t *testing.T) {
	raw := randomFeed(2000, 9)
	ref := geo.GeoPoint{Lon: -117.5, Lat: 35.7}
	p := New()

	assert.Equal(t, p.Run(raw, ref), p.Run(raw, ref))
}

func TestPipeline_AscendingOrder(t *testing.T) {
	raw := randomFeed(2000, 21)
	got := New(WithK(200)).Run(raw, geo.GeoPoint{Lon: 12.5, Lat: 41.9})

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].DistanceKm, got[i].DistanceKm)
	}
}

func TestPipeline_Options(t *testing.T) {
	raw := []geo.LabeledPoint{lp(10.2, 20.4, "a"), lp(9.8, 19.6, "b"), lp(30, 30, "c")}

	rounding, err := dedupe.New(dedupe.Tolerance{Mode: dedupe.ModeRound, Decimals: 0})
	require.NoError(t, err)
	got := New(WithDeduplicator(rounding)).Run(raw, geo.GeoPoint{Lon: 10, Lat: 20})
	assert.Len(t, got, 2)

	unit := New(WithCalculator(distance.Haversine{RadiusKm: 1})).Run([]geo.LabeledPoint{lp(180, 0, "antipode")}, geo.GeoPoint{})
	require.Len(t, unit, 1)
	assert.InDelta(t, 3.14159, unit[0].DistanceKm, 1e-5)
}

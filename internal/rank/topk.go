// Package rank orders measured points by distance and keeps the closest ones.
package rank

import (
	"cmp"
	"slices"

	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
)

// SelectTopK returns the k entries with the smallest distance, ascending.
// Equal distances keep their input order. Fewer than k entries returns all of
// them; k <= 0 returns an empty result.
func SelectTopK(measured []geo.Measured, k int) geo.RankedResult {
	if k <= 0 || len(measured) == 0 {
		return geo.RankedResult{}
	}

	sorted := slices.Clone(measured)
	slices.SortStableFunc(sorted, func(a, b geo.Measured) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	k = min(k, len(sorted))
	result := make(geo.RankedResult, 0, k)
	for _, m := range sorted[:k] {
		result = append(result, geo.Ranked{Label: m.Label, DistanceKm: m.DistanceKm})
	}
	return result
}

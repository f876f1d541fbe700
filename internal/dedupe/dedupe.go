// Package dedupe drops points whose coordinates match a point already kept.
package dedupe

import (
	"fmt"
	"math"

	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
)

// Mode selects how two coordinates are compared.
type Mode string

const (
	// ModeExact merges points only when both components are numerically equal.
	ModeExact Mode = "exact"
	// ModeRound compares coordinates after rounding them to Decimals places.
	ModeRound Mode = "round"
	// ModeEpsilon merges points whose components each differ by at most Epsilon degrees.
	ModeEpsilon Mode = "epsilon"
)

// Tolerance is the equality rule used while deduplicating.
type Tolerance struct {
	Mode     Mode
	Epsilon  float64
	Decimals int
}

// Exact is the zero-tolerance rule.
var Exact = Tolerance{Mode: ModeExact}

// Validate checks that the parameters for the selected mode make sense.
func (t Tolerance) Validate() error {
	switch t.Mode {
	case "", ModeExact:
		return nil
	case ModeRound:
		if t.Decimals < 0 || t.Decimals > 15 {
			return fmt.Errorf("rounding decimals must be in [0, 15], got %d", t.Decimals)
		}
		return nil
	case ModeEpsilon:
		if !(t.Epsilon > 0) || math.IsInf(t.Epsilon, 0) {
			return fmt.Errorf("epsilon must be a positive finite number, got %v", t.Epsilon)
		}
		return nil
	default:
		return fmt.Errorf("unknown dedupe mode %q", t.Mode)
	}
}

// Deduplicator keeps the first label seen for every distinct coordinate.
type Deduplicator struct {
	tolerance Tolerance
}

// New returns a Deduplicator for the given tolerance.
func New(tolerance Tolerance) (*Deduplicator, error) {
	if err := tolerance.Validate(); err != nil {
		return nil, err
	}
	return &Deduplicator{tolerance: tolerance}, nil
}

// Dedupe walks points once in order and keeps a candidate only when no kept
// point matches it. The output preserves input order.
func (d *Deduplicator) Dedupe(points []geo.LabeledPoint) []geo.LabeledPoint {
	kept := make([]geo.LabeledPoint, 0, len(points))
	if len(points) == 0 {
		return kept
	}

	seen := d.newIndex()
	for _, p := range points {
		if seen.contains(p.Point) {
			continue
		}
		seen.add(p.Point)
		kept = append(kept, p)
	}
	return kept
}

func (d *Deduplicator) newIndex() index {
	switch d.tolerance.Mode {
	case ModeRound:
		scale := math.Pow(10, float64(d.tolerance.Decimals))
		return &keyIndex{
			keys: make(map[geo.GeoPoint]struct{}),
			key: func(p geo.GeoPoint) geo.GeoPoint {
				return geo.GeoPoint{
					Lon: math.Round(p.Lon*scale) / scale,
					Lat: math.Round(p.Lat*scale) / scale,
				}
			},
		}
	case ModeEpsilon:
		return newBoxIndex(d.tolerance.Epsilon)
	default:
		return &keyIndex{
			keys: make(map[geo.GeoPoint]struct{}),
			key:  func(p geo.GeoPoint) geo.GeoPoint { return p },
		}
	}
}

// index is the set of coordinates accepted so far.
type index interface {
	contains(p geo.GeoPoint) bool
	add(p geo.GeoPoint)
}

// keyIndex matches on == of a derived key. Map lookups use float ==, so 0 and
// -0 land on the same entry just like a pairwise comparison would.
type keyIndex struct {
	keys map[geo.GeoPoint]struct{}
	key  func(geo.GeoPoint) geo.GeoPoint
}

func (k *keyIndex) contains(p geo.GeoPoint) bool {
	_, ok := k.keys[k.key(p)]
	return ok
}

func (k *keyIndex) add(p geo.GeoPoint) {
	k.keys[k.key(p)] = struct{}{}
}

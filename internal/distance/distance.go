// Package distance computes great-circle distances between a point and the
// reference location.
package distance

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
	"github.com/jftuga/geodist"
	"github.com/umahmood/haversine"

	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
)

// EarthRadiusKm is the mean earth radius used by the spherical methods.
const EarthRadiusKm = 6371.0

// radius umahmood/haversine reports kilometers on
const libraryRadiusKm = 6371.0

// Method names accepted by New.
const (
	MethodHaversine = "haversine"
	MethodVincenty  = "vincenty"
	MethodS2        = "s2"
)

// Calculator returns the distance in kilometers between a and ref.
type Calculator interface {
	Distance(a, ref geo.GeoPoint) float64
}

// New returns the calculator registered under method. An empty method means haversine.
func New(method string, radiusKm float64) (Calculator, error) {
	if radiusKm <= 0 || math.IsInf(radiusKm, 0) || math.IsNaN(radiusKm) {
		return nil, fmt.Errorf("invalid sphere radius %v", radiusKm)
	}

	switch method {
	case "", MethodHaversine:
		return Haversine{RadiusKm: radiusKm}, nil
	case MethodVincenty:
		return Vincenty{Fallback: Haversine{RadiusKm: radiusKm}}, nil
	case MethodS2:
		return S2{RadiusKm: radiusKm}, nil
	default:
		return nil, fmt.Errorf("unknown distance method %q", method)
	}
}

// Haversine is the great-circle distance on a sphere of RadiusKm.
type Haversine struct {
	RadiusKm float64
}

func (h Haversine) Distance(a, ref geo.GeoPoint) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lon},
		haversine.Coord{Lat: ref.Lat, Lon: ref.Lon},
	)
	c := km / libraryRadiusKm
	// rounding can push hav a hair past 1 for antipodal points, which the library turns into NaN
	if math.IsNaN(c) && a.IsFinite() && ref.IsFinite() {
		c = math.Pi
	}
	return h.RadiusKm * c
}

// Vincenty measures on the WGS-84 ellipsoid. Vincenty's iteration does not
// converge for nearly antipodal points; those fall back to the spherical formula.
type Vincenty struct {
	Fallback Haversine
}

func (v Vincenty) Distance(a, ref geo.GeoPoint) float64 {
	_, km, err := geodist.VincentyDistance(
		geodist.Coord{Lat: a.Lat, Lon: a.Lon},
		geodist.Coord{Lat: ref.Lat, Lon: ref.Lon},
	)
	if err != nil || math.IsNaN(km) {
		return v.Fallback.Distance(a, ref)
	}
	return km
}

// S2 uses the central angle computed by the S2 geometry library.
type S2 struct {
	RadiusKm float64
}

func (s S2) Distance(a, ref geo.GeoPoint) float64 {
	angle := s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(ref.Lat, ref.Lon))
	return angle.Radians() * s.RadiusKm
}

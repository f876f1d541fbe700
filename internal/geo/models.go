// Package geo holds the value types shared by the nearest-event pipeline.
package geo

import (
	"fmt"
	"math"
)

// GeoPoint is a longitude/latitude pair in degrees.
type GeoPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// LabeledPoint pairs a point with the title of the event found there.
type LabeledPoint struct {
	Point GeoPoint
	Label string
}

// Measured is a labeled point together with its distance to the reference.
type Measured struct {
	LabeledPoint
	DistanceKm float64
}

// Ranked is one line of the final report.
type Ranked struct {
	Label      string  `json:"label"`
	DistanceKm float64 `json:"distance_km"`
}

// RankedResult is ordered ascending by DistanceKm.
type RankedResult []Ranked

// RoundedKm is the distance rounded to the nearest whole kilometer, for display only.
func (r Ranked) RoundedKm() int64 {
	return int64(math.Round(r.DistanceKm))
}

// IsFinite reports whether both components are real numbers.
func (p GeoPoint) IsFinite() bool {
	return !math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0) &&
		!math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0)
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("(%f, %f)", p.Lon, p.Lat)
}

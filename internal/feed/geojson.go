package feed

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
)

// FeatureCollection is the subset of a GeoJSON document the feed needs.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single event. ID is a string in the USGS feeds but GeoJSON
// also allows numbers.
type Feature struct {
	Type       string     `json:"type"`
	ID         any        `json:"id"`
	Properties Properties `json:"properties"`
	Geometry   *Geometry  `json:"geometry"`
}

// Properties holds the descriptive fields used for labels.
type Properties struct {
	Title string   `json:"title"`
	Place string   `json:"place"`
	Mag   *float64 `json:"mag"`
}

// Geometry keeps coordinates raw because their shape depends on Type.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Skipped counts features dropped while extracting points.
type Skipped struct {
	NotPoint    int
	BadPosition int
}

// Decode reads a FeatureCollection from r.
func Decode(r io.Reader) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("could not decode feed: %w", err)
	}
	return &fc, nil
}

// Points extracts a labeled point for every Point feature with a usable position.
func (fc *FeatureCollection) Points() ([]geo.LabeledPoint, Skipped) {
	var skipped Skipped
	points := make([]geo.LabeledPoint, 0, len(fc.Features))

	for _, f := range fc.Features {
		if f.Geometry == nil || f.Geometry.Type != "Point" {
			skipped.NotPoint++
			continue
		}

		// [lon, lat] or [lon, lat, depth]; null components decode as nil
		var position []*float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &position); err != nil ||
			len(position) < 2 || position[0] == nil || position[1] == nil {
			skipped.BadPosition++
			continue
		}
		point := geo.GeoPoint{Lon: *position[0], Lat: *position[1]}
		if !point.IsFinite() {
			skipped.BadPosition++
			continue
		}

		points = append(points, geo.LabeledPoint{Point: point, Label: f.label()})
	}
	return points, skipped
}

func (f Feature) label() string {
	if title := strings.TrimSpace(f.Properties.Title); title != "" {
		return title
	}
	if f.Properties.Place != "" {
		if f.Properties.Mag != nil {
			return fmt.Sprintf("M %.1f - %s", *f.Properties.Mag, f.Properties.Place)
		}
		return f.Properties.Place
	}
	if f.ID != nil {
		return fmt.Sprint(f.ID)
	}
	return "unknown event"
}

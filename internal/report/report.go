// Package report renders a ranked result for people and for machines.
package report

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
)

// Entry is the JSON shape of one ranked event.
type Entry struct {
	Label      string  `json:"label"`
	DistanceKm float64 `json:"distance_km"`
	RoundedKm  int64   `json:"rounded_km"`
}

// Entries converts a result into its JSON shape.
func Entries(result geo.RankedResult) []Entry {
	entries := make([]Entry, 0, len(result))
	for _, r := range result {
		entries = append(entries, Entry{Label: r.Label, DistanceKm: r.DistanceKm, RoundedKm: r.RoundedKm()})
	}
	return entries
}

// WriteText prints one "<label> || <distance>" line per event.
func WriteText(w io.Writer, result geo.RankedResult) error {
	for _, r := range result {
		if _, err := fmt.Fprintf(w, "%s || %d\n", r.Label, r.RoundedKm()); err != nil {
			return fmt.Errorf("could not write report line: %w", err)
		}
	}
	return nil
}

// WriteJSON prints the result as an indented JSON array.
func WriteJSON(w io.Writer, result geo.RankedResult) error {
	data, err := json.MarshalIndent(Entries(result), "", "  ")
	if err != nil {
		return fmt.Errorf("could not serialize report: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	return nil
}

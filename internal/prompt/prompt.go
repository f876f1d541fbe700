// Package prompt asks the user for the reference location on a terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"

	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
)

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New returns a Prompter over the given streams.
// Answers are whitespace-separated tokens, so both values may share a line.
func New(in io.Reader, out io.Writer) *Prompter {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	return &Prompter{in: scanner, out: out}
}

// Reference asks for the latitude first, then the longitude.
func (p *Prompter) Reference() (geo.GeoPoint, error) {
	lat, err := p.ask("Enter Latitude")
	if err != nil {
		return geo.GeoPoint{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := p.ask("Enter longitude")
	if err != nil {
		return geo.GeoPoint{}, fmt.Errorf("longitude: %w", err)
	}
	fmt.Fprintln(p.out, "Wait a sec ...")
	return geo.GeoPoint{Lon: lon, Lat: lat}, nil
}

func (p *Prompter) ask(question string) (float64, error) {
	fmt.Fprintln(p.out, question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return geo.ParseDegrees(p.in.Text())
}

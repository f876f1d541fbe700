// Package nearest ties deduplication, distance and ranking together into the
// nearest-events report.
package nearest

import (
	"runtime"
	"sync"

	"github.com/thomhuang/EarthquakesByDistance/internal/dedupe"
	"github.com/thomhuang/EarthquakesByDistance/internal/distance"
	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
	"github.com/thomhuang/EarthquakesByDistance/internal/rank"
)

// DefaultK is the number of events in a report.
const DefaultK = 10

// below this many points the pool costs more than it saves
const parallelThreshold = 256

// Deduplicator removes points sharing a coordinate.
type Deduplicator interface {
	Dedupe(points []geo.LabeledPoint) []geo.LabeledPoint
}

// Pipeline produces the ranked report for a reference location. It does no I/O.
type Pipeline struct {
	dedupe   Deduplicator
	distance distance.Calculator
	k        int
	workers  int
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithK sets how many events are reported.
func WithK(k int) Option {
	return func(p *Pipeline) { p.k = k }
}

// WithWorkers sets the size of the distance worker pool. Values below 1 mean sequential.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithDeduplicator replaces the exact-match deduplicator.
func WithDeduplicator(d Deduplicator) Option {
	return func(p *Pipeline) { p.dedupe = d }
}

// WithCalculator replaces the earth-radius haversine calculator.
func WithCalculator(c distance.Calculator) Option {
	return func(p *Pipeline) { p.distance = c }
}

// New returns a Pipeline reporting DefaultK events with exact deduplication
// and haversine distances unless options say otherwise.
func New(opts ...Option) *Pipeline {
	exact, _ := dedupe.New(dedupe.Exact)
	p := &Pipeline{
		dedupe:   exact,
		distance: distance.Haversine{RadiusKm: distance.EarthRadiusKm},
		k:        DefaultK,
		workers:  runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run dedupes raw, measures every distinct point against ref and returns the
// closest k. An empty input gives an empty result.
func (p *Pipeline) Run(raw []geo.LabeledPoint, ref geo.GeoPoint) geo.RankedResult {
	return p.RunTop(raw, ref, p.k)
}

// RunTop is Run with the report size given per call.
func (p *Pipeline) RunTop(raw []geo.LabeledPoint, ref geo.GeoPoint, k int) geo.RankedResult {
	distinct := p.dedupe.Dedupe(raw)
	measured := p.measure(distinct, ref)
	return rank.SelectTopK(measured, k)
}

// K is the default report size.
func (p *Pipeline) K() int {
	return p.k
}

func (p *Pipeline) measure(points []geo.LabeledPoint, ref geo.GeoPoint) []geo.Measured {
	out := make([]geo.Measured, len(points))
	if p.workers <= 1 || len(points) < parallelThreshold {
		for i, pt := range points {
			out[i] = geo.Measured{LabeledPoint: pt, DistanceKm: p.distance.Distance(pt.Point, ref)}
		}
		return out
	}

	numWorkers := min(p.workers, len(points))

	var wg sync.WaitGroup
	jobs := make(chan int, numWorkers*2)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// every job owns its slot in out, so no locking is needed
			for idx := range jobs {
				pt := points[idx]
				out[idx] = geo.Measured{LabeledPoint: pt, DistanceKm: p.distance.Distance(pt.Point, ref)}
			}
		}()
	}

	for idx := range points {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return out
}

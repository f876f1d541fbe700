package dedupe

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
)

// pad widens boxes slightly; rtreego treats rectangles that only touch as disjoint.
const pad = 1e-9

// keptPoint is an accepted coordinate stored in the tree.
type keptPoint struct {
	rect  rtreego.Rect
	point geo.GeoPoint
}

func (k *keptPoint) Bounds() rtreego.Rect {
	return k.rect
}

// boxIndex narrows the pairwise comparison to accepted points inside the
// candidate's epsilon box.
type boxIndex struct {
	tree    *rtreego.Rtree
	epsilon float64
}

func newBoxIndex(epsilon float64) *boxIndex {
	// dim = 2 for lon/lat, 25..50 children per node
	return &boxIndex{
		tree:    rtreego.NewTree(2, 25, 50),
		epsilon: epsilon,
	}
}

func (b *boxIndex) contains(p geo.GeoPoint) bool {
	corner := rtreego.Point{p.Lon - b.epsilon - pad, p.Lat - b.epsilon - pad}
	side := 2 * (b.epsilon + pad)
	search, err := rtreego.NewRect(corner, []float64{side, side})
	if err != nil {
		return false
	}

	for _, item := range b.tree.SearchIntersect(search) {
		kept := item.(*keptPoint)
		if math.Abs(kept.point.Lon-p.Lon) <= b.epsilon && math.Abs(kept.point.Lat-p.Lat) <= b.epsilon {
			return true
		}
	}
	return false
}

func (b *boxIndex) add(p geo.GeoPoint) {
	rect, err := rtreego.NewRect(rtreego.Point{p.Lon, p.Lat}, []float64{pad, pad})
	if err != nil {
		return
	}
	b.tree.Insert(&keptPoint{rect: rect, point: p})
}

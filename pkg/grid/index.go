package grid

import (
	"sort"

	"github.com/tidwall/rtree"

	"roadgrid/pkg/roads"
)

// Index answers which-cells queries over a cell list using an r-tree, so a
// multi-cell pass only feeds a road to the partitioners it can touch.
type Index struct {
	tr    rtree.RTreeG[int]
	cells []Cell
}

// NewIndex builds an r-tree over the cells. Ids returned by queries are
// positions in the given slice.
func NewIndex(cells []Cell) *Index {
	ix := &Index{cells: cells}
	for i, c := range cells {
		ix.tr.Insert(
			[2]float64{c.MinLon, c.MinLat},
			[2]float64{c.MaxLon, c.MaxLat},
			i,
		)
	}
	return ix
}

// Covering returns the ids of cells whose interior contains the point, in
// ascending order.
func (ix *Index) Covering(lat, lon float64) []int {
	var ids []int
	pt := [2]float64{lon, lat}
	ix.tr.Search(pt, pt, func(_, _ [2]float64, id int) bool {
		if ix.cells[id].Contains(lat, lon) {
			ids = append(ids, id)
		}
		return true
	})
	sort.Ints(ids)
	return ids
}

// Intersecting returns the ids of cells whose rectangle intersects the
// bounding box of the given road, in ascending order. A partitioner for any
// other cell would see only outside points.
func (ix *Index) Intersecting(road []roads.Waypoint) []int {
	if len(road) == 0 {
		return nil
	}
	minLat, maxLat := road[0].Lat, road[0].Lat
	minLon, maxLon := road[0].Lon, road[0].Lon
	for _, w := range road[1:] {
		if w.Lat < minLat {
			minLat = w.Lat
		}
		if w.Lat > maxLat {
			maxLat = w.Lat
		}
		if w.Lon < minLon {
			minLon = w.Lon
		}
		if w.Lon > maxLon {
			maxLon = w.Lon
		}
	}

	var ids []int
	ix.tr.Search(
		[2]float64{minLon, minLat},
		[2]float64{maxLon, maxLat},
		func(_, _ [2]float64, id int) bool {
			ids = append(ids, id)
			return true
		},
	)
	sort.Ints(ids)
	return ids
}

// Package grid partitions road waypoint tables into rectangular geographic
// cells and aggregates in-cell road length per cell.
package grid

import (
	"fmt"

	"github.com/paulmach/orb"

	"roadgrid/pkg/roads"
)

// Cell is an axis-aligned geographic rectangle, bounds in degrees.
type Cell struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// ParseExtent parses a "south,west,north,east" extent string.
func ParseExtent(s string) (Cell, error) {
	var c Cell
	n, err := fmt.Sscanf(s, "%f,%f,%f,%f", &c.MinLat, &c.MinLon, &c.MaxLat, &c.MaxLon)
	if err != nil || n != 4 {
		return Cell{}, fmt.Errorf("extent %q (want south,west,north,east): %w", s, roads.ErrInvalidParameter)
	}
	if err := c.Validate(); err != nil {
		return Cell{}, err
	}
	return c, nil
}

// Validate checks that min bounds lie strictly below max bounds.
func (c Cell) Validate() error {
	if c.MinLat >= c.MaxLat || c.MinLon >= c.MaxLon {
		return fmt.Errorf("cell %s: %w", c.Spec(), roads.ErrInvalidParameter)
	}
	return nil
}

// Contains reports whether the point lies strictly inside the cell. Points
// exactly on an edge are outside.
func (c Cell) Contains(lat, lon float64) bool {
	return lat > c.MinLat && lat < c.MaxLat && lon > c.MinLon && lon < c.MaxLon
}

// Spec returns the "south,west,north,east" textual form of the cell.
func (c Cell) Spec() string {
	return fmt.Sprintf("%v,%v,%v,%v", c.MinLat, c.MinLon, c.MaxLat, c.MaxLon)
}

// Label returns the output label for this cell at position id in the
// caller's cell list.
func (c Cell) Label(id int) string {
	return fmt.Sprintf("%s_%d", c.Spec(), id)
}

// Bound returns the cell as an orb bound (lon/lat order).
func (c Cell) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{c.MinLon, c.MinLat},
		Max: orb.Point{c.MaxLon, c.MaxLat},
	}
}

// Generate splits extent into an nx-by-ny grid of equal cells, west to east
// then south to north. Outer bounds are carried through exactly so the grid
// tiles the extent without float drift at the edges.
func Generate(extent Cell, nx, ny int) ([]Cell, error) {
	if err := extent.Validate(); err != nil {
		return nil, err
	}
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("grid %dx%d: %w", nx, ny, roads.ErrInvalidParameter)
	}

	lonStep := (extent.MaxLon - extent.MinLon) / float64(nx)
	latStep := (extent.MaxLat - extent.MinLat) / float64(ny)

	cells := make([]Cell, 0, nx*ny)
	for j := 0; j < ny; j++ {
		minLat := extent.MinLat + float64(j)*latStep
		maxLat := extent.MinLat + float64(j+1)*latStep
		if j == ny-1 {
			maxLat = extent.MaxLat
		}
		for i := 0; i < nx; i++ {
			minLon := extent.MinLon + float64(i)*lonStep
			maxLon := extent.MinLon + float64(i+1)*lonStep
			if i == nx-1 {
				maxLon = extent.MaxLon
			}
			cells = append(cells, Cell{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon})
		}
	}
	return cells, nil
}

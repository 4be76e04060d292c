package roads

import (
	"fmt"

	"roadgrid/pkg/geo"
)

// Waypoint is one row of the road table: a named point on a named road.
// Roads are ordered, contiguous runs of waypoints sharing a RoadID; a road's
// order is never permuted, only extended by insertion.
type Waypoint struct {
	RoadID string
	NodeID string
	Lat    float64
	Lon    float64
}

// Point returns the waypoint's coordinate.
func (w Waypoint) Point() geo.Point {
	return geo.Point{Lat: w.Lat, Lon: w.Lon}
}

// IDAllocator hands out identifiers for synthetic waypoints. Ids are unique
// within one allocator. The counter is explicit state: callers running
// independent passes in parallel should give each its own allocator.
type IDAllocator struct {
	next int
}

// NextNode returns the id for a waypoint inserted by resampling.
func (a *IDAllocator) NextNode() string {
	a.next++
	return fmt.Sprintf("Generated Node %d", a.next)
}

// NextBoundaryNode returns the id for a waypoint interpolated onto a cell
// edge.
func (a *IDAllocator) NextBoundaryNode() string {
	a.next++
	return fmt.Sprintf("Generated node # %d", a.next)
}

// ByRoad calls fn once per contiguous run of rows sharing a RoadID, in input
// order. The slice passed to fn aliases rows.
func ByRoad(rows []Waypoint, fn func(road []Waypoint) error) error {
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || rows[i].RoadID != rows[start].RoadID {
			if err := fn(rows[start:i]); err != nil {
				return err
			}
			start = i
		}
	}
	return nil
}

// Package resample adjusts waypoint spacing along a road: Densify inserts
// synthetic waypoints so consecutive spacing never exceeds a target distance,
// Thin removes waypoints closer than a target distance.
package resample

import (
	"fmt"

	"roadgrid/pkg/geo"
	"roadgrid/pkg/roads"
)

// spacingSlack is the relative tolerance for spacing comparisons.
// Synthetic waypoints are placed by linear interpolation in degree space,
// so away from the equator their recomputed great-circle spacing lands a
// fraction above or below the target; a gap within the slack counts as at
// the target, which keeps a second densify pass from re-splitting it.
const spacingSlack = 1e-3

// Densify returns road with synthetic waypoints inserted so that consecutive
// spacing never exceeds minDistanceKm. The road's first and last waypoints
// are always preserved; originals whose remaining gap falls below the target
// are absorbed into the uniform walk. Synthetic ids come from ids.
func Densify(road []roads.Waypoint, minDistanceKm float64, ids *roads.IDAllocator) ([]roads.Waypoint, error) {
	if minDistanceKm <= 0 {
		return nil, fmt.Errorf("min distance %g km: %w", minDistanceKm, roads.ErrInvalidParameter)
	}
	if len(road) == 0 {
		return nil, nil
	}

	out := make([]roads.Waypoint, 0, len(road))
	cur := road[0]
	curEmitted := false
	emitCur := func() {
		if !curEmitted {
			out = append(out, cur)
			curEmitted = true
		}
	}

	for _, end := range road[1:] {
		if cur.Lat == end.Lat && cur.Lon == end.Lon {
			if cur.NodeID != end.NodeID {
				return nil, &roads.DuplicateCoordinateError{
					RoadID: end.RoadID, NodeA: cur.NodeID, NodeB: end.NodeID,
				}
			}
			// Coincident repeat of the same node; nothing to synthesize.
			continue
		}

		d := geo.Distance(cur.Point(), end.Point())
		for d > minDistanceKm*(1+spacingSlack) {
			emitCur()
			p := geo.PointAtDistance(cur.Point(), end.Point(), minDistanceKm, d)
			cur = roads.Waypoint{RoadID: end.RoadID, NodeID: ids.NextNode(), Lat: p.Lat, Lon: p.Lon}
			curEmitted = false
			d = geo.Distance(cur.Point(), end.Point())
		}
		if d >= minDistanceKm*(1-spacingSlack) {
			// Gap is at the target spacing: keep the point and walk on
			// from it.
			emitCur()
			out = append(out, end)
			cur = end
			curEmitted = true
		} else {
			emitCur()
		}
	}

	// Terminal guarantee: the road's final original waypoint is always kept.
	last := road[len(road)-1]
	if len(out) == 0 || out[len(out)-1].NodeID != last.NodeID {
		out = append(out, last)
	}
	return out, nil
}

// Thin returns road with every waypoint closer than minDistanceKm to the
// previously kept waypoint removed. The first and last waypoints are always
// kept.
func Thin(road []roads.Waypoint, minDistanceKm float64) ([]roads.Waypoint, error) {
	if minDistanceKm < 0 {
		return nil, fmt.Errorf("min distance %g km: %w", minDistanceKm, roads.ErrInvalidParameter)
	}
	if len(road) == 0 {
		return nil, nil
	}

	out := []roads.Waypoint{road[0]}
	kept := road[0]
	for _, w := range road[1:] {
		if kept.Lat == w.Lat && kept.Lon == w.Lon {
			if kept.NodeID != w.NodeID {
				return nil, &roads.DuplicateCoordinateError{
					RoadID: w.RoadID, NodeA: kept.NodeID, NodeB: w.NodeID,
				}
			}
			continue
		}
		if geo.Distance(kept.Point(), w.Point()) > minDistanceKm {
			out = append(out, w)
			kept = w
		}
	}

	last := road[len(road)-1]
	if out[len(out)-1].NodeID != last.NodeID {
		out = append(out, last)
	}
	return out, nil
}

// TableResult holds a resampled table plus the roads that could not be
// processed. A failed road is omitted from Waypoints; its error carries the
// road id.
type TableResult struct {
	Waypoints []roads.Waypoint
	Failed    []error
}

// DensifyTable applies Densify to each contiguous road run of a road-grouped
// table, preserving input order. Per-road failures are recorded, not fatal.
func DensifyTable(rows []roads.Waypoint, minDistanceKm float64, ids *roads.IDAllocator) (*TableResult, error) {
	if minDistanceKm <= 0 {
		return nil, fmt.Errorf("min distance %g km: %w", minDistanceKm, roads.ErrInvalidParameter)
	}
	return eachRoad(rows, func(road []roads.Waypoint) ([]roads.Waypoint, error) {
		return Densify(road, minDistanceKm, ids)
	})
}

// ThinTable applies Thin to each contiguous road run of a road-grouped
// table, preserving input order. Per-road failures are recorded, not fatal.
func ThinTable(rows []roads.Waypoint, minDistanceKm float64) (*TableResult, error) {
	if minDistanceKm < 0 {
		return nil, fmt.Errorf("min distance %g km: %w", minDistanceKm, roads.ErrInvalidParameter)
	}
	return eachRoad(rows, func(road []roads.Waypoint) ([]roads.Waypoint, error) {
		return Thin(road, minDistanceKm)
	})
}

func eachRoad(rows []roads.Waypoint, fn func([]roads.Waypoint) ([]roads.Waypoint, error)) (*TableResult, error) {
	res := &TableResult{}
	err := roads.ByRoad(rows, func(road []roads.Waypoint) error {
		resampled, err := fn(road)
		if err != nil {
			res.Failed = append(res.Failed, err)
			return nil
		}
		res.Waypoints = append(res.Waypoints, resampled...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

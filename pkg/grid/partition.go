package grid

import (
	"fmt"
	"math"

	"roadgrid/pkg/geo"
	"roadgrid/pkg/roads"
)

// BoundaryMode selects what happens to the outside point adjacent to a cell
// boundary crossing. The two behaviors are never mixed within one pass.
type BoundaryMode int

const (
	// BoundaryDrop discards the outside point; the in-cell run simply ends
	// at the last interior waypoint.
	BoundaryDrop BoundaryMode = iota
	// BoundaryInterpolate replaces the outside point with a synthetic
	// waypoint exactly on the crossed cell edge.
	BoundaryInterpolate
)

// ParseBoundaryMode parses "drop" or "interpolate".
func ParseBoundaryMode(s string) (BoundaryMode, error) {
	switch s {
	case "drop":
		return BoundaryDrop, nil
	case "interpolate":
		return BoundaryInterpolate, nil
	}
	return 0, fmt.Errorf("boundary mode %q: %w", s, roads.ErrInvalidParameter)
}

func (m BoundaryMode) String() string {
	if m == BoundaryInterpolate {
		return "interpolate"
	}
	return "drop"
}

// Row is one partitioned output row: the 4-column waypoint schema prefixed
// with the cell label, node ids possibly carrying a segment suffix.
type Row struct {
	CellLabel string
	RoadID    string
	NodeID    string
	Lat       float64
	Lon       float64
}

// Partitioner clips a road-grouped waypoint stream against one cell in a
// single pass, emitting the in-cell subsequence and accumulating the in-cell
// path length. It holds no state across roads other than the running length
// and the injected id allocator, so one table can be streamed through many
// partitioners.
type Partitioner struct {
	cell  Cell
	label string
	mode  BoundaryMode
	ids   *roads.IDAllocator

	hasPrev bool
	prev    roads.Waypoint
	prevIn  bool
	spans   bool // road has left the cell at least once and may re-enter
	segment int
	totalKm float64
}

// NewPartitioner validates the cell and returns a streaming partitioner.
// cellID is the cell's 0-based position in the caller's cell list; it only
// affects the output label.
func NewPartitioner(cell Cell, cellID int, mode BoundaryMode, ids *roads.IDAllocator) (*Partitioner, error) {
	if err := cell.Validate(); err != nil {
		return nil, err
	}
	return &Partitioner{cell: cell, label: cell.Label(cellID), mode: mode, ids: ids}, nil
}

// Consume feeds the next table row through the partitioner and returns the
// rows it emits: usually zero or one, two when a boundary point is
// interpolated ahead of a re-entering waypoint. Input rows must arrive
// road-grouped, each road in its original order.
func (p *Partitioner) Consume(w roads.Waypoint) []Row {
	sameRoad := p.hasPrev && p.prev.RoadID == w.RoadID
	if p.hasPrev && !sameRoad {
		p.spans = false
		p.segment = 0
	}

	inside := p.cell.Contains(w.Lat, w.Lon)
	var out []Row

	switch {
	case inside && sameRoad && w.NodeID == p.prev.NodeID:
		// Duplicate of the node just seen: suppress the repeat.

	case inside:
		if p.mode == BoundaryInterpolate && sameRoad && !p.prevIn {
			// Re-entry: synthesize the point where the segment crosses the
			// edge and open the new in-cell run with it.
			b := p.edgeCrossing(w.Point(), p.prev.Point())
			bw := roads.Waypoint{RoadID: w.RoadID, NodeID: p.ids.NextBoundaryNode(), Lat: b.Lat, Lon: b.Lon}
			out = append(out, p.row(bw))
			p.totalKm += geo.Distance(b, w.Point())
		}
		out = append(out, p.row(w))
		if sameRoad && p.prevIn {
			// Only in-cell-to-in-cell hops count toward density.
			p.totalKm += geo.Distance(p.prev.Point(), w.Point())
		}

	case sameRoad && p.prevIn:
		// Exit crossing: close the current in-cell run.
		if p.mode == BoundaryInterpolate {
			b := p.edgeCrossing(p.prev.Point(), w.Point())
			bw := roads.Waypoint{RoadID: w.RoadID, NodeID: p.ids.NextBoundaryNode(), Lat: b.Lat, Lon: b.Lon}
			out = append(out, p.row(bw))
			p.totalKm += geo.Distance(p.prev.Point(), b)
		}
		if p.spans {
			p.segment++
		}
		p.spans = true
	}

	p.prev = w
	p.prevIn = inside
	p.hasPrev = true
	return out
}

// TotalKm returns the accumulated in-cell path length.
func (p *Partitioner) TotalKm() float64 {
	return p.totalKm
}

// Label returns the cell label carried on every emitted row.
func (p *Partitioner) Label() string {
	return p.label
}

func (p *Partitioner) row(w roads.Waypoint) Row {
	id := w.NodeID
	if p.spans {
		id = fmt.Sprintf("%s_segment_%d", id, p.segment)
	}
	return Row{CellLabel: p.label, RoadID: w.RoadID, NodeID: id, Lat: w.Lat, Lon: w.Lon}
}

// edgeCrossing returns the point where the segment from the in-cell endpoint
// toward the outside endpoint crosses the cell boundary. The segment is
// decomposed into its latitude and longitude legs; whichever axis crosses
// its bound first fixes the chord distance handed to PointAtDistance.
func (p *Partitioner) edgeCrossing(in, out geo.Point) geo.Point {
	t := 1.0
	if out.Lat <= p.cell.MinLat {
		t = math.Min(t, (p.cell.MinLat-in.Lat)/(out.Lat-in.Lat))
	} else if out.Lat >= p.cell.MaxLat {
		t = math.Min(t, (p.cell.MaxLat-in.Lat)/(out.Lat-in.Lat))
	}
	if out.Lon <= p.cell.MinLon {
		t = math.Min(t, (p.cell.MinLon-in.Lon)/(out.Lon-in.Lon))
	} else if out.Lon >= p.cell.MaxLon {
		t = math.Min(t, (p.cell.MaxLon-in.Lon)/(out.Lon-in.Lon))
	}
	total := geo.Distance(in, out)
	return geo.PointAtDistance(in, out, t*total, total)
}

// Partition runs a full table through a single-cell partitioner and returns
// the emitted rows and the in-cell length.
func Partition(rows []roads.Waypoint, cell Cell, cellID int, mode BoundaryMode, ids *roads.IDAllocator) ([]Row, float64, error) {
	p, err := NewPartitioner(cell, cellID, mode, ids)
	if err != nil {
		return nil, 0, err
	}
	var out []Row
	for _, w := range rows {
		out = append(out, p.Consume(w)...)
	}
	return out, p.TotalKm(), nil
}

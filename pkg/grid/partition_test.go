package grid

import (
	"errors"
	"math"
	"strings"
	"testing"

	"roadgrid/pkg/geo"
	"roadgrid/pkg/roads"
)

func wp(road, node string, lat, lon float64) roads.Waypoint {
	return roads.Waypoint{RoadID: road, NodeID: node, Lat: lat, Lon: lon}
}

var unitCell = Cell{MinLat: 0, MinLon: 0, MaxLat: 1, MaxLon: 1}

func TestPartitionRoadInsideCell(t *testing.T) {
	road := []roads.Waypoint{
		wp("W1", "N1", 0.5, 0.5),
		wp("W1", "N2", 0.5, 0.52),
		wp("W1", "N3", 0.5, 0.54),
	}
	var ids roads.IDAllocator

	rows, totalKm, err := Partition(road, unitCell, 0, BoundaryDrop, &ids)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if len(rows) != len(road) {
		t.Fatalf("got %d rows, want %d", len(rows), len(road))
	}

	// Length conservation: the aggregate equals the sum of consecutive hops.
	var want float64
	for i := 1; i < len(road); i++ {
		want += geo.Distance(road[i-1].Point(), road[i].Point())
	}
	if math.Abs(totalKm-want) > 1e-12 {
		t.Errorf("total = %f km, want %f", totalKm, want)
	}

	for i, r := range rows {
		if r.CellLabel != "0,0,1,1_0" {
			t.Errorf("row %d label = %q", i, r.CellLabel)
		}
		if strings.Contains(r.NodeID, "_segment_") {
			t.Errorf("row %d unexpectedly suffixed: %q", i, r.NodeID)
		}
		if r.NodeID != road[i].NodeID {
			t.Errorf("row %d node = %q, want %q", i, r.NodeID, road[i].NodeID)
		}
	}
}

func TestPartitionSegmentTagging(t *testing.T) {
	// The road leaves the cell twice; each re-entry opens a new tagged run,
	// and excursion hops never count toward the cell length.
	road := []roads.Waypoint{
		wp("W1", "A", 0.5, 0.2),
		wp("W1", "B", 0.5, 0.4),
		wp("W1", "C", 0.5, 1.5), // out
		wp("W1", "D", 0.5, 0.6),
		wp("W1", "E", 0.5, 0.7),
		wp("W1", "F", 0.5, 1.5), // out
		wp("W1", "G", 0.5, 0.8),
	}
	var ids roads.IDAllocator

	rows, totalKm, err := Partition(road, unitCell, 0, BoundaryDrop, &ids)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	var nodeIDs []string
	for _, r := range rows {
		nodeIDs = append(nodeIDs, r.NodeID)
	}
	want := []string{"A", "B", "D_segment_0", "E_segment_0", "G_segment_1"}
	if strings.Join(nodeIDs, " ") != strings.Join(want, " ") {
		t.Fatalf("node ids = %v, want %v", nodeIDs, want)
	}

	wantKm := geo.Distance(road[0].Point(), road[1].Point()) +
		geo.Distance(road[3].Point(), road[4].Point())
	if math.Abs(totalKm-wantKm) > 1e-12 {
		t.Errorf("total = %f km, want %f (intra-cell hops only)", totalKm, wantKm)
	}
}

func TestPartitionResetOnRoadChange(t *testing.T) {
	rows := []roads.Waypoint{
		wp("W1", "A", 0.5, 0.5),
		wp("W1", "B", 0.5, 1.5), // out
		wp("W1", "C", 0.5, 0.6), // re-enter, tagged
		wp("W2", "X", 0.4, 0.4),
		wp("W2", "Y", 0.4, 0.5),
	}
	var ids roads.IDAllocator

	out, totalKm, err := Partition(rows, unitCell, 0, BoundaryDrop, &ids)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	var nodeIDs []string
	for _, r := range out {
		nodeIDs = append(nodeIDs, r.NodeID)
	}
	want := []string{"A", "C_segment_0", "X", "Y"}
	if strings.Join(nodeIDs, " ") != strings.Join(want, " ") {
		t.Fatalf("node ids = %v, want %v", nodeIDs, want)
	}

	// The hop from C (W1) to X (W2) must not count.
	wantKm := geo.Distance(rows[3].Point(), rows[4].Point())
	if math.Abs(totalKm-wantKm) > 1e-12 {
		t.Errorf("total = %f km, want %f", totalKm, wantKm)
	}
}

func TestPartitionBoundaryInterpolate(t *testing.T) {
	road := []roads.Waypoint{
		wp("W1", "P", 0.5, 0.5),
		wp("W1", "Q", 0.5, 1.5), // out across the east edge
		wp("W1", "R", 0.5, 0.6),
	}
	var ids roads.IDAllocator

	rows, totalKm, err := Partition(road, unitCell, 0, BoundaryInterpolate, &ids)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	// P, exit point on the edge, entry point on the edge, R.
	if len(rows) != 4 {
		t.Fatalf("got %d rows (%+v), want 4", len(rows), rows)
	}

	exit := rows[1]
	if !strings.HasPrefix(exit.NodeID, "Generated node # ") {
		t.Errorf("exit point id = %q", exit.NodeID)
	}
	if strings.Contains(exit.NodeID, "_segment_") {
		t.Errorf("exit point belongs to the first run, got %q", exit.NodeID)
	}
	if math.Abs(exit.Lon-1.0) > 1e-9 || math.Abs(exit.Lat-0.5) > 1e-9 {
		t.Errorf("exit point at (%f, %f), want (0.5, 1.0)", exit.Lat, exit.Lon)
	}

	entry := rows[2]
	if !strings.HasPrefix(entry.NodeID, "Generated node # ") || !strings.HasSuffix(entry.NodeID, "_segment_0") {
		t.Errorf("entry point id = %q", entry.NodeID)
	}
	if math.Abs(entry.Lon-1.0) > 1e-9 || math.Abs(entry.Lat-0.5) > 1e-9 {
		t.Errorf("entry point at (%f, %f), want (0.5, 1.0)", entry.Lat, entry.Lon)
	}
	if rows[3].NodeID != "R_segment_0" {
		t.Errorf("re-entry row id = %q", rows[3].NodeID)
	}

	// Length runs up to the edge and back in from it.
	edge := geo.Point{Lat: 0.5, Lon: 1.0}
	wantKm := geo.Distance(road[0].Point(), edge) + geo.Distance(edge, road[2].Point())
	if math.Abs(totalKm-wantKm) > 1e-6 {
		t.Errorf("total = %f km, want %f", totalKm, wantKm)
	}
}

func TestPartitionDropVsInterpolateLength(t *testing.T) {
	road := []roads.Waypoint{
		wp("W1", "P", 0.5, 0.5),
		wp("W1", "Q", 0.5, 1.5),
	}
	var ids roads.IDAllocator

	_, dropKm, err := Partition(road, unitCell, 0, BoundaryDrop, &ids)
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if dropKm != 0 {
		t.Errorf("drop mode counted %f km for a single in-cell point", dropKm)
	}

	_, interpKm, err := Partition(road, unitCell, 0, BoundaryInterpolate, &ids)
	if err != nil {
		t.Fatalf("interpolate: %v", err)
	}
	wantKm := geo.Distance(road[0].Point(), geo.Point{Lat: 0.5, Lon: 1.0})
	if math.Abs(interpKm-wantKm) > 1e-6 {
		t.Errorf("interpolate total = %f km, want %f", interpKm, wantKm)
	}
}

func TestPartitionDuplicateNodeGuard(t *testing.T) {
	road := []roads.Waypoint{
		wp("W1", "N1", 0.5, 0.5),
		wp("W1", "N1", 0.5, 0.5), // duplicate row
		wp("W1", "N2", 0.5, 0.6),
	}
	var ids roads.IDAllocator

	rows, totalKm, err := Partition(road, unitCell, 0, BoundaryDrop, &ids)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (duplicate suppressed)", len(rows))
	}
	wantKm := geo.Distance(road[0].Point(), road[2].Point())
	if math.Abs(totalKm-wantKm) > 1e-12 {
		t.Errorf("total = %f km, want %f", totalKm, wantKm)
	}
}

func TestPartitionInvalidCell(t *testing.T) {
	var ids roads.IDAllocator
	_, err := NewPartitioner(Cell{MinLat: 1, MinLon: 1, MaxLat: 0, MaxLon: 0}, 0, BoundaryDrop, &ids)
	if !errors.Is(err, roads.ErrInvalidParameter) {
		t.Errorf("got %v, want ErrInvalidParameter", err)
	}
}

func TestParseBoundaryMode(t *testing.T) {
	if m, err := ParseBoundaryMode("drop"); err != nil || m != BoundaryDrop {
		t.Errorf(`ParseBoundaryMode("drop") = %v, %v`, m, err)
	}
	if m, err := ParseBoundaryMode("interpolate"); err != nil || m != BoundaryInterpolate {
		t.Errorf(`ParseBoundaryMode("interpolate") = %v, %v`, m, err)
	}
	if _, err := ParseBoundaryMode("clamp"); !errors.Is(err, roads.ErrInvalidParameter) {
		t.Errorf("unknown mode error = %v, want ErrInvalidParameter", err)
	}
}

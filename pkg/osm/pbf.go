package osm

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"roadgrid/pkg/roads"
)

// BBox defines a geographic bounding box for filtering.
// If non-zero, only ways with at least one node inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLon == 0 && b.MaxLon == 0
}

// Contains returns true if the point is inside the bounding box. Unlike the
// half-open cell test, ingestion keeps border points.
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// ParseOptions configures PBF extraction.
type ParseOptions struct {
	BBox BBox // if non-zero, filter ways to this bounding box
}

// wayInfo holds way data collected during Pass 1.
type wayInfo struct {
	Label   string
	NodeIDs []osm.NodeID
}

// ParsePBF reads an OSM PBF file and returns road-grouped waypoint rows for
// every highway-tagged way. The reader is consumed twice (seeks back to the
// start for the second pass), so it must implement io.ReadSeeker.
func ParsePBF(ctx context.Context, rs io.ReadSeeker, opts ...ParseOptions) ([]roads.Waypoint, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	useBBox := !opt.BBox.IsZero()

	// Pass 1: scan ways to collect referenced node IDs and road labels.
	referencedNodes := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if !isHighway(w.Tags) {
			continue
		}
		if len(w.Nodes) < 2 {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referencedNodes[wn.ID] = struct{}{}
		}
		ways = append(ways, wayInfo{Label: RoadLabel(w), NodeIDs: nodeIDs})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 1 complete: %d highway ways, %d referenced nodes", len(ways), len(referencedNodes))

	// Pass 2: scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	nodeLat := make(map[osm.NodeID]float64, len(referencedNodes))
	nodeLon := make(map[osm.NodeID]float64, len(referencedNodes))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 2 complete: %d node coordinates collected", len(nodeLat))

	// Build rows from ways.
	var rows []roads.Waypoint
	var skippedNodes, bboxFiltered int

	for _, w := range ways {
		if useBBox && !anyInBBox(w.NodeIDs, nodeLat, nodeLon, opt.BBox) {
			bboxFiltered++
			continue
		}
		for _, id := range w.NodeIDs {
			lat, ok := nodeLat[id]
			if !ok {
				skippedNodes++
				continue
			}
			rows = append(rows, roads.Waypoint{
				RoadID: w.Label,
				NodeID: strconv.FormatInt(int64(id), 10),
				Lat:    lat,
				Lon:    nodeLon[id],
			})
		}
	}

	if skippedNodes > 0 {
		log.Printf("Warning: skipped %d way nodes due to missing coordinates", skippedNodes)
	}
	if bboxFiltered > 0 {
		log.Printf("Filtered %d ways outside bounding box", bboxFiltered)
	}
	log.Printf("Built %d waypoint rows", len(rows))

	return rows, nil
}

func anyInBBox(ids []osm.NodeID, nodeLat, nodeLon map[osm.NodeID]float64, bbox BBox) bool {
	for _, id := range ids {
		lat, ok := nodeLat[id]
		if !ok {
			continue
		}
		if bbox.Contains(lat, nodeLon[id]) {
			return true
		}
	}
	return false
}

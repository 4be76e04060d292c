package osm

import (
	"fmt"
	"log"
	"strconv"

	"github.com/paulmach/osm"

	"roadgrid/pkg/roads"
)

// RoadLabel returns the road id used in output tables: the way id followed
// by the way's name, with a fixed fallback for unnamed ways.
func RoadLabel(w *osm.Way) string {
	name := w.Tags.Find("name")
	if name == "" {
		name = "Not named"
	}
	return fmt.Sprintf("%d %s", w.ID, name)
}

// isHighway reports whether the way is part of the road network. Tag
// semantics beyond the presence of a highway tag are out of scope.
func isHighway(tags osm.Tags) bool {
	return tags.Find("highway") != ""
}

// ExtractRoads converts highway ways from a decoded OSM document into
// road-grouped waypoint rows, ways in document order and each way's nodes in
// way order. Way nodes without coordinates in the document are skipped.
func ExtractRoads(o *osm.OSM) []roads.Waypoint {
	nodeLat := make(map[osm.NodeID]float64, len(o.Nodes))
	nodeLon := make(map[osm.NodeID]float64, len(o.Nodes))
	for _, n := range o.Nodes {
		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}

	var rows []roads.Waypoint
	var skipped int
	for _, w := range o.Ways {
		if !isHighway(w.Tags) {
			continue
		}
		label := RoadLabel(w)
		for _, wn := range w.Nodes {
			lat, ok := nodeLat[wn.ID]
			if !ok {
				skipped++
				continue
			}
			rows = append(rows, roads.Waypoint{
				RoadID: label,
				NodeID: strconv.FormatInt(int64(wn.ID), 10),
				Lat:    lat,
				Lon:    nodeLon[wn.ID],
			})
		}
	}

	if skipped > 0 {
		log.Printf("Warning: skipped %d way nodes with no coordinates", skipped)
	}
	return rows
}

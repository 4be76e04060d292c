package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"roadgrid/pkg/geo"
	"roadgrid/pkg/resample"
	"roadgrid/pkg/roads"
)

func main() {
	input := flag.String("input", "query_result.csv", "Input waypoint table path")
	output := flag.String("output", "", "Output table path (default resampled_<mode>.csv)")
	minDistance := flag.Float64("min-distance", 0, "Target spacing in kilometers (> 0)")
	mode := flag.String("mode", "insert", "Resampling mode: insert (densify) or thin")
	distances := flag.Bool("distances", false, "Append a 'Distance from last point' column")
	flag.Parse()

	if *mode != "insert" && *mode != "thin" {
		log.Fatalf("Unknown mode %q (want insert or thin)", *mode)
	}
	if *output == "" {
		*output = fmt.Sprintf("resampled_%s.csv", *mode)
	}

	start := time.Now()

	log.Printf("Reading %s...", *input)
	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	res, err := roads.ReadTable(f)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to read table: %v", err)
	}
	for _, skip := range res.Skipped {
		log.Printf("Warning: skipped row: %v", skip)
	}
	log.Printf("Read %d rows (%d skipped)", len(res.Waypoints), len(res.Skipped))

	var result *resample.TableResult
	var ids roads.IDAllocator
	switch *mode {
	case "insert":
		result, err = resample.DensifyTable(res.Waypoints, *minDistance, &ids)
	case "thin":
		result, err = resample.ThinTable(res.Waypoints, *minDistance)
	}
	if err != nil {
		log.Fatalf("Resampling failed: %v", err)
	}
	for _, failed := range result.Failed {
		log.Printf("Warning: road dropped: %v", failed)
	}

	log.Printf("Writing %d rows to %s...", len(result.Waypoints), *output)
	if *distances {
		err = writeWithDistances(*output, res.Extent, result.Waypoints)
	} else {
		err = roads.WriteTable(*output, res.Extent, result.Waypoints)
	}
	if err != nil {
		log.Fatalf("Failed to write table: %v", err)
	}
	log.Printf("Done in %s", time.Since(start).Round(time.Millisecond))
}

// writeWithDistances writes the 4-column table extended with the distance in
// kilometers from the previous point of the same road.
func writeWithDistances(path, extent string, rows []roads.Waypoint) error {
	return roads.WriteFileAtomic(path, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		if err := cw.Write(append([]string{"extent"}, strings.Split(extent, ",")...)); err != nil {
			return err
		}
		if err := cw.Write([]string{"Road #/id", "Waypoint id (Node)", "Lat", "Lon", "Distance from last point"}); err != nil {
			return err
		}
		for i, w := range rows {
			var dist float64
			if i > 0 && rows[i-1].RoadID == w.RoadID {
				dist = geo.Distance(rows[i-1].Point(), w.Point())
			}
			record := []string{
				w.RoadID,
				w.NodeID,
				strconv.FormatFloat(w.Lat, 'f', -1, 64),
				strconv.FormatFloat(w.Lon, 'f', -1, 64),
				strconv.FormatFloat(dist, 'f', 6, 64),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

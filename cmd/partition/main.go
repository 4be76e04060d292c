package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"roadgrid/pkg/grid"
	"roadgrid/pkg/roads"
)

func main() {
	input := flag.String("input", "query_result.csv", "Input waypoint table path")
	extent := flag.String("extent", "", "Grid extent: south,west,north,east (default: the input table's extent)")
	cols := flag.Int("cols", 1, "Number of grid columns (west to east)")
	rows := flag.Int("rows", 1, "Number of grid rows (south to north)")
	boundary := flag.String("boundary", "drop", "Boundary crossing handling: drop or interpolate")
	output := flag.String("output", "partitioned.csv", "Output per-cell waypoint table path")
	lengthsPath := flag.String("lengths", "cell_lengths.csv", "Output per-cell road length table path")
	geojsonPath := flag.String("geojson", "", "Optional GeoJSON output of the grid with per-cell lengths")
	flag.Parse()

	mode, err := grid.ParseBoundaryMode(*boundary)
	if err != nil {
		log.Fatalf("Invalid boundary mode: %v", err)
	}

	start := time.Now()

	log.Printf("Reading %s...", *input)
	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	table, err := roads.ReadTable(f)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to read table: %v", err)
	}
	for _, skip := range table.Skipped {
		log.Printf("Warning: skipped row: %v", skip)
	}
	log.Printf("Read %d rows (%d skipped)", len(table.Waypoints), len(table.Skipped))

	if *extent == "" {
		*extent = table.Extent
	}
	if *extent == "" {
		log.Fatal("No extent: pass --extent or use an input table with an extent row")
	}
	bounds, err := grid.ParseExtent(*extent)
	if err != nil {
		log.Fatalf("Invalid extent: %v", err)
	}

	cells, err := grid.Generate(bounds, *cols, *rows)
	if err != nil {
		log.Fatalf("Failed to generate grid: %v", err)
	}
	log.Printf("Grid: %dx%d = %d cells, boundary mode %s", *cols, *rows, len(cells), mode)

	// One streaming partitioner per cell; the r-tree index keeps each road's
	// rows away from cells it cannot touch.
	var ids roads.IDAllocator
	parts := make([]*grid.Partitioner, len(cells))
	for i, c := range cells {
		parts[i], err = grid.NewPartitioner(c, i, mode, &ids)
		if err != nil {
			log.Fatalf("Failed to build partitioner %d: %v", i, err)
		}
	}
	ix := grid.NewIndex(cells)

	perCell := make([][]grid.Row, len(cells))
	err = roads.ByRoad(table.Waypoints, func(road []roads.Waypoint) error {
		for _, id := range ix.Intersecting(road) {
			for _, w := range road {
				perCell[id] = append(perCell[id], parts[id].Consume(w)...)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Partitioning failed: %v", err)
	}

	lengths := make([]float64, len(cells))
	var totalRows int
	for i, p := range parts {
		lengths[i] = p.TotalKm()
		totalRows += len(perCell[i])
	}

	log.Printf("Writing %d rows to %s...", totalRows, *output)
	if err := writeRows(*output, perCell); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	log.Printf("Writing cell lengths to %s...", *lengthsPath)
	if err := writeLengths(*lengthsPath, parts, lengths); err != nil {
		log.Fatalf("Failed to write lengths: %v", err)
	}
	if *geojsonPath != "" {
		log.Printf("Writing GeoJSON grid to %s...", *geojsonPath)
		if err := writeGeoJSON(*geojsonPath, cells, lengths); err != nil {
			log.Fatalf("Failed to write GeoJSON: %v", err)
		}
	}
	log.Printf("Done in %s", time.Since(start).Round(time.Millisecond))
}

func writeRows(path string, perCell [][]grid.Row) error {
	return roads.WriteFileAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"Cell", "Road #/id", "Waypoint id (Node)", "Lat", "Lon"}); err != nil {
			return err
		}
		for _, rows := range perCell {
			for _, r := range rows {
				record := []string{
					r.CellLabel,
					r.RoadID,
					r.NodeID,
					strconv.FormatFloat(r.Lat, 'f', -1, 64),
					strconv.FormatFloat(r.Lon, 'f', -1, 64),
				}
				if err := cw.Write(record); err != nil {
					return err
				}
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func writeLengths(path string, parts []*grid.Partitioner, lengths []float64) error {
	return roads.WriteFileAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"Cell", "Road length (km)"}); err != nil {
			return err
		}
		for i, p := range parts {
			record := []string{p.Label(), strconv.FormatFloat(lengths[i], 'f', 6, 64)}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func writeGeoJSON(path string, cells []grid.Cell, lengths []float64) error {
	fc := grid.FeatureCollection(cells, lengths)
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	return roads.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

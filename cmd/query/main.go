package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"roadgrid/pkg/osm"
	"roadgrid/pkg/roads"
)

func main() {
	extent := flag.String("extent", "", "Query extent: south,west,north,east (e.g. 40.0853,-75.4005,40.1186,-75.3549)")
	kop := flag.Bool("kop", false, "Shortcut for --extent 40.0853,-75.4005,40.1186,-75.3549 (King of Prussia)")
	endpoint := flag.String("endpoint", osm.DefaultEndpoint, "Overpass interpreter URL")
	pbf := flag.String("pbf", "", "Read a local .osm.pbf file instead of querying Overpass")
	output := flag.String("output", "query_result.csv", "Output waypoint table path")
	timeout := flag.Duration("timeout", 90*time.Second, "Overpass request timeout")
	flag.Parse()

	if *kop {
		*extent = "40.0853,-75.4005,40.1186,-75.3549"
	}
	if *extent == "" {
		fmt.Fprintln(os.Stderr, "Usage: query --extent s,w,n,e [--output table.csv] [--pbf file.osm.pbf] [--endpoint url]")
		os.Exit(1)
	}

	var s, w, n, e float64
	if _, err := fmt.Sscanf(*extent, "%f,%f,%f,%f", &s, &w, &n, &e); err != nil {
		log.Fatalf("Invalid extent format (expected south,west,north,east): %v", err)
	}

	start := time.Now()
	var rows []roads.Waypoint

	if *pbf != "" {
		log.Printf("Opening PBF file %s...", *pbf)
		f, err := os.Open(*pbf)
		if err != nil {
			log.Fatalf("Failed to open PBF file: %v", err)
		}
		defer f.Close()

		opts := osm.ParseOptions{BBox: osm.BBox{MinLat: s, MaxLat: n, MinLon: w, MaxLon: e}}
		rows, err = osm.ParsePBF(context.Background(), f, opts)
		if err != nil {
			log.Fatalf("Failed to parse PBF: %v", err)
		}
	} else {
		log.Printf("Sending query to overpass for extent %s...", *extent)
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()

		doc, err := osm.QueryHighways(ctx, http.DefaultClient, *endpoint, *extent)
		if err != nil {
			log.Fatalf("Overpass query failed: %v", err)
		}
		log.Printf("Query successful: %d nodes, %d ways", len(doc.Nodes), len(doc.Ways))
		rows = osm.ExtractRoads(doc)
	}

	log.Printf("Writing %d rows to %s...", len(rows), *output)
	if err := roads.WriteTable(*output, *extent, rows); err != nil {
		log.Fatalf("Failed to write table: %v", err)
	}
	log.Printf("Done in %s", time.Since(start).Round(time.Millisecond))
}

package roads

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// tableHeader matches the column header row written by the query tool.
var tableHeader = []string{"Road #/id", "Waypoint id (Node)", "Lat", "Lon"}

// ReadResult holds a parsed waypoint table plus the rows that failed to
// parse. Skipped rows never abort the read.
type ReadResult struct {
	Extent    string // from the metadata row, if present
	Waypoints []Waypoint
	Skipped   []*MalformedRowError
}

// ReadTable reads a 4-column waypoint table (road_id, node_id, lat, lon).
// Up to two leading metadata rows (the extent row and the column header) are
// tolerated and ignored. Rows whose coordinates do not parse are recorded in
// Skipped and omitted from Waypoints.
func ReadTable(r io.Reader) (*ReadResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	res := &ReadResult{}
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read table: %w", err)
		}
		line++
		if len(record) == 0 {
			continue
		}
		if line == 1 && record[0] == "extent" {
			res.Extent = strings.Join(record[1:], ",")
			continue
		}

		w, rowErr := parseRow(record, line)
		if rowErr != nil {
			// The column header fails float parsing; tolerate it in a
			// leading metadata position. Any other unparseable row is a
			// bad data row and gets recorded.
			if line <= 2 && record[0] == tableHeader[0] {
				continue
			}
			res.Skipped = append(res.Skipped, rowErr)
			continue
		}
		res.Waypoints = append(res.Waypoints, w)
	}
}

func parseRow(record []string, line int) (Waypoint, *MalformedRowError) {
	if len(record) != 4 {
		return Waypoint{}, &MalformedRowError{Line: line, Field: "row", Value: strings.Join(record, ",")}
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return Waypoint{}, &MalformedRowError{Line: line, Field: "lat", Value: record[2]}
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return Waypoint{}, &MalformedRowError{Line: line, Field: "lon", Value: record[3]}
	}
	return Waypoint{RoadID: record[0], NodeID: record[1], Lat: lat, Lon: lon}, nil
}

// WriteRows writes the metadata header followed by the table rows.
func WriteRows(w io.Writer, extent string, rows []Waypoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"extent"}, strings.Split(extent, ",")...)); err != nil {
		return err
	}
	if err := cw.Write(tableHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.RoadID,
			r.NodeID,
			strconv.FormatFloat(r.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.Lon, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFileAtomic writes a file through write to a temp path and renames it
// into place so a failed run never leaves a truncated output.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	if err := write(f); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// WriteTable writes a waypoint table to path atomically.
func WriteTable(path, extent string, rows []Waypoint) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		if err := WriteRows(w, extent, rows); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
		return nil
	})
}

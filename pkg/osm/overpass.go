// Package osm extracts road waypoint tables from OpenStreetMap data, either
// an Overpass API response or a local PBF extract.
package osm

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/paulmach/osm"
)

// DefaultEndpoint is the public Overpass interpreter.
const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

// highwayQuery selects every highway-tagged way in the bbox plus the nodes
// they reference. The extent is "south,west,north,east" in degrees.
const highwayQuery = `[out:xml][bbox:%s];
(
  way[highway];
);
out body;
(._;>;);
out skel qt;`

// QueryHighways posts the highway extraction query for the extent to an
// Overpass interpreter and decodes the XML response. One request, no
// retries; retry policy belongs to the caller.
func QueryHighways(ctx context.Context, client *http.Client, endpoint, extent string) (*osm.OSM, error) {
	if client == nil {
		client = http.DefaultClient
	}
	query := fmt.Sprintf(highwayQuery, extent)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read overpass response: %w", err)
	}
	return DecodeXML(data)
}

// DecodeXML decodes an OSM XML document.
func DecodeXML(data []byte) (*osm.OSM, error) {
	var o osm.OSM
	if err := xml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("decode osm xml: %w", err)
	}
	return &o, nil
}

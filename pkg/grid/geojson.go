package grid

import (
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection renders cells and their accumulated in-cell road lengths
// as a GeoJSON feature collection. lengths[i] pairs with cells[i]; a short
// lengths slice leaves the remaining cells at zero.
func FeatureCollection(cells []Cell, lengths []float64) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, c := range cells {
		f := geojson.NewFeature(c.Bound().ToPolygon())
		f.Properties["cell"] = c.Label(i)
		var km float64
		if i < len(lengths) {
			km = lengths[i]
		}
		f.Properties["length_km"] = km
		fc.Append(f)
	}
	return fc
}

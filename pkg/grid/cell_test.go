package grid

import (
	"errors"
	"testing"

	"roadgrid/pkg/roads"
)

func TestCellContains(t *testing.T) {
	cell := Cell{MinLat: 0, MinLon: 0, MaxLat: 1, MaxLon: 1}

	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"interior", 0.5, 0.5, true},
		{"on south edge", 0, 0.5, false},
		{"on east edge", 0.5, 1, false},
		{"corner", 1, 1, false},
		{"outside", 1.5, 1.5, false},
		{"just inside max", 0.999999, 0.999999, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cell.Contains(tt.lat, tt.lon); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestCellValidate(t *testing.T) {
	good := Cell{MinLat: 0, MinLon: 0, MaxLat: 1, MaxLon: 1}
	if err := good.Validate(); err != nil {
		t.Errorf("valid cell rejected: %v", err)
	}

	bad := []Cell{
		{MinLat: 1, MinLon: 0, MaxLat: 0, MaxLon: 1}, // lat inverted
		{MinLat: 0, MinLon: 1, MaxLat: 1, MaxLon: 0}, // lon inverted
		{MinLat: 0, MinLon: 0, MaxLat: 0, MaxLon: 1}, // lat degenerate
	}
	for _, c := range bad {
		if err := c.Validate(); !errors.Is(err, roads.ErrInvalidParameter) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidParameter", c, err)
		}
	}
}

func TestParseExtent(t *testing.T) {
	c, err := ParseExtent("40.0853,-75.4005,40.1186,-75.3549")
	if err != nil {
		t.Fatalf("ParseExtent: %v", err)
	}
	want := Cell{MinLat: 40.0853, MinLon: -75.4005, MaxLat: 40.1186, MaxLon: -75.3549}
	if c != want {
		t.Errorf("got %+v, want %+v", c, want)
	}

	for _, s := range []string{"", "1,2,3", "n,w,s,e", "1,2,0.5,3"} {
		if _, err := ParseExtent(s); !errors.Is(err, roads.ErrInvalidParameter) {
			t.Errorf("ParseExtent(%q) = %v, want ErrInvalidParameter", s, err)
		}
	}
}

func TestCellLabel(t *testing.T) {
	c := Cell{MinLat: 0, MinLon: 0, MaxLat: 1, MaxLon: 1}
	if got := c.Label(3); got != "0,0,1,1_3" {
		t.Errorf("Label = %q", got)
	}
}

func TestGenerate(t *testing.T) {
	extent := Cell{MinLat: 40, MinLon: -76, MaxLat: 41, MaxLon: -74}
	cells, err := Generate(extent, 2, 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cells) != 6 {
		t.Fatalf("got %d cells, want 6", len(cells))
	}

	for i, c := range cells {
		if err := c.Validate(); err != nil {
			t.Errorf("cell %d invalid: %v", i, err)
		}
	}

	// Outer bounds are carried through exactly.
	if cells[0].MinLat != extent.MinLat || cells[0].MinLon != extent.MinLon {
		t.Errorf("southwest cell = %+v", cells[0])
	}
	last := cells[len(cells)-1]
	if last.MaxLat != extent.MaxLat || last.MaxLon != extent.MaxLon {
		t.Errorf("northeast cell = %+v", last)
	}

	// West-to-east then south-to-north, edge-to-edge.
	if cells[0].MaxLon != cells[1].MinLon {
		t.Errorf("row not contiguous: %+v then %+v", cells[0], cells[1])
	}
	if cells[0].MaxLat != cells[2].MinLat {
		t.Errorf("columns not contiguous: %+v then %+v", cells[0], cells[2])
	}

	if _, err := Generate(extent, 0, 3); !errors.Is(err, roads.ErrInvalidParameter) {
		t.Errorf("Generate(0 columns) = %v, want ErrInvalidParameter", err)
	}
	if _, err := Generate(Cell{MinLat: 1, MaxLat: 0, MinLon: 0, MaxLon: 1}, 1, 1); !errors.Is(err, roads.ErrInvalidParameter) {
		t.Errorf("Generate(bad extent) = %v, want ErrInvalidParameter", err)
	}
}

package domain

import "fmt"

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Validate checks min <= max on both axes.
func (b Bounds) Validate() error {
	if b.MinLat > b.MaxLat {
		return fmt.Errorf("%w: min_lat %g > max_lat %g", ErrInvalidRegion, b.MinLat, b.MaxLat)
	}
	if b.MinLon > b.MaxLon {
		return fmt.Errorf("%w: min_lon %g > max_lon %g", ErrInvalidRegion, b.MinLon, b.MaxLon)
	}
	return nil
}

// Axis selects which span of a bounding box gets subdivided.
type Axis string

const (
	AxisLongitude Axis = "lon"
	AxisLatitude  Axis = "lat"
)

// ParseAxis accepts the short, long and legacy column/row spellings.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "lon", "longitude", "col", "column", "columns":
		return AxisLongitude, nil
	case "lat", "latitude", "row", "rows":
		return AxisLatitude, nil
	}
	return "", fmt.Errorf("%w: unknown axis %q", ErrInvalidRegion, s)
}

// Grid is the result of subdividing a region along one axis.
type Grid struct {
	Axis  Axis     `json:"axis"`
	Outer Bounds   `json:"outer"` // outer bounds rounded to one decimal
	Step  float64  `json:"step"`  // step rounded to one decimal
	Cells []Bounds `json:"cells"`
}

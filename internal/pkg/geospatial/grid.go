// Package geospatial holds the flat decimal arithmetic used to partition query regions.
package geospatial

import "github.com/shopspring/decimal"

// Box is an axis-aligned bounding box in decimal degrees.
type Box struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Subdivision is the result of partitioning a box along one axis.
// Outer and Step are the one-decimal rounded inputs; Cells are built from the
// unrounded generator values and are not re-rounded.
type Subdivision struct {
	Outer Box
	Step  float64
	Cells []Box
}

// RoundCoord rounds v to one decimal place, half to even, on its shortest decimal form.
func RoundCoord(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).RoundBank(1)
}

// DRange returns start, start+s, start+2s, ... while value+step <= stop, where s is
// step rounded to one decimal. The comparison uses the raw step, the increment the
// rounded one. Returns nil when the range is degenerate or the rounded step is zero.
func DRange(start, stop, step float64) []decimal.Decimal {
	inc := RoundCoord(step)
	if step <= 0 || !inc.IsPositive() {
		return nil
	}

	raw := decimal.NewFromFloat(step)
	limit := decimal.NewFromFloat(stop)

	var out []decimal.Decimal
	for r := decimal.NewFromFloat(start); r.Add(raw).LessThanOrEqual(limit); r = r.Add(inc) {
		out = append(out, r)
	}
	return out
}

// SubdivideByLongitude keeps the latitude span and splits longitude into step-wide columns.
func SubdivideByLongitude(minLat, maxLat, minLon, maxLon, step float64) Subdivision {
	edges := DRange(minLon, maxLon, step)
	inc := RoundCoord(step)

	sub := Subdivision{
		Outer: Box{
			MinLat: minLat,
			MaxLat: maxLat,
			MinLon: RoundCoord(minLon).InexactFloat64(),
			MaxLon: RoundCoord(maxLon).InexactFloat64(),
		},
		Step:  inc.InexactFloat64(),
		Cells: make([]Box, 0, len(edges)),
	}
	for _, lo := range edges {
		sub.Cells = append(sub.Cells, Box{
			MinLat: minLat,
			MaxLat: maxLat,
			MinLon: lo.InexactFloat64(),
			MaxLon: lo.Add(inc).InexactFloat64(),
		})
	}
	return sub
}

// SubdivideByLatitude keeps the longitude span and splits latitude into step-tall rows.
func SubdivideByLatitude(minLat, maxLat, minLon, maxLon, step float64) Subdivision {
	edges := DRange(minLat, maxLat, step)
	inc := RoundCoord(step)

	sub := Subdivision{
		Outer: Box{
			MinLat: RoundCoord(minLat).InexactFloat64(),
			MaxLat: RoundCoord(maxLat).InexactFloat64(),
			MinLon: minLon,
			MaxLon: maxLon,
		},
		Step:  inc.InexactFloat64(),
		Cells: make([]Box, 0, len(edges)),
	}
	for _, lo := range edges {
		sub.Cells = append(sub.Cells, Box{
			MinLat: lo.InexactFloat64(),
			MaxLat: lo.Add(inc).InexactFloat64(),
			MinLon: minLon,
			MaxLon: maxLon,
		})
	}
	return sub
}

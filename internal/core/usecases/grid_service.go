package usecases

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/biogrid/internal/core/domain"
	"github.com/samirrijal/biogrid/internal/pkg/geospatial"
	"github.com/samirrijal/biogrid/internal/pkg/metrics"
	"github.com/samirrijal/biogrid/internal/pkg/telemetry"
)

// GridService partitions query regions into grid cells.
type GridService struct{}

// NewGridService creates a new GridService.
func NewGridService() *GridService {
	return &GridService{}
}

// Subdivide splits bounds along axis into step-wide cells. A range too small to
// hold a single step yields a grid with no cells, not an error.
func (s *GridService) Subdivide(ctx context.Context, bounds domain.Bounds, step float64, axis domain.Axis) (*domain.Grid, error) {
	_, span := otel.Tracer(telemetry.TracerName).Start(ctx, "GridService.Subdivide")
	defer span.End()

	if step <= 0 {
		return nil, fmt.Errorf("%w: step must be positive, got %g", domain.ErrInvalidRegion, step)
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}

	var sub geospatial.Subdivision
	switch axis {
	case domain.AxisLongitude:
		sub = geospatial.SubdivideByLongitude(bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon, step)
	case domain.AxisLatitude:
		sub = geospatial.SubdivideByLatitude(bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon, step)
	default:
		return nil, fmt.Errorf("%w: unknown axis %q", domain.ErrInvalidRegion, axis)
	}

	grid := &domain.Grid{
		Axis:  axis,
		Outer: fromBox(sub.Outer),
		Step:  sub.Step,
		Cells: make([]domain.Bounds, len(sub.Cells)),
	}
	for i, c := range sub.Cells {
		grid.Cells[i] = fromBox(c)
	}

	span.SetAttributes(
		attribute.String(telemetry.AttrGridAxis, string(axis)),
		attribute.Int(telemetry.AttrGridCells, len(grid.Cells)),
	)
	metrics.GridCells.WithLabelValues(string(axis)).Observe(float64(len(grid.Cells)))

	return grid, nil
}

func fromBox(b geospatial.Box) domain.Bounds {
	return domain.Bounds{MinLat: b.MinLat, MaxLat: b.MaxLat, MinLon: b.MinLon, MaxLon: b.MaxLon}
}

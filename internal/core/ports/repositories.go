package ports

import (
	"context"

	"github.com/samirrijal/biogrid/internal/core/domain"
)

// BatchRepository persists ingested observation batches.
type BatchRepository interface {
	Create(ctx context.Context, batch *domain.Batch) error
	GetByID(ctx context.Context, id string) (*domain.Batch, error)
}

// ReportRepository persists generated reports.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	// List returns one page of summaries, newest first, and the total count.
	List(ctx context.Context, offset, limit int) ([]domain.ReportSummary, int, error)
}

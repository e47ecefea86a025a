package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/biogrid/internal/core/domain"
	"github.com/samirrijal/biogrid/internal/core/ports"
	"github.com/samirrijal/biogrid/internal/pkg/metrics"
)

// BatchService stores observation batches handed over by the mining step.
type BatchService struct {
	batches   ports.BatchRepository
	publisher ports.EventPublisher
}

// NewBatchService creates a new BatchService. publisher may be nil.
func NewBatchService(batches ports.BatchRepository, publisher ports.EventPublisher) *BatchService {
	return &BatchService{batches: batches, publisher: publisher}
}

// Ingest assigns an ID, stores the batch and announces it.
func (s *BatchService) Ingest(ctx context.Context, name string, mappings []domain.ObservationMap) (*domain.Batch, error) {
	if len(mappings) == 0 {
		return nil, fmt.Errorf("batch %q has no observation mappings", name)
	}

	batch := &domain.Batch{
		ID:        uuid.NewString(),
		Name:      name,
		Mappings:  mappings,
		CreatedAt: time.Now().UTC(),
	}
	for _, m := range mappings {
		batch.ObservationCount += m.Count()
	}

	if err := s.batches.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	metrics.BatchesIngested.Inc()
	metrics.ObservationsIngested.Add(float64(batch.ObservationCount))

	if s.publisher != nil {
		if err := s.publisher.PublishBatchIngested(ctx, batch); err != nil {
			slog.Warn("publish batch ingested", "batch_id", batch.ID, "error", err)
		}
	}

	return batch, nil
}

// GetByID returns a stored batch.
func (s *BatchService) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	return s.batches.GetByID(ctx, id)
}

package ports

import (
	"context"

	"github.com/samirrijal/biogrid/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishBatchIngested(ctx context.Context, batch *domain.Batch) error
	PublishReportGenerated(ctx context.Context, report domain.ReportSummary) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeBatchIngested(ctx context.Context, handler func(ctx context.Context, batchID string) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// Notifier surfaces non-fatal problems to the user.
type Notifier interface {
	Notify(ctx context.Context, message, detail string) error
}

// Exporter writes a report body, preceded by an optional header, to a destination.
type Exporter interface {
	Export(ctx context.Context, dest, body, header string) error
}

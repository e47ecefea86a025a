package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/biogrid/internal/core/domain"
	"github.com/samirrijal/biogrid/internal/core/usecases"
)

func sampleMappings() []domain.ObservationMap {
	return []domain.ObservationMap{
		{
			0: {
				"Foo": {{SequenceID: 1, Latitude: 10.123456, Longitude: -70.654321, Source: "GBIF"}},
				"Bar": {{SequenceID: 2, Latitude: 10.123456, Longitude: -70.654321, Source: "GBIF"}},
			},
		},
		{
			3: {"Baz": {{SequenceID: 7, Latitude: -5.5, Longitude: 12.25, Source: "BOLD"}}},
		},
	}
}

func TestBatchService_Ingest(t *testing.T) {
	var stored *domain.Batch
	repo := &mockBatchRepo{
		createFn: func(ctx context.Context, batch *domain.Batch) error {
			stored = batch
			return nil
		},
	}
	pub := &mockPublisher{}

	svc := usecases.NewBatchService(repo, pub)

	batch, err := svc.Ingest(context.Background(), "survey-2024", sampleMappings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.ID == "" {
		t.Fatal("expected an ID to be assigned")
	}
	if stored != batch {
		t.Error("expected batch to be stored")
	}
	if batch.ObservationCount != 3 {
		t.Errorf("expected 3 observations, got %d", batch.ObservationCount)
	}
	if len(pub.batches) != 1 || pub.batches[0] != batch.ID {
		t.Errorf("expected one publish for %s, got %v", batch.ID, pub.batches)
	}
}

func TestBatchService_Ingest_Empty(t *testing.T) {
	svc := usecases.NewBatchService(&mockBatchRepo{}, nil)

	if _, err := svc.Ingest(context.Background(), "empty", nil); err == nil {
		t.Fatal("expected error for batch without mappings")
	}
}

func TestBatchService_Ingest_RepoError(t *testing.T) {
	repo := &mockBatchRepo{
		createFn: func(ctx context.Context, batch *domain.Batch) error {
			return errors.New("db down")
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewBatchService(repo, pub)

	if _, err := svc.Ingest(context.Background(), "x", sampleMappings()); err == nil {
		t.Fatal("expected error")
	}
	if len(pub.batches) != 0 {
		t.Error("nothing should be published when the store fails")
	}
}

func TestBatchService_Ingest_PublishErrorIgnored(t *testing.T) {
	pub := &mockPublisher{err: errors.New("nats unavailable")}
	svc := usecases.NewBatchService(&mockBatchRepo{}, pub)

	if _, err := svc.Ingest(context.Background(), "x", sampleMappings()); err != nil {
		t.Fatalf("publish failure should not fail ingest: %v", err)
	}
}

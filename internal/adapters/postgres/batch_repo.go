package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/biogrid/internal/core/domain"
)

// BatchRepo implements ports.BatchRepository.
type BatchRepo struct {
	db *DB
}

func NewBatchRepo(db *DB) *BatchRepo {
	return &BatchRepo{db: db}
}

// Create stores the batch header and its mappings in one transaction.
func (r *BatchRepo) Create(ctx context.Context, b *domain.Batch) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `
		INSERT INTO batches (id, name, observation_count, created_at)
		VALUES ($1, $2, $3, $4)
	`, b.ID, b.Name, b.ObservationCount, b.CreatedAt); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	batch := &pgx.Batch{}
	for i, m := range b.Mappings {
		payload, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode mapping %d: %w", i, err)
		}
		batch.Queue(`
			INSERT INTO batch_mappings (batch_id, position, payload)
			VALUES ($1, $2, $3)
		`, b.ID, i, payload)
	}
	br := tx.SendBatch(ctx, batch)
	for range b.Mappings {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("batch close: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByID returns a batch with its mappings in their original order.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	if err := validID("batch", id); err != nil {
		return nil, err
	}

	var b domain.Batch
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, observation_count, created_at
		FROM batches WHERE id = $1
	`, id).Scan(&b.ID, &b.Name, &b.ObservationCount, &b.CreatedAt)
	if err != nil {
		return nil, notFound(err, "batch", id)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT payload FROM batch_mappings
		WHERE batch_id = $1 ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query mappings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var m domain.ObservationMap
		if err := json.Unmarshal(payload, &m); err != nil {
			return nil, fmt.Errorf("decode mapping: %w", err)
		}
		b.Mappings = append(b.Mappings, m)
	}
	return &b, rows.Err()
}

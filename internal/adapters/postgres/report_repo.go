package postgres

import (
	"context"
	"fmt"

	"github.com/samirrijal/biogrid/internal/core/domain"
)

// ReportRepo implements ports.ReportRepository.
type ReportRepo struct {
	db *DB
}

func NewReportRepo(db *DB) *ReportRepo {
	return &ReportRepo{db: db}
}

func (r *ReportRepo) Create(ctx context.Context, rep *domain.Report) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO reports (id, batch_id, sites, sequences, site_count, sequence_count, mapping_count, created_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`, rep.ID, rep.BatchID, rep.Sites, rep.Sequences,
		rep.SiteCount, rep.SequenceCount, rep.MappingCount, rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *ReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	if err := validID("report", id); err != nil {
		return nil, err
	}

	var rep domain.Report
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, COALESCE(batch_id::text, ''), sites, sequences,
		       site_count, sequence_count, mapping_count, created_at
		FROM reports WHERE id = $1
	`, id).Scan(
		&rep.ID, &rep.BatchID, &rep.Sites, &rep.Sequences,
		&rep.SiteCount, &rep.SequenceCount, &rep.MappingCount, &rep.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, "report", id)
	}
	return &rep, nil
}

// List returns summaries newest first with the total row count.
func (r *ReportRepo) List(ctx context.Context, offset, limit int) ([]domain.ReportSummary, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM reports`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, COALESCE(batch_id::text, ''), site_count, sequence_count, mapping_count, created_at
		FROM reports
		ORDER BY created_at DESC, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []domain.ReportSummary
	for rows.Next() {
		var s domain.ReportSummary
		if err := rows.Scan(&s.ID, &s.BatchID, &s.SiteCount, &s.SequenceCount, &s.MappingCount, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/biogrid/internal/core/domain"
	"github.com/samirrijal/biogrid/internal/core/ports"
	"github.com/samirrijal/biogrid/internal/pkg/metrics"
	"github.com/samirrijal/biogrid/internal/pkg/telemetry"
)

// ReportOptions controls where and how reports are exported and cached.
type ReportOptions struct {
	ExportDir string
	Headers   bool
	CacheTTL  int // seconds
}

// ExportResult lists the files written for a report. Warnings carry writer
// failures, which do not fail the export call.
type ExportResult struct {
	ReportID      string   `json:"report_id"`
	SitesPath     string   `json:"sites_path"`
	SequencesPath string   `json:"sequences_path"`
	Warnings      []string `json:"warnings,omitempty"`
}

// ReportService turns observation mappings into stored site and sequence reports.
type ReportService struct {
	reports   ports.ReportRepository
	batches   ports.BatchRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
	exporter  ports.Exporter
	opts      ReportOptions
}

// NewReportService creates a new ReportService. cache, publisher and exporter may be nil.
func NewReportService(
	reports ports.ReportRepository,
	batches ports.BatchRepository,
	cache ports.CacheService,
	publisher ports.EventPublisher,
	exporter ports.Exporter,
	opts ReportOptions,
) *ReportService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 600
	}
	return &ReportService{
		reports:   reports,
		batches:   batches,
		cache:     cache,
		publisher: publisher,
		exporter:  exporter,
		opts:      opts,
	}
}

// BuildReport aggregates mappings into an unsaved report without an ID.
func BuildReport(mappings []domain.ObservationMap) *domain.Report {
	start := time.Now()
	c := aggregateAll(mappings)
	metrics.AggregationDuration.Observe(time.Since(start).Seconds())

	return &domain.Report{
		Sites:         c.sites,
		Sequences:     c.sequences,
		SiteCount:     c.siteRows,
		SequenceCount: c.sequenceRows,
		MappingCount:  len(mappings),
	}
}

// batchReportSpace namespaces report IDs derived from batch IDs.
var batchReportSpace = uuid.MustParse("8f0c6a52-3d1e-4b8a-9a57-0e6f2c1d7b34")

// ReportIDForBatch is the fixed report ID for a batch, so regenerating a batch
// report returns the stored one instead of adding a row.
func ReportIDForBatch(batchID string) string {
	return uuid.NewSHA1(batchReportSpace, []byte(batchID)).String()
}

// Create aggregates mappings, stores the resulting report and announces it.
func (s *ReportService) Create(ctx context.Context, mappings []domain.ObservationMap) (*domain.Report, error) {
	return s.create(ctx, uuid.NewString(), "", mappings)
}

// GenerateForBatch builds and stores the report for a previously ingested batch.
// Calling it again for the same batch returns the report already stored.
func (s *ReportService) GenerateForBatch(ctx context.Context, batchID string) (*domain.Report, error) {
	batch, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("get batch %s: %w", batchID, err)
	}

	id := ReportIDForBatch(batch.ID)
	existing, err := s.reports.GetByID(ctx, id)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("get report for batch %s: %w", batch.ID, err)
	}
	return s.create(ctx, id, batch.ID, batch.Mappings)
}

func (s *ReportService) create(ctx context.Context, id, batchID string, mappings []domain.ObservationMap) (*domain.Report, error) {
	ctx, span := otel.Tracer(telemetry.TracerName).Start(ctx, "ReportService.Create")
	defer span.End()

	report := BuildReport(mappings)
	report.ID = id
	report.BatchID = batchID
	report.CreatedAt = time.Now().UTC()

	span.AddEvent(telemetry.EventAggregated)
	span.SetAttributes(
		attribute.String(telemetry.AttrReportID, report.ID),
		attribute.String(telemetry.AttrBatchID, report.BatchID),
		attribute.Int(telemetry.AttrReportMappings, report.MappingCount),
		attribute.Int(telemetry.AttrReportSites, report.SiteCount),
		attribute.Int(telemetry.AttrReportSequenceKeys, report.SequenceCount),
	)

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	span.AddEvent(telemetry.EventStored)

	metrics.ReportsGenerated.Inc()
	metrics.SitesEmitted.Add(float64(report.SiteCount))
	metrics.SequenceKeysEmitted.Add(float64(report.SequenceCount))

	if s.publisher != nil {
		if err := s.publisher.PublishReportGenerated(ctx, report.Summary()); err != nil {
			slog.Warn("publish report generated", "report_id", report.ID, "error", err)
		}
	}

	return report, nil
}

// GetByID returns a single report, read through the cache.
func (s *ReportService) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	cacheKey := "reports:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var report domain.Report
			if err := json.Unmarshal(data, &report); err == nil {
				metrics.CacheHits.WithLabelValues("report").Inc()
				return &report, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("report").Inc()
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(report); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.opts.CacheTTL)
		}
	}

	return report, nil
}

// List returns a page of report summaries and the total count.
func (s *ReportService) List(ctx context.Context, offset, limit int) ([]domain.ReportSummary, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reports.List(ctx, offset, limit)
}

// Export writes the site and sequence texts of a report under the export directory.
// Write failures become warnings on the result.
func (s *ReportService) Export(ctx context.Context, id string) (*ExportResult, error) {
	if s.exporter == nil {
		return nil, fmt.Errorf("export is not configured")
	}

	report, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &ExportResult{
		ReportID:      report.ID,
		SitesPath:     filepath.Join(s.opts.ExportDir, report.ID+"_sites.csv"),
		SequencesPath: filepath.Join(s.opts.ExportDir, report.ID+"_sequences.csv"),
	}

	siteHeader, seqHeader := "", ""
	if s.opts.Headers {
		siteHeader, seqHeader = SiteHeader, SequenceHeader
	}

	if err := s.exporter.Export(ctx, res.SitesPath, report.Sites, siteHeader); err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	}
	if err := s.exporter.Export(ctx, res.SequencesPath, report.Sequences, seqHeader); err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	}

	return res, nil
}

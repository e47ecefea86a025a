package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/biogrid/internal/core/domain"
	"github.com/samirrijal/biogrid/internal/core/usecases"
)

// errTypeNotFound marks activity failures that retrying cannot fix.
const errTypeNotFound = "NotFound"

// ReportActivities holds the activity implementations for ReportWorkflow.
type ReportActivities struct {
	Reports *usecases.ReportService
}

// GenerateReport aggregates a stored batch and stores the report. Retries of a
// completed attempt return the report already stored for the batch.
func (a *ReportActivities) GenerateReport(ctx context.Context, batchID string) (ReportOutcome, error) {
	report, err := a.Reports.GenerateForBatch(ctx, batchID)
	if errors.Is(err, domain.ErrNotFound) {
		return ReportOutcome{}, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("batch %s not found", batchID), errTypeNotFound, err)
	}
	if err != nil {
		return ReportOutcome{}, fmt.Errorf("generate report for batch %s: %w", batchID, err)
	}
	activity.GetLogger(ctx).Info("report generated",
		"batchID", batchID, "reportID", report.ID, "sites", report.SiteCount)

	return ReportOutcome{
		ReportID:      report.ID,
		BatchID:       batchID,
		SiteCount:     report.SiteCount,
		SequenceCount: report.SequenceCount,
	}, nil
}

// ExportReport writes the report files. Write failures come back as warnings.
func (a *ReportActivities) ExportReport(ctx context.Context, reportID string) (*usecases.ExportResult, error) {
	res, err := a.Reports.Export(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("export report %s: %w", reportID, err)
	}
	return res, nil
}

package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/biogrid/internal/core/usecases"
)

// ReportInput is the input for ReportWorkflow.
type ReportInput struct {
	BatchID string
	Export  bool
}

// ReportOutcome summarises one workflow run.
type ReportOutcome struct {
	ReportID      string
	BatchID       string
	SiteCount     int
	SequenceCount int
	Exported      bool
	Warnings      []string
}

// WorkflowID gives each batch a single report workflow; starting it twice is rejected by Temporal.
func WorkflowID(batchID string) string {
	return "report-" + batchID
}

// ReportWorkflow generates the report for an ingested batch and optionally
// exports it. Export warnings are recorded on the outcome and never fail the run.
func ReportWorkflow(ctx workflow.Context, input ReportInput) (ReportOutcome, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting report workflow", "batchID", input.BatchID)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})

	var out ReportOutcome
	if err := workflow.ExecuteActivity(ctx, "GenerateReport", input.BatchID).Get(ctx, &out); err != nil {
		return ReportOutcome{}, err
	}
	if !input.Export {
		return out, nil
	}

	var res usecases.ExportResult
	if err := workflow.ExecuteActivity(ctx, "ExportReport", out.ReportID).Get(ctx, &res); err != nil {
		logger.Warn("report export failed", "reportID", out.ReportID, "error", err)
		out.Warnings = append(out.Warnings, err.Error())
		return out, nil
	}

	out.Exported = len(res.Warnings) == 0
	out.Warnings = append(out.Warnings, res.Warnings...)
	logger.Info("Report workflow finished", "reportID", out.ReportID, "exported", out.Exported)
	return out, nil
}

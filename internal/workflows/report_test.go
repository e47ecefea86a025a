package workflows

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/biogrid/internal/core/usecases"
)

func newEnv(t *testing.T) (*testsuite.TestWorkflowEnvironment, *ReportActivities) {
	t.Helper()
	var s testsuite.WorkflowTestSuite
	env := s.NewTestWorkflowEnvironment()
	acts := &ReportActivities{}
	env.RegisterWorkflow(ReportWorkflow)
	env.RegisterActivity(acts)
	return env, acts
}

func TestReportWorkflow_GenerateOnly(t *testing.T) {
	env, acts := newEnv(t)
	env.OnActivity(acts.GenerateReport, mock.Anything, "b-1").
		Return(ReportOutcome{ReportID: "r-1", BatchID: "b-1", SiteCount: 4}, nil)

	env.ExecuteWorkflow(ReportWorkflow, ReportInput{BatchID: "b-1"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out ReportOutcome
	require.NoError(t, env.GetWorkflowResult(&out))
	assert.Equal(t, "r-1", out.ReportID)
	assert.Equal(t, 4, out.SiteCount)
	assert.False(t, out.Exported)
	env.AssertExpectations(t)
}

func TestReportWorkflow_Export(t *testing.T) {
	env, acts := newEnv(t)
	env.OnActivity(acts.GenerateReport, mock.Anything, "b-2").
		Return(ReportOutcome{ReportID: "r-2", BatchID: "b-2"}, nil)
	env.OnActivity(acts.ExportReport, mock.Anything, "r-2").
		Return(&usecases.ExportResult{ReportID: "r-2", SitesPath: "out/r-2_sites.csv"}, nil)

	env.ExecuteWorkflow(ReportWorkflow, ReportInput{BatchID: "b-2", Export: true})

	require.NoError(t, env.GetWorkflowError())
	var out ReportOutcome
	require.NoError(t, env.GetWorkflowResult(&out))
	assert.True(t, out.Exported)
	assert.Empty(t, out.Warnings)
}

func TestReportWorkflow_ExportWarningsDoNotFail(t *testing.T) {
	env, acts := newEnv(t)
	env.OnActivity(acts.GenerateReport, mock.Anything, "b-3").
		Return(ReportOutcome{ReportID: "r-3"}, nil)
	env.OnActivity(acts.ExportReport, mock.Anything, "r-3").
		Return(&usecases.ExportResult{ReportID: "r-3", Warnings: []string{"export failed: locked"}}, nil)

	env.ExecuteWorkflow(ReportWorkflow, ReportInput{BatchID: "b-3", Export: true})

	require.NoError(t, env.GetWorkflowError())
	var out ReportOutcome
	require.NoError(t, env.GetWorkflowResult(&out))
	assert.False(t, out.Exported)
	assert.Equal(t, []string{"export failed: locked"}, out.Warnings)
}

func TestReportWorkflow_GenerateFails(t *testing.T) {
	env, acts := newEnv(t)
	env.OnActivity(acts.GenerateReport, mock.Anything, "b-4").
		Return(ReportOutcome{}, errors.New("database unavailable"))

	env.ExecuteWorkflow(ReportWorkflow, ReportInput{BatchID: "b-4", Export: true})

	require.True(t, env.IsWorkflowCompleted())
	assert.Error(t, env.GetWorkflowError())
}

func TestWorkflowID(t *testing.T) {
	assert.Equal(t, "report-abc", WorkflowID("abc"))
}

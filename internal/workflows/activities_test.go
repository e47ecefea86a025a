package workflows

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/biogrid/internal/core/domain"
	"github.com/samirrijal/biogrid/internal/core/usecases"
)

type memBatches struct{ batches map[string]*domain.Batch }

func (m *memBatches) Create(ctx context.Context, b *domain.Batch) error {
	m.batches[b.ID] = b
	return nil
}

func (m *memBatches) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	if b, ok := m.batches[id]; ok {
		return b, nil
	}
	return nil, domain.ErrNotFound
}

type memReports struct {
	mu      sync.Mutex
	reports map[string]*domain.Report
	creates int
}

func (m *memReports) Create(ctx context.Context, r *domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	m.reports[r.ID] = r
	return nil
}

func (m *memReports) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memReports) List(ctx context.Context, offset, limit int) ([]domain.ReportSummary, int, error) {
	return nil, 0, nil
}

func newActivities() (*ReportActivities, *memReports) {
	reports := &memReports{reports: map[string]*domain.Report{}}
	batches := &memBatches{batches: map[string]*domain.Batch{
		"b-1": {ID: "b-1", Mappings: []domain.ObservationMap{
			{0: {"Foo": {{SequenceID: 1, Latitude: 10.123456, Longitude: -70.654321, Source: "GBIF"}}}},
		}},
	}}
	svc := usecases.NewReportService(reports, batches, nil, nil, nil, usecases.ReportOptions{})
	return &ReportActivities{Reports: svc}, reports
}

func TestGenerateReport_RetryReturnsStoredReport(t *testing.T) {
	acts, reports := newActivities()
	var s testsuite.WorkflowTestSuite
	env := s.NewTestActivityEnvironment()
	env.RegisterActivity(acts)

	var first, second ReportOutcome
	val, err := env.ExecuteActivity(acts.GenerateReport, "b-1")
	require.NoError(t, err)
	require.NoError(t, val.Get(&first))

	val, err = env.ExecuteActivity(acts.GenerateReport, "b-1")
	require.NoError(t, err)
	require.NoError(t, val.Get(&second))

	assert.Equal(t, first.ReportID, second.ReportID)
	assert.Equal(t, usecases.ReportIDForBatch("b-1"), first.ReportID)
	assert.Equal(t, 1, first.SiteCount)
	assert.Equal(t, 1, reports.creates)
}

func TestGenerateReport_MissingBatchIsNotRetried(t *testing.T) {
	acts, _ := newActivities()
	var s testsuite.WorkflowTestSuite
	env := s.NewTestActivityEnvironment()
	env.RegisterActivity(acts)

	_, err := env.ExecuteActivity(acts.GenerateReport, "missing")
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr), "expected application error, got %v", err)
	assert.True(t, appErr.NonRetryable())
	assert.Equal(t, errTypeNotFound, appErr.Type())
}

package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/biogrid/internal/core/domain"
)

// --- Mock BatchRepository ---

type mockBatchRepo struct {
	createFn  func(ctx context.Context, batch *domain.Batch) error
	getByIDFn func(ctx context.Context, id string) (*domain.Batch, error)
}

func (m *mockBatchRepo) Create(ctx context.Context, batch *domain.Batch) error {
	if m.createFn != nil {
		return m.createFn(ctx, batch)
	}
	return nil
}

func (m *mockBatchRepo) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// --- Mock ReportRepository ---

type mockReportRepo struct {
	createFn  func(ctx context.Context, report *domain.Report) error
	getByIDFn func(ctx context.Context, id string) (*domain.Report, error)
	listFn    func(ctx context.Context, offset, limit int) ([]domain.ReportSummary, int, error)
}

func (m *mockReportRepo) Create(ctx context.Context, report *domain.Report) error {
	if m.createFn != nil {
		return m.createFn(ctx, report)
	}
	return nil
}

func (m *mockReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockReportRepo) List(ctx context.Context, offset, limit int) ([]domain.ReportSummary, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	batches []string
	reports []string
	err     error
}

func (m *mockPublisher) PublishBatchIngested(ctx context.Context, batch *domain.Batch) error {
	m.batches = append(m.batches, batch.ID)
	return m.err
}

func (m *mockPublisher) PublishReportGenerated(ctx context.Context, report domain.ReportSummary) error {
	m.reports = append(m.reports, report.ID)
	return m.err
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: make(map[string][]byte)} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock Exporter ---

type exportCall struct {
	dest, body, header string
}

type mockExporter struct {
	calls  []exportCall
	failOn map[string]error
}

func (m *mockExporter) Export(ctx context.Context, dest, body, header string) error {
	m.calls = append(m.calls, exportCall{dest: dest, body: body, header: header})
	if err, ok := m.failOn[dest]; ok {
		return err
	}
	return nil
}

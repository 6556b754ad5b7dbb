package db

import (
	"context"
	"sync"

	"github.com/TFMV/cohrank/types"
)

var _ DB = (*MockDB)(nil)

// MockDB is an in-memory report sink for tests. Reports passed to StoreReport
// are kept in order unless StoreReportFunc is set, in which case it decides.
type MockDB struct {
	InitializeFunc  func(ctx context.Context) error
	StoreReportFunc func(ctx context.Context, report types.Report) error

	mu      sync.Mutex
	reports []types.Report
}

func NewMockDB() *MockDB {
	return &MockDB{
		InitializeFunc: func(ctx context.Context) error {
			return nil
		},
	}
}

func (m *MockDB) Initialize(ctx context.Context) error {
	return m.InitializeFunc(ctx)
}

func (m *MockDB) StoreReport(ctx context.Context, report types.Report) error {
	if m.StoreReportFunc != nil {
		return m.StoreReportFunc(ctx, report)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, report)
	return nil
}

// Reports returns the reports stored so far in call order.
func (m *MockDB) Reports() []types.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Report(nil), m.reports...)
}

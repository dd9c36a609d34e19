package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	m "mutate.dev/pkg/mutate/internal/model"
)

// MockReportStore is a mock of adapter.ReportStore.
type MockReportStore struct {
	mock.Mock
}

// NewMockReportStore creates a MockReportStore whose expectations are
// asserted when the test ends.
func NewMockReportStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReportStore {
	mocked := &MockReportStore{}
	mocked.Test(t)

	t.Cleanup(func() { mocked.AssertExpectations(t) })

	return mocked
}

// SaveReport implements adapter.ReportStore.
func (_m *MockReportStore) SaveReport(ctx context.Context, dir m.Path, report m.Report) (m.Path, error) {
	ret := _m.Called(ctx, dir, report)

	return ret.Get(0).(m.Path), ret.Error(1)
}

// LoadReport implements adapter.ReportStore.
func (_m *MockReportStore) LoadReport(ctx context.Context, path m.Path) (m.Report, error) {
	ret := _m.Called(ctx, path)

	return ret.Get(0).(m.Report), ret.Error(1)
}

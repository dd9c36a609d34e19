package mocks

import (
	"github.com/stretchr/testify/mock"
	m "mutate.dev/pkg/mutate/internal/model"
)

// MockMetricsAdapter is a mock of adapter.MetricsAdapter.
type MockMetricsAdapter struct {
	mock.Mock
}

// NewMockMetricsAdapter creates a MockMetricsAdapter whose expectations are
// asserted when the test ends.
func NewMockMetricsAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMetricsAdapter {
	mocked := &MockMetricsAdapter{}
	mocked.Test(t)

	t.Cleanup(func() { mocked.AssertExpectations(t) })

	return mocked
}

// ObserveResult implements adapter.MetricsAdapter.
func (_m *MockMetricsAdapter) ObserveResult(result m.MutantResult) {
	_m.Called(result)
}

// ObserveSummary implements adapter.MetricsAdapter.
func (_m *MockMetricsAdapter) ObserveSummary(summary m.Summary) {
	_m.Called(summary)
}

// WriteTextfile implements adapter.MetricsAdapter.
func (_m *MockMetricsAdapter) WriteTextfile(path m.Path) error {
	return _m.Called(path).Error(0)
}

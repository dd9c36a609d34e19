// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"mutate.dev/pkg/mutate/internal/adapter"
)

// MockTestRunnerAdapter is a mock of adapter.TestRunnerAdapter.
type MockTestRunnerAdapter struct {
	mock.Mock
}

// NewMockTestRunnerAdapter creates a MockTestRunnerAdapter whose
// expectations are asserted when the test ends.
func NewMockTestRunnerAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTestRunnerAdapter {
	mocked := &MockTestRunnerAdapter{}
	mocked.Test(t)

	t.Cleanup(func() { mocked.AssertExpectations(t) })

	return mocked
}

// Run implements adapter.TestRunnerAdapter.
func (_m *MockTestRunnerAdapter) Run(ctx context.Context, workDir string, command []string, timeout time.Duration) (adapter.RunResult, error) {
	ret := _m.Called(ctx, workDir, command, timeout)

	if fn, ok := ret.Get(0).(func(context.Context, string, []string, time.Duration) (adapter.RunResult, error)); ok {
		return fn(ctx, workDir, command, timeout)
	}

	return ret.Get(0).(adapter.RunResult), ret.Error(1)
}

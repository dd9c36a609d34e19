// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	m "mutate.dev/pkg/mutate/internal/model"
)

// MockOrchestrator is a mock of domain.Orchestrator.
type MockOrchestrator struct {
	mock.Mock
}

// NewMockOrchestrator creates a MockOrchestrator whose expectations are
// asserted when the test ends.
func NewMockOrchestrator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOrchestrator {
	mocked := &MockOrchestrator{}
	mocked.Test(t)

	t.Cleanup(func() { mocked.AssertExpectations(t) })

	return mocked
}

// TestMutant implements domain.Orchestrator.
func (_m *MockOrchestrator) TestMutant(ctx context.Context, campaign m.Campaign, mutant m.Mutant) (m.MutantResult, error) {
	ret := _m.Called(ctx, campaign, mutant)

	if fn, ok := ret.Get(0).(func(context.Context, m.Campaign, m.Mutant) (m.MutantResult, error)); ok {
		return fn(ctx, campaign, mutant)
	}

	return ret.Get(0).(m.MutantResult), ret.Error(1)
}

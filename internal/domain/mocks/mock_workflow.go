package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	m "mutate.dev/pkg/mutate/internal/model"
)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a MockWorkflow whose expectations are asserted
// when the test ends.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mocked := &MockWorkflow{}
	mocked.Test(t)

	t.Cleanup(func() { mocked.AssertExpectations(t) })

	return mocked
}

// Run implements domain.Workflow.
func (_m *MockWorkflow) Run(ctx context.Context, campaign m.Campaign) ([]m.MutantResult, error) {
	ret := _m.Called(ctx, campaign)

	var results []m.MutantResult
	if v := ret.Get(0); v != nil {
		results = v.([]m.MutantResult)
	}

	return results, ret.Error(1)
}

// Estimate implements domain.Workflow.
func (_m *MockWorkflow) Estimate(ctx context.Context, campaign m.Campaign) ([]m.Mutant, error) {
	ret := _m.Called(ctx, campaign)

	var mutants []m.Mutant
	if v := ret.Get(0); v != nil {
		mutants = v.([]m.Mutant)
	}

	return mutants, ret.Error(1)
}

// Count implements domain.Workflow.
func (_m *MockWorkflow) Count(ctx context.Context, campaign m.Campaign) ([]m.MutantCount, error) {
	ret := _m.Called(ctx, campaign)

	var counts []m.MutantCount
	if v := ret.Get(0); v != nil {
		counts = v.([]m.MutantCount)
	}

	return counts, ret.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"mutate.dev/pkg/mutate/internal/domain/mutagens"
	m "mutate.dev/pkg/mutate/internal/model"
)

// MockMutagen is a mock of domain.Mutagen.
type MockMutagen struct {
	mock.Mock
}

// NewMockMutagen creates a MockMutagen whose expectations are asserted when
// the test ends.
func NewMockMutagen(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMutagen {
	mocked := &MockMutagen{}
	mocked.Test(t)

	t.Cleanup(func() { mocked.AssertExpectations(t) })

	return mocked
}

// GenerateMutants implements domain.Mutagen.
func (_m *MockMutagen) GenerateMutants(ctx context.Context, source m.Source, operator mutagens.Operator) ([]m.Mutant, error) {
	ret := _m.Called(ctx, source, operator)

	if fn, ok := ret.Get(0).(func(context.Context, m.Source, mutagens.Operator) ([]m.Mutant, error)); ok {
		return fn(ctx, source, operator)
	}

	var mutants []m.Mutant
	if v := ret.Get(0); v != nil {
		mutants = v.([]m.Mutant)
	}

	return mutants, ret.Error(1)
}

// CountMutants implements domain.Mutagen.
func (_m *MockMutagen) CountMutants(ctx context.Context, source m.Source, operator mutagens.Operator) (int, error) {
	ret := _m.Called(ctx, source, operator)

	return ret.Int(0), ret.Error(1)
}

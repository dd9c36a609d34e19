package mutagens

import (
	"fmt"
	"sort"

	m "mutate.dev/pkg/mutate/internal/model"
)

// UnitOperators returns the node-local operators.
func UnitOperators() []Operator {
	return []Operator{NewArithmetic(), NewRelational(), NewLogical()}
}

// IntegrationOperators returns the call and return boundary operators bound to
// the configured target names.
func IntegrationOperators(targets m.Targets) []Operator {
	return []Operator{
		NewParameterSwap(targets.ParameterSwap),
		NewCallDeletion(targets.CallDeletion),
		NewReturnNullification(),
	}
}

// Lookup builds the operator registered under name.
func Lookup(name string, targets m.Targets) (Operator, error) {
	switch name {
	case Arithmetic:
		return NewArithmetic(), nil
	case Relational:
		return NewRelational(), nil
	case Logical:
		return NewLogical(), nil
	case ParameterSwap:
		return NewParameterSwap(targets.ParameterSwap), nil
	case CallDeletion:
		return NewCallDeletion(targets.CallDeletion), nil
	case ReturnNullification:
		return NewReturnNullification(), nil
	default:
		return nil, fmt.Errorf("unsupported mutation operator: %s (known: %v)", name, Names())
	}
}

// Names lists every registered operator, sorted.
func Names() []string {
	names := []string{Arithmetic, Relational, Logical, ParameterSwap, CallDeletion, ReturnNullification}
	sort.Strings(names)

	return names
}

package mutagens

import (
	"go/token"

	m "mutate.dev/pkg/mutate/internal/model"
)

// Logical is the name of the logical connector swap operator.
const Logical = "logical"

var logicalSwaps = map[token.Token]token.Token{
	token.LAND: token.LOR,
	token.LOR:  token.LAND,
}

// NewLogical swaps && with ||.
func NewLogical() Operator {
	return operator{name: Logical, level: m.LevelUnit, visit: swapBinary(logicalSwaps)}
}

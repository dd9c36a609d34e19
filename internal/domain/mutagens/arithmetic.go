package mutagens

import (
	"go/token"

	m "mutate.dev/pkg/mutate/internal/model"
)

// Arithmetic is the name of the arithmetic swap operator.
const Arithmetic = "arithmetic"

var arithmeticSwaps = map[token.Token]token.Token{
	token.ADD: token.SUB,
	token.SUB: token.ADD,
	token.MUL: token.QUO,
	token.QUO: token.MUL,
}

// NewArithmetic swaps + with - and * with / at binary expressions.
func NewArithmetic() Operator {
	return operator{name: Arithmetic, level: m.LevelUnit, visit: swapBinary(arithmeticSwaps)}
}

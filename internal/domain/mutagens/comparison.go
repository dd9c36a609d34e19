package mutagens

import (
	"go/token"

	m "mutate.dev/pkg/mutate/internal/model"
)

// Relational is the name of the relational swap operator.
const Relational = "relational"

// relationalSwaps pairs each comparison with its boundary-adjacent
// counterpart.
var relationalSwaps = map[token.Token]token.Token{
	token.GTR: token.GEQ,
	token.GEQ: token.GTR,
	token.LSS: token.LEQ,
	token.LEQ: token.LSS,
	token.EQL: token.NEQ,
	token.NEQ: token.EQL,
}

// NewRelational swaps > with >=, < with <= and == with !=.
func NewRelational() Operator {
	return operator{name: Relational, level: m.LevelUnit, visit: swapBinary(relationalSwaps)}
}

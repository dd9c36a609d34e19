package mutagens

import (
	"go/ast"

	m "mutate.dev/pkg/mutate/internal/model"
)

// ParameterSwap is the name of the parameter swap operator.
const ParameterSwap = "parameter-swap"

// NewParameterSwap swaps the first two arguments of calls to any of the named
// functions. Names are matched on the call expression text only.
func NewParameterSwap(names []string) Operator {
	targets := nameSet(names)

	return operator{
		name:  ParameterSwap,
		level: m.LevelIntegration,
		visit: func(c *cursor, match func() bool) {
			call, ok := c.Node().(*ast.CallExpr)
			if !ok || len(call.Args) < 2 || !targeted(targets, call) {
				return
			}

			// f(a, b...) would move the spread onto a.
			if call.Ellipsis.IsValid() && len(call.Args) == 2 {
				return
			}

			if match() {
				call.Args[0], call.Args[1] = call.Args[1], call.Args[0]
			}
		},
	}
}

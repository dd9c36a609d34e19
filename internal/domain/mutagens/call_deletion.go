package mutagens

import (
	"go/ast"

	m "mutate.dev/pkg/mutate/internal/model"
)

// CallDeletion is the name of the call deletion operator.
const CallDeletion = "call-deletion"

// NewCallDeletion disables statement-level calls to any of the named
// procedures. The statement becomes `if false { call() }`: it never runs, yet
// every variable and import it referenced stays used, so the mutant compiles.
func NewCallDeletion(names []string) Operator {
	targets := nameSet(names)

	return operator{
		name:  CallDeletion,
		level: m.LevelIntegration,
		visit: func(c *cursor, match func() bool) {
			stmt, ok := c.Node().(*ast.ExprStmt)
			if !ok {
				return
			}

			call, ok := stmt.X.(*ast.CallExpr)
			if !ok || !targeted(targets, call) || !inStatementList(c) {
				return
			}

			if match() {
				c.Replace(disabled(stmt))
			}
		},
	}
}

// inStatementList reports whether the cursor sits where an if statement may
// replace it: a block or clause body, or under a label. Init and post slots
// of if/for/switch only take simple statements.
func inStatementList(c *cursor) bool {
	if c.Index() >= 0 {
		return true
	}

	_, ok := c.Parent().(*ast.LabeledStmt)

	return ok
}

func disabled(stmt *ast.ExprStmt) *ast.IfStmt {
	return &ast.IfStmt{
		If:   stmt.Pos(),
		Cond: &ast.Ident{NamePos: stmt.Pos(), Name: "false"},
		Body: &ast.BlockStmt{
			Lbrace: stmt.Pos(),
			List:   []ast.Stmt{stmt},
			Rbrace: stmt.End(),
		},
	}
}

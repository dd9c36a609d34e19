package mutagens

import (
	"go/ast"
	"go/token"

	m "mutate.dev/pkg/mutate/internal/model"
)

// ReturnNullification is the name of the return value operator.
const ReturnNullification = "return-nullification"

// nothing is used when the enclosing signature cannot be found.
const nothing = "nil"

// NewReturnNullification replaces the values of a return statement with the
// zero values of the enclosing function's result types. Bare returns are not
// eligible.
func NewReturnNullification() Operator {
	return operator{
		name:  ReturnNullification,
		level: m.LevelIntegration,
		visit: func(c *cursor, match func() bool) {
			ret, ok := c.Node().(*ast.ReturnStmt)
			if !ok || len(ret.Results) == 0 {
				return
			}

			if match() {
				ret.Results = zeroResults(c.signature, len(ret.Results))
			}
		},
	}
}

func zeroResults(signature *ast.FuncType, count int) []ast.Expr {
	types := resultTypes(signature)
	if len(types) == 0 {
		zeros := make([]ast.Expr, count)
		for i := range zeros {
			zeros[i] = ast.NewIdent(nothing)
		}

		return zeros
	}

	// `return f()` may forward several values; the signature decides.
	zeros := make([]ast.Expr, len(types))
	for i, typ := range types {
		zeros[i] = zeroValue(typ)
	}

	return zeros
}

// resultTypes expands grouped results: (a, b int, err error) gives three.
func resultTypes(signature *ast.FuncType) []ast.Expr {
	if signature == nil || signature.Results == nil {
		return nil
	}

	var types []ast.Expr

	for _, field := range signature.Results.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}

		for range n {
			types = append(types, field.Type)
		}
	}

	return types
}

// zeroValue spells the zero value of a type written as typ. Predeclared types
// get their literal; anything nilable gets nil; the rest gets *new(T), which
// is the zero value of any T, named or generic.
func zeroValue(typ ast.Expr) ast.Expr {
	switch t := typ.(type) {
	case *ast.Ident:
		switch t.Name {
		case "bool":
			return ast.NewIdent("false")
		case "string":
			return &ast.BasicLit{Kind: token.STRING, Value: `""`}
		case "int", "int8", "int16", "int32", "int64",
			"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
			"byte", "rune", "float32", "float64", "complex64", "complex128":
			return &ast.BasicLit{Kind: token.INT, Value: "0"}
		case "error", "any":
			return ast.NewIdent("nil")
		}
	case *ast.StarExpr, *ast.MapType, *ast.ChanType, *ast.FuncType, *ast.InterfaceType:
		return ast.NewIdent("nil")
	case *ast.ArrayType:
		if t.Len == nil {
			return ast.NewIdent("nil")
		}
	}

	return &ast.StarExpr{
		X: &ast.CallExpr{
			Fun:  ast.NewIdent("new"),
			Args: []ast.Expr{cloneExpr(typ)},
		},
	}
}

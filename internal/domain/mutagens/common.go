package mutagens

import (
	"go/ast"
	"go/token"
	"reflect"
)

// callName returns the syntactic name of a call target: `f` for f(...) and
// x.f(...), also through generic instantiation and parentheses. Nothing is
// resolved; an empty string means the callee has no name (func literal,
// element of a slice or map of funcs, ...).
//
// f[T](...) with a single index is an instantiation only when T reads as a
// type. Without type information fs[i](...) cannot be told apart from f[T]
// and is taken as an instantiation too.
func callName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		return f.Sel.Name
	case *ast.IndexExpr:
		if !typeLike(f.Index) {
			return ""
		}

		return callName(f.X)
	case *ast.IndexListExpr:
		return callName(f.X)
	case *ast.ParenExpr:
		return callName(f.X)
	default:
		return ""
	}
}

// typeLike reports whether expr can be a type argument.
func typeLike(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		_, ok := e.X.(*ast.Ident)
		return ok
	case *ast.StarExpr:
		return typeLike(e.X)
	case *ast.ParenExpr:
		return typeLike(e.X)
	case *ast.IndexExpr:
		return typeLike(e.X) && typeLike(e.Index)
	case *ast.IndexListExpr:
		return typeLike(e.X)
	case *ast.ArrayType, *ast.MapType, *ast.ChanType, *ast.FuncType, *ast.InterfaceType, *ast.StructType:
		return true
	default:
		return false
	}
}

// nameSet builds a lookup set from configured target names.
func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}

	return set
}

func targeted(targets map[string]struct{}, call *ast.CallExpr) bool {
	name := callName(call.Fun)
	if name == "" {
		return false
	}

	_, ok := targets[name]

	return ok
}

// swapBinary returns a site that exchanges binary operators according to
// swaps. A swap that changes precedence gets the parentheses needed for the
// printed mutant to parse back into the same tree.
func swapBinary(swaps map[token.Token]token.Token) site {
	return func(c *cursor, match func() bool) {
		expr, ok := c.Node().(*ast.BinaryExpr)
		if !ok {
			return
		}

		swapped, ok := swaps[expr.Op]
		if !ok || !match() {
			return
		}

		expr.Op = swapped
		parenthesize(c, expr)
	}
}

func parenthesize(c *cursor, expr *ast.BinaryExpr) {
	prec := expr.Op.Precedence()

	if x, ok := expr.X.(*ast.BinaryExpr); ok && x.Op.Precedence() < prec {
		expr.X = &ast.ParenExpr{X: x}
	}

	if y, ok := expr.Y.(*ast.BinaryExpr); ok && y.Op.Precedence() <= prec {
		expr.Y = &ast.ParenExpr{X: y}
	}

	parent, ok := c.Parent().(*ast.BinaryExpr)
	if !ok {
		return
	}

	parentPrec := parent.Op.Precedence()
	if (parent.X == expr && prec < parentPrec) || (parent.Y == expr && prec <= parentPrec) {
		c.Replace(&ast.ParenExpr{X: expr})
	}
}

var (
	posType          = reflect.TypeOf(token.NoPos)
	objectType       = reflect.TypeOf((*ast.Object)(nil))
	scopeType        = reflect.TypeOf((*ast.Scope)(nil))
	commentGroupType = reflect.TypeOf((*ast.CommentGroup)(nil))
)

// cloneExpr deep-copies an expression without positions, resolver objects or
// comments, so the copy can be placed anywhere in the tree without moving the
// printer's idea of the current line.
func cloneExpr(expr ast.Expr) ast.Expr {
	cloned, ok := cloneValue(reflect.ValueOf(expr)).Interface().(ast.Expr)
	if !ok {
		return nil
	}

	return cloned
}

func cloneValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}

		out := reflect.New(v.Elem().Type())
		out.Elem().Set(cloneValue(v.Elem()))

		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}

		out := reflect.New(v.Type()).Elem()
		out.Set(cloneValue(v.Elem()))

		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}

		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := range v.Len() {
			out.Index(i).Set(cloneValue(v.Index(i)))
		}

		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()

		for i := range v.NumField() {
			switch v.Field(i).Type() {
			case posType, objectType, scopeType, commentGroupType:
				continue
			}

			if out.Field(i).CanSet() {
				out.Field(i).Set(cloneValue(v.Field(i)))
			}
		}

		return out
	default:
		return v
	}
}

// Package mutagens provides the mutation operators. Every operator shares one
// indexed walk, so counting sites and rewriting the i-th site can never
// disagree on what the i-th site is.
package mutagens

import (
	"go/ast"

	"golang.org/x/tools/go/ast/astutil"
	m "mutate.dev/pkg/mutate/internal/model"
)

// Operator locates the sites of one syntactic shape and rewrites exactly one
// of them.
type Operator interface {
	Name() string
	Level() m.Level
	// Count returns the number of eligible sites without changing file.
	Count(file *ast.File) int
	// Apply rewrites the site at index in place and reports whether it did.
	// Callers must pass a freshly parsed file.
	Apply(file *ast.File, index int) bool
}

// noTarget never matches, which turns a walk into a pure count.
const noTarget = -1

// cursor is the position handed to a site function: the astutil cursor plus
// the signature of the innermost enclosing function (nil at package level).
type cursor struct {
	*astutil.Cursor
	signature *ast.FuncType
}

// site inspects the node under the cursor. For every eligible site found there
// it calls match exactly once and rewrites only when match returns true.
type site func(c *cursor, match func() bool)

type indexed struct {
	target  int
	current int
	mutated bool
}

func (ix *indexed) match() bool {
	hit := ix.current == ix.target
	ix.current++

	if hit {
		ix.mutated = true
	}

	return hit
}

// walk visits file in post-order (children before parents) and feeds every
// node to visit.
func walk(file *ast.File, target int, visit site) indexed {
	ix := indexed{target: target}

	var signatures []*ast.FuncType

	pre := func(c *astutil.Cursor) bool {
		if sig := signatureOf(c.Node()); sig != nil {
			signatures = append(signatures, sig)
		}

		return true
	}

	post := func(c *astutil.Cursor) bool {
		if signatureOf(c.Node()) != nil {
			signatures = signatures[:len(signatures)-1]
		}

		var sig *ast.FuncType
		if n := len(signatures); n > 0 {
			sig = signatures[n-1]
		}

		visit(&cursor{Cursor: c, signature: sig}, ix.match)

		return true
	}

	astutil.Apply(file, pre, post)

	return ix
}

func signatureOf(n ast.Node) *ast.FuncType {
	switch fn := n.(type) {
	case *ast.FuncDecl:
		return fn.Type
	case *ast.FuncLit:
		return fn.Type
	default:
		return nil
	}
}

// operator is the shared implementation behind every constructor in this
// package.
type operator struct {
	name  string
	level m.Level
	visit site
}

func (o operator) Name() string   { return o.name }
func (o operator) Level() m.Level { return o.level }

func (o operator) Count(file *ast.File) int {
	return walk(file, noTarget, o.visit).current
}

func (o operator) Apply(file *ast.File, index int) bool {
	if index < 0 {
		return false
	}

	return walk(file, index, o.visit).mutated
}

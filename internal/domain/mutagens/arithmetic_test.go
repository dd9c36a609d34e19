package mutagens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "mutate.dev/pkg/mutate/internal/model"
)

func TestArithmetic_Swaps(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{name: "add to sub", expr: "a + b", want: "a - b"},
		{name: "sub to add", expr: "a - b", want: "a + b"},
		{name: "mul to quo", expr: "a * b", want: "a / b"},
		{name: "quo to mul", expr: "a / b", want: "a * b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "package calc\n\nfunc f(a, b int) int {\n\treturn " + tt.expr + "\n}\n"

			_, file := parseSource(t, src)
			require.Equal(t, 1, NewArithmetic().Count(file))

			got := mutate(t, NewArithmetic(), src, 0)
			assert.Contains(t, got, "\treturn "+tt.want+"\n")
		})
	}
}

func TestArithmetic_IgnoresOtherOperators(t *testing.T) {
	src := "package calc\n\nfunc f(a, b int) bool {\n\treturn a%b == a&b && a<<1 > b\n}\n"

	_, file := parseSource(t, src)
	assert.Equal(t, 0, NewArithmetic().Count(file))
}

func TestArithmetic_Metadata(t *testing.T) {
	op := NewArithmetic()

	assert.Equal(t, Arithmetic, op.Name())
	assert.Equal(t, m.LevelUnit, op.Level())
}

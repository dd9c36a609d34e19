package model

// Level labels the test level a mutation operator is aimed at.
type Level string

const (
	// LevelUnit marks node-local operators (operator swaps).
	LevelUnit Level = "UNIT"
	// LevelIntegration marks call and return boundary operators.
	LevelIntegration Level = "INT"
)

// Mutant is a single-fault variant of one source file, produced by one
// operator at one occurrence.
type Mutant struct {
	Source      Source
	Operator    string
	Level       Level
	Index       int    // occurrence index in the operator's traversal order
	MutatedCode []byte // full serialized file
	DiffCode    []byte // unified diff against the formatted original
}

// Label returns the "LEVEL:operator" identity used in results.
func (mt Mutant) Label() string {
	return Label(mt.Level, mt.Operator)
}

// Label joins a level and an operator name.
func Label(level Level, operator string) string {
	if level == "" {
		return operator
	}

	return string(level) + ":" + operator
}

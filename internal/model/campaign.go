package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Bucket pairs a set of project files with the operators applied to them.
type Bucket struct {
	Level     Level    `mapstructure:"level" yaml:"level"`
	Files     []Path   `mapstructure:"files" yaml:"files"` // relative to the project root
	Operators []string `mapstructure:"operators" yaml:"operators"`
}

// Targets holds the identifier names matched textually by the
// integration-level operators.
type Targets struct {
	ParameterSwap []string `mapstructure:"parameter_swap" yaml:"parameter_swap"`
	CallDeletion  []string `mapstructure:"call_deletion" yaml:"call_deletion"`
}

// Convention maps test runner exit codes and output to outcomes.
type Convention struct {
	PassCodes     []int    `mapstructure:"pass_codes" yaml:"pass_codes"`
	FailCodes     []int    `mapstructure:"fail_codes" yaml:"fail_codes"`
	ErrorPatterns []string `mapstructure:"error_patterns" yaml:"error_patterns"`
}

// GoTestConvention is the exit convention of `go test`: 0 when every test
// passed, 1 when a test failed. Build and setup failures also exit 1, so they
// are recognised by their output markers instead.
func GoTestConvention() Convention {
	return Convention{
		PassCodes:     []int{0},
		FailCodes:     []int{1},
		ErrorPatterns: []string{`\[build failed\]`, `\[setup failed\]`},
	}
}

// DefaultTestCommand runs the whole module's tests.
func DefaultTestCommand() []string {
	return []string{"go", "test", "./..."}
}

// Campaign is the complete, read-only configuration of one mutation run.
type Campaign struct {
	ID         string
	Root       Path
	Buckets    []Bucket
	Targets    Targets
	Command    []string
	Convention Convention
	Timeout    time.Duration // zero disables the limit
	Threads    int
	JournalDir Path // empty uses the system temp directory
	Shard      Shard
}

// Shard selects every Count-th mutant starting at Index, so that Count
// separate runs together cover a campaign. A zero Count selects everything.
type Shard struct {
	Index int
	Count int
}

// Includes reports whether the mutant at position i of a campaign belongs to
// the shard.
func (s Shard) Includes(i int) bool {
	if s.Count <= 1 {
		return true
	}

	return i%s.Count == s.Index
}

// NewCampaignID returns a sortable, unique campaign identifier.
func NewCampaignID() string {
	return ulid.Make().String()
}

package domain

import (
	"fmt"
	"regexp"
	"time"

	"mutate.dev/pkg/mutate/internal/adapter"
	m "mutate.dev/pkg/mutate/internal/model"
)

// messageLimit caps the runner output kept in a result; the tail carries the
// failing test or the compiler error.
const messageLimit = 4096

// Classifier maps one raw test run to a mutant outcome.
type Classifier interface {
	Classify(run adapter.RunResult) (m.TestStatus, string)
}

type conventionClassifier struct {
	pass     map[int]struct{}
	fail     map[int]struct{}
	patterns []*regexp.Regexp
}

// NewClassifier builds a Classifier for convention. Without any exit codes
// the go test convention (0 pass, 1 fail) applies.
func NewClassifier(convention m.Convention) (Classifier, error) {
	if len(convention.PassCodes) == 0 && len(convention.FailCodes) == 0 {
		defaults := m.GoTestConvention()
		convention.PassCodes = defaults.PassCodes
		convention.FailCodes = defaults.FailCodes
	}

	c := &conventionClassifier{
		pass: codeSet(convention.PassCodes),
		fail: codeSet(convention.FailCodes),
	}

	for _, pattern := range convention.ErrorPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid error pattern %q: %w", pattern, err)
		}

		c.patterns = append(c.patterns, re)
	}

	return c, nil
}

// Classify checks, in order: timeout, a pass code, error markers in the
// output, then a fail code. Error markers are ignored on a passing run. An
// exit code in neither set is inconclusive.
func (c *conventionClassifier) Classify(run adapter.RunResult) (m.TestStatus, string) {
	if run.TimedOut {
		return m.Errored, fmt.Sprintf("test run timed out after %s", run.Duration.Round(time.Millisecond))
	}

	if _, ok := c.pass[run.ExitCode]; ok {
		return m.Survived, tail(run.Stdout)
	}

	for _, re := range c.patterns {
		if re.MatchString(run.Stdout) || re.MatchString(run.Stderr) {
			return m.Errored, errorMessage(run)
		}
	}

	if _, ok := c.fail[run.ExitCode]; ok {
		return m.Killed, tail(run.Stdout)
	}

	return m.Errored, fmt.Sprintf("unexpected exit code %d\n%s", run.ExitCode, errorMessage(run))
}

func errorMessage(run adapter.RunResult) string {
	if run.Stderr != "" {
		return tail(run.Stderr)
	}

	return tail(run.Stdout)
}

func tail(s string) string {
	if len(s) <= messageLimit {
		return s
	}

	return s[len(s)-messageLimit:]
}

func codeSet(codes []int) map[int]struct{} {
	set := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}

	return set
}

package model

import "time"

// TestStatus represents the outcome of testing one mutant.
type TestStatus int

const (
	// Killed indicates the test suite failed against the mutant.
	Killed TestStatus = iota
	// Survived indicates the test suite passed despite the mutant.
	Survived
	// Errored indicates the run was inconclusive (build failure, crash,
	// unknown exit code, timeout).
	Errored
)

func (s TestStatus) String() string {
	switch s {
	case Killed:
		return "killed"
	case Survived:
		return "survived"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// MutantResult records the outcome of one sandboxed run. It is built once and
// passed by value.
type MutantResult struct {
	Operator string        `yaml:"operator"`
	Level    Level         `yaml:"level"`
	File     Path          `yaml:"file"`
	Index    int           `yaml:"index"`
	Killed   bool          `yaml:"killed"`
	Error    bool          `yaml:"error"`
	Message  string        `yaml:"message,omitempty"`
	Duration time.Duration `yaml:"duration"`
}

// NewMutantResult builds the result for a mutant from its classified status.
func NewMutantResult(mutant Mutant, status TestStatus, message string, duration time.Duration) MutantResult {
	return MutantResult{
		Operator: mutant.Label(),
		Level:    mutant.Level,
		File:     mutant.Source.Origin.ShortPath,
		Index:    mutant.Index,
		Killed:   status == Killed,
		Error:    status == Errored,
		Message:  message,
		Duration: duration,
	}
}

// Status derives the single classification of the result.
func (r MutantResult) Status() TestStatus {
	switch {
	case r.Error:
		return Errored
	case r.Killed:
		return Killed
	default:
		return Survived
	}
}

// Summary aggregates a list of results.
type Summary struct {
	Total    int     `yaml:"total"`
	Killed   int     `yaml:"killed"`
	Survived int     `yaml:"survived"`
	Errored  int     `yaml:"errored"`
	Score    float64 `yaml:"mutation_score"`
}

// Report is the persisted form of one campaign.
type Report struct {
	CampaignID string         `yaml:"campaign_id"`
	Root       Path           `yaml:"root"`
	StartedAt  time.Time      `yaml:"started_at"`
	Summary    Summary        `yaml:"summary"`
	Results    []MutantResult `yaml:"results"`
}

// MutantCount is the number of mutants one operator yields on one file.
type MutantCount struct {
	File     Path   `yaml:"file"`
	Operator string `yaml:"operator"`
	Count    int    `yaml:"count"`
}

package domain

import (
	"errors"
	"fmt"

	m "mutate.dev/pkg/mutate/internal/model"
	pkg "mutate.dev/pkg/mutate/pkg"
)

// Summarize aggregates results. Errored mutants count in the total, so they
// lower the score.
func Summarize(results []m.MutantResult) m.Summary {
	var t tally

	for _, result := range results {
		t.add(result)
	}

	return t.summary()
}

// SummarizeJournal aggregates the results recorded in a campaign journal.
func SummarizeJournal(journal pkg.FileSpill[m.MutantResult]) (m.Summary, error) {
	var t tally

	err := journal.Range(func(_ uint64, result m.MutantResult) error {
		t.add(result)
		return nil
	})
	if err != nil {
		return m.Summary{}, err
	}

	return t.summary(), nil
}

type tally struct {
	total, killed, survived, errored int
}

func (t *tally) add(result m.MutantResult) {
	t.total++

	switch result.Status() {
	case m.Killed:
		t.killed++
	case m.Survived:
		t.survived++
	case m.Errored:
		t.errored++
	}
}

func (t tally) summary() m.Summary {
	score := 0.0
	if t.total > 0 {
		score = 100 * float64(t.killed) / float64(t.total)
	}

	return m.Summary{
		Total:    t.total,
		Killed:   t.killed,
		Survived: t.survived,
		Errored:  t.errored,
		Score:    score,
	}
}

// ErrReportMismatch is returned when merging reports of different projects.
var ErrReportMismatch = errors.New("reports cover different projects")

// MergeReports joins the reports of separate shard runs into one report
// under id. Results keep argument order and the summary is recomputed.
func MergeReports(id string, reports ...m.Report) (m.Report, error) {
	if len(reports) == 0 {
		return m.Report{}, fmt.Errorf("no reports to merge")
	}

	merged := m.Report{
		CampaignID: id,
		Root:       reports[0].Root,
		StartedAt:  reports[0].StartedAt,
	}

	for _, report := range reports {
		if report.Root != merged.Root {
			return m.Report{}, fmt.Errorf("%w: %s and %s", ErrReportMismatch, merged.Root, report.Root)
		}

		if report.StartedAt.Before(merged.StartedAt) {
			merged.StartedAt = report.StartedAt
		}

		merged.Results = append(merged.Results, report.Results...)
	}

	merged.Summary = Summarize(merged.Results)

	return merged, nil
}

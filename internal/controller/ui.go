// Package controller provides output adapters for displaying mutation testing results.
package controller

import (
	"context"

	m "mutate.dev/pkg/mutate/internal/model"
)

// UI defines how campaign information is shown to the user.
type UI interface {
	// DisplayCounts prints the number of mutants per file and operator.
	DisplayCounts(ctx context.Context, counts []m.MutantCount) error
	// DisplayMutants prints every mutant with its diff.
	DisplayMutants(ctx context.Context, mutants []m.Mutant) error
	// DisplayReport prints the surviving and errored mutants followed by the
	// summary and mutation score.
	DisplayReport(ctx context.Context, report m.Report) error
	DisplayReportSaved(ctx context.Context, path m.Path)
}

package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"mutate.dev/pkg/mutate/internal/adapter"
	"mutate.dev/pkg/mutate/internal/domain/mutagens"
	m "mutate.dev/pkg/mutate/internal/model"
	pkg "mutate.dev/pkg/mutate/pkg"
)

var (
	// ErrNoBuckets is returned for a campaign without any bucket.
	ErrNoBuckets = errors.New("campaign has no buckets")
	// ErrOutsideRoot is returned for a file that does not resolve to a path
	// inside the project root.
	ErrOutsideRoot = errors.New("file is outside the project root")
)

// Workflow drives a whole campaign.
type Workflow interface {
	// Run tests every mutant of the campaign and returns the results in
	// bucket, file, operator, occurrence order.
	Run(ctx context.Context, campaign m.Campaign) ([]m.MutantResult, error)
	// Estimate generates every mutant of the campaign without testing it.
	Estimate(ctx context.Context, campaign m.Campaign) ([]m.Mutant, error)
	// Count returns the number of mutants per file and operator.
	Count(ctx context.Context, campaign m.Campaign) ([]m.MutantCount, error)
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.MetricsAdapter
	Orchestrator
	Mutagen
}

// NewWorkflow creates a new Workflow instance with the provided
// dependencies. metrics may be nil.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	metrics adapter.MetricsAdapter,
	orchestrator Orchestrator,
	mutagen Mutagen,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		MetricsAdapter:  metrics,
		Orchestrator:    orchestrator,
		Mutagen:         mutagen,
	}
}

// target is one (file, operator) pair of a bucket.
type target struct {
	source   m.Source
	operator mutagens.Operator
}

func (w *workflow) Run(ctx context.Context, campaign m.Campaign) ([]m.MutantResult, error) {
	if _, err := NewClassifier(campaign.Convention); err != nil {
		return nil, err
	}

	if err := validateShard(campaign.Shard); err != nil {
		return nil, err
	}

	targets, err := w.targets(ctx, campaign)
	if err != nil {
		return nil, err
	}

	journal, err := pkg.NewFileSpillIn[m.MutantResult](string(campaign.JournalDir), journalPattern(campaign.ID))
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	slog.Info("Starting campaign", "id", campaign.ID, "targets", len(targets), "threads", campaign.Threads, "journal", journal.Path())

	results, err := w.testAll(ctx, campaign, targets, journal)
	if err != nil {
		// Finished results stay on disk for inspection.
		if closeErr := journal.Close(); closeErr != nil {
			slog.Error("Failed to close journal", "path", journal.Path(), "error", closeErr)
		}

		logAbort(campaign, journal, err)

		return nil, err
	}

	summary, err := SummarizeJournal(journal)
	if err != nil {
		return nil, err
	}

	if err := journal.Remove(); err != nil {
		slog.Error("Failed to remove journal", "path", journal.Path(), "error", err)
	}

	if w.MetricsAdapter != nil {
		w.ObserveSummary(summary)
	}

	slog.Info("Campaign finished", "id", campaign.ID, "total", summary.Total, "killed", summary.Killed,
		"survived", summary.Survived, "errored", summary.Errored, "score", summary.Score)

	return results, nil
}

// testAll generates the mutants of one target at a time and tests them on at
// most campaign.Threads workers. With a single thread every mutant is tested
// before the next target is generated. Results keep campaign order whatever
// the completion order.
func (w *workflow) testAll(
	ctx context.Context,
	campaign m.Campaign,
	targets []target,
	journal pkg.FileSpill[m.MutantResult],
) ([]m.MutantResult, error) {
	threads := max(campaign.Threads, 1)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.SetLimit(threads)

	// Workers fill their own slot; the slice only grows on this goroutine.
	var slots []*m.MutantResult

	test := func(mutant m.Mutant, slot *m.MutantResult) error {
		if err := groupCtx.Err(); err != nil {
			return err
		}

		result, err := w.TestMutant(groupCtx, campaign, mutant)
		if err != nil {
			return fmt.Errorf("test %s mutant %d of %s: %w", mutant.Label(), mutant.Index, mutant.Source.Origin.ShortPath, err)
		}

		*slot = result

		if err := journal.Append(result); err != nil {
			return fmt.Errorf("journal result: %w", err)
		}

		if w.MetricsAdapter != nil {
			w.ObserveResult(result)
		}

		slog.Info("Mutant result",
			"file", result.File,
			"operator", result.Operator,
			"index", result.Index,
			"status", result.Status(),
			"completed", journal.Len(),
		)

		return nil
	}

	position := 0

	for _, t := range targets {
		mutants, err := w.GenerateMutants(groupCtx, t.source, t.operator)
		if err != nil {
			cancel()
			_ = group.Wait()

			return nil, fmt.Errorf("generate mutants: %w", err)
		}

		for _, mutant := range mutants {
			included := campaign.Shard.Includes(position)
			position++

			if !included {
				continue
			}

			slot := new(m.MutantResult)
			slots = append(slots, slot)

			if threads == 1 {
				if err := test(mutant, slot); err != nil {
					return nil, err
				}

				continue
			}

			group.Go(func() error { return test(mutant, slot) })
		}

		if err := groupCtx.Err(); err != nil {
			break
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]m.MutantResult, len(slots))
	for i, slot := range slots {
		results[i] = *slot
	}

	return results, nil
}

// logAbort reports an aborted campaign with the last result that reached the
// journal.
func logAbort(campaign m.Campaign, journal pkg.FileSpill[m.MutantResult], err error) {
	completed := journal.Len()
	attrs := []any{"id", campaign.ID, "journal", journal.Path(), "completed", completed, "error", err}

	if completed > 0 {
		if last, getErr := journal.Get(completed - 1); getErr == nil {
			attrs = append(attrs, "lastFile", last.File, "lastOperator", last.Operator, "lastIndex", last.Index, "lastStatus", last.Status())
		}
	}

	slog.Error("Campaign aborted", attrs...)
}

func (w *workflow) Estimate(ctx context.Context, campaign m.Campaign) ([]m.Mutant, error) {
	targets, err := w.targets(ctx, campaign)
	if err != nil {
		return nil, err
	}

	var mutants []m.Mutant

	for _, t := range targets {
		generated, err := w.GenerateMutants(ctx, t.source, t.operator)
		if err != nil {
			return nil, fmt.Errorf("generate mutants: %w", err)
		}

		mutants = append(mutants, generated...)
	}

	return mutants, nil
}

func (w *workflow) Count(ctx context.Context, campaign m.Campaign) ([]m.MutantCount, error) {
	targets, err := w.targets(ctx, campaign)
	if err != nil {
		return nil, err
	}

	counts := make([]m.MutantCount, 0, len(targets))

	for _, t := range targets {
		count, err := w.CountMutants(ctx, t.source, t.operator)
		if err != nil {
			return nil, fmt.Errorf("count mutants: %w", err)
		}

		counts = append(counts, m.MutantCount{
			File:     t.source.Origin.ShortPath,
			Operator: m.Label(t.operator.Level(), t.operator.Name()),
			Count:    count,
		})
	}

	return counts, nil
}

// targets expands the buckets into (file, operator) pairs in campaign order.
func (w *workflow) targets(ctx context.Context, campaign m.Campaign) ([]target, error) {
	if len(campaign.Buckets) == 0 {
		return nil, ErrNoBuckets
	}

	var targets []target

	for i, bucket := range campaign.Buckets {
		operators, err := bucketOperators(bucket, campaign.Targets)
		if err != nil {
			return nil, fmt.Errorf("bucket %d: %w", i, err)
		}

		files, err := w.expandFiles(ctx, campaign.Root, bucket.Files)
		if err != nil {
			return nil, fmt.Errorf("bucket %d: %w", i, err)
		}

		for _, file := range files {
			source, err := w.sourceFor(ctx, campaign.Root, file)
			if err != nil {
				return nil, err
			}

			for _, operator := range operators {
				targets = append(targets, target{source: source, operator: operator})
			}
		}
	}

	return targets, nil
}

// bucketOperators resolves the operator names of a bucket. A bucket without
// names gets the default set of its level.
func bucketOperators(bucket m.Bucket, targets m.Targets) ([]mutagens.Operator, error) {
	if len(bucket.Operators) == 0 {
		switch bucket.Level {
		case m.LevelUnit:
			return mutagens.UnitOperators(), nil
		case m.LevelIntegration:
			return mutagens.IntegrationOperators(targets), nil
		default:
			return append(mutagens.UnitOperators(), mutagens.IntegrationOperators(targets)...), nil
		}
	}

	operators := make([]mutagens.Operator, 0, len(bucket.Operators))

	for _, name := range bucket.Operators {
		operator, err := mutagens.Lookup(name, targets)
		if err != nil {
			return nil, err
		}

		operators = append(operators, operator)
	}

	return operators, nil
}

// expandFiles resolves literal paths and glob patterns, keeping the first
// occurrence of every file. Patterns only select non-test Go sources; literal
// entries are taken as given.
func (w *workflow) expandFiles(ctx context.Context, root m.Path, entries []m.Path) ([]m.Path, error) {
	seen := make(map[m.Path]struct{})

	var files []m.Path

	add := func(path m.Path) {
		if _, dup := seen[path]; dup {
			return
		}

		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, entry := range entries {
		if !isPattern(string(entry)) {
			add(entry)
			continue
		}

		matches, err := w.Glob(ctx, root, string(entry))
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", entry, err)
		}

		if len(matches) == 0 {
			slog.Warn("Pattern matched no files", "pattern", entry, "root", root)
		}

		for _, match := range matches {
			if isMutable(match) {
				add(match)
			}
		}
	}

	return files, nil
}

func (w *workflow) sourceFor(ctx context.Context, root, file m.Path) (m.Source, error) {
	if !filepath.IsLocal(string(file)) {
		return m.Source{}, fmt.Errorf("%w: %s", ErrOutsideRoot, file)
	}

	fullPath := w.JoinPath(ctx, string(root), string(file))

	hash, err := w.HashFile(ctx, fullPath)
	if err != nil {
		return m.Source{}, fmt.Errorf("failed to hash %s: %w", file, err)
	}

	return m.Source{
		Root: root,
		Origin: &m.File{
			ShortPath: file,
			FullPath:  fullPath,
			Hash:      hash,
		},
	}, nil
}

func validateShard(shard m.Shard) error {
	if shard.Count < 0 || shard.Index < 0 || (shard.Count > 0 && shard.Index >= shard.Count) {
		return fmt.Errorf("invalid shard %d/%d", shard.Index, shard.Count)
	}

	return nil
}

func isMutable(path m.Path) bool {
	name := string(path)
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}

func isPattern(entry string) bool {
	return strings.ContainsAny(entry, "*?[{")
}

func journalPattern(campaignID string) string {
	if campaignID == "" {
		return "journal-*.gob"
	}

	return "journal-" + campaignID + "-*.gob"
}

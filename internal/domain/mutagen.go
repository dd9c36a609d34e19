// Package domain contains the core mutation testing workflow and logic.
package domain

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"
	"mutate.dev/pkg/mutate/internal/adapter"
	"mutate.dev/pkg/mutate/internal/domain/mutagens"
	m "mutate.dev/pkg/mutate/internal/model"
)

var (
	// ErrNotMutated means an operator reported a site it then could not
	// rewrite. It is an operator defect.
	ErrNotMutated = errors.New("operator did not rewrite the requested site")
	// ErrSerialize means a mutated tree could not be printed back to source.
	ErrSerialize = errors.New("failed to serialize mutated tree")
)

// Mutagen turns one source file and one operator into the list of its
// mutants.
type Mutagen interface {
	// GenerateMutants returns one mutant per eligible site, index-aligned
	// with the operator's traversal order.
	GenerateMutants(ctx context.Context, source m.Source, operator mutagens.Operator) ([]m.Mutant, error)
	// CountMutants returns how many mutants GenerateMutants would return.
	CountMutants(ctx context.Context, source m.Source, operator mutagens.Operator) (int, error)
}

type mutagen struct {
	adapter.GoFileAdapter
	adapter.SourceFSAdapter
}

// NewMutagen creates a new Mutagen instance.
func NewMutagen(goFileAdapter adapter.GoFileAdapter, sourceFSAdapter adapter.SourceFSAdapter) Mutagen {
	return &mutagen{
		GoFileAdapter:   goFileAdapter,
		SourceFSAdapter: sourceFSAdapter,
	}
}

func (mg *mutagen) CountMutants(ctx context.Context, source m.Source, operator mutagens.Operator) (int, error) {
	if err := validateSource(source); err != nil {
		return 0, err
	}

	content, err := mg.ReadFile(ctx, source.Origin.FullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", source.Origin.FullPath, err)
	}

	_, file, err := mg.parse(ctx, source, content)
	if err != nil {
		return 0, err
	}

	return operator.Count(file), nil
}

func (mg *mutagen) GenerateMutants(ctx context.Context, source m.Source, operator mutagens.Operator) ([]m.Mutant, error) {
	if err := validateSource(source); err != nil {
		return nil, err
	}

	content, err := mg.ReadFile(ctx, source.Origin.FullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source.Origin.FullPath, err)
	}

	fset, file, err := mg.parse(ctx, source, content)
	if err != nil {
		return nil, err
	}

	// Diffs are taken against the printed original so that layout the
	// printer normalizes does not show up as a change.
	original, err := mg.Format(ctx, fset, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSerialize, source.Origin.ShortPath, err)
	}

	count := operator.Count(file)
	mutants := make([]m.Mutant, 0, count)

	for index := range count {
		mutant, err := mg.generateOne(ctx, source, operator, content, original, index)
		if err != nil {
			return nil, err
		}

		mutants = append(mutants, mutant)
	}

	slog.Debug("generated mutants", "file", source.Origin.ShortPath, "operator", operator.Name(), "count", len(mutants))

	return mutants, nil
}

// generateOne applies operator at index to a fresh parse of content.
func (mg *mutagen) generateOne(
	ctx context.Context,
	source m.Source,
	operator mutagens.Operator,
	content, original []byte,
	index int,
) (m.Mutant, error) {
	fset, file, err := mg.parse(ctx, source, content)
	if err != nil {
		return m.Mutant{}, err
	}

	if !operator.Apply(file, index) {
		slog.Error("operator skipped a counted site", "file", source.Origin.ShortPath, "operator", operator.Name(), "index", index)
		return m.Mutant{}, fmt.Errorf("%w: %s at index %d of %s", ErrNotMutated, operator.Name(), index, source.Origin.ShortPath)
	}

	code, err := mg.Format(ctx, fset, file)
	if err != nil {
		return m.Mutant{}, fmt.Errorf("%w: %s at index %d of %s: %w", ErrSerialize, operator.Name(), index, source.Origin.ShortPath, err)
	}

	if _, err := mg.Parse(ctx, token.NewFileSet(), string(source.Origin.FullPath), code); err != nil {
		slog.Error("mutant is not valid Go", "file", source.Origin.ShortPath, "operator", operator.Name(), "index", index, "error", err)
		return m.Mutant{}, fmt.Errorf("%s mutant %d of %s does not parse: %w", operator.Name(), index, source.Origin.ShortPath, err)
	}

	diff, err := unifiedDiff(source.Origin.ShortPath, original, code)
	if err != nil {
		return m.Mutant{}, err
	}

	return m.Mutant{
		Source:      source,
		Operator:    operator.Name(),
		Level:       operator.Level(),
		Index:       index,
		MutatedCode: code,
		DiffCode:    diff,
	}, nil
}

func (mg *mutagen) parse(ctx context.Context, source m.Source, content []byte) (*token.FileSet, *ast.File, error) {
	fset := token.NewFileSet()

	file, err := mg.Parse(ctx, fset, string(source.Origin.FullPath), content)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", source.Origin.FullPath, err)
	}

	return fset, file, nil
}

func validateSource(source m.Source) error {
	if source.Origin == nil || source.Origin.FullPath == "" {
		return fmt.Errorf("missing source origin")
	}

	return nil
}

func unifiedDiff(path m.Path, original, mutated []byte) ([]byte, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(mutated)),
		FromFile: "a/" + string(path),
		ToFile:   "b/" + string(path),
		Context:  3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s: %w", path, err)
	}

	return []byte(diff), nil
}

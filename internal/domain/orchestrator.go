package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mutate.dev/pkg/mutate/internal/adapter"
	m "mutate.dev/pkg/mutate/internal/model"
)

// defaultFileMode is used for the mutated file when the original's mode
// cannot be read.
const defaultFileMode os.FileMode = 0o644

// Orchestrator runs the test suite against one mutant in a private copy of
// the project and classifies the outcome.
type Orchestrator interface {
	// TestMutant returns an error only when the campaign cannot go on: the
	// runner could not be launched or ctx ended. Every other failure,
	// including a sandbox that could not be removed, is an errored result.
	TestMutant(ctx context.Context, campaign m.Campaign, mutant m.Mutant) (m.MutantResult, error)
}

type orchestrator struct {
	fsAdapter   adapter.SourceFSAdapter
	testAdapter adapter.TestRunnerAdapter
}

// NewOrchestrator constructs an Orchestrator backed by the provided
// filesystem and test runner adapters.
func NewOrchestrator(fsAdapter adapter.SourceFSAdapter, testAdapter adapter.TestRunnerAdapter) Orchestrator {
	return &orchestrator{
		fsAdapter:   fsAdapter,
		testAdapter: testAdapter,
	}
}

func (to *orchestrator) TestMutant(ctx context.Context, campaign m.Campaign, mutant m.Mutant) (result m.MutantResult, err error) {
	if err := ctx.Err(); err != nil {
		return m.MutantResult{}, err
	}

	if mutant.Source.Origin == nil {
		return m.MutantResult{}, fmt.Errorf("source origin is nil")
	}

	classifier, err := NewClassifier(campaign.Convention)
	if err != nil {
		return m.MutantResult{}, err
	}

	start := time.Now()

	projectRoot, tmpDir, err := to.prepareWorkspace(ctx, campaign, mutant.Source)
	if tmpDir != "" {
		defer func() {
			if cleanupErr := to.cleanupTempDir(ctx, tmpDir); cleanupErr != nil && err == nil {
				result = withExecutionError(result, cleanupErr)
			}
		}()
	}

	if err != nil {
		return m.NewMutantResult(mutant, m.Errored, err.Error(), time.Since(start)), nil
	}

	if err := to.writeMutant(ctx, projectRoot, tmpDir, mutant); err != nil {
		return m.NewMutantResult(mutant, m.Errored, err.Error(), time.Since(start)), nil
	}

	command := campaign.Command
	if len(command) == 0 {
		command = m.DefaultTestCommand()
	}

	run, err := to.testAdapter.Run(ctx, string(tmpDir), command, campaign.Timeout)
	if err != nil {
		if errors.Is(err, adapter.ErrLaunch) {
			slog.Error("Failed to launch test runner", "command", command, "error", err)
		}

		return m.MutantResult{}, err
	}

	status, message := classifier.Classify(run)

	slog.Debug("Mutant tested",
		"file", mutant.Source.Origin.ShortPath,
		"operator", mutant.Label(),
		"index", mutant.Index,
		"status", status,
		"exitCode", run.ExitCode,
		"duration", run.Duration,
	)

	return m.NewMutantResult(mutant, status, message, run.Duration), nil
}

// prepareWorkspace creates the sandbox and copies the project into it. The
// sandbox path is returned even on failure so the caller can remove it.
func (to *orchestrator) prepareWorkspace(ctx context.Context, campaign m.Campaign, source m.Source) (m.Path, m.Path, error) {
	projectRoot := source.Root
	if projectRoot == "" {
		projectRoot = campaign.Root
	}

	if projectRoot == "" {
		root, err := to.fsAdapter.FindProjectRoot(ctx, source.Origin.FullPath)
		if err != nil {
			slog.Error("Failed to find project root", "sourcePath", source.Origin.FullPath, "error", err)
			return "", "", fmt.Errorf("failed to find project root: %w", err)
		}

		projectRoot = root
	}

	tmpDir, err := to.fsAdapter.CreateTempDir(ctx, sandboxPattern(campaign.ID))
	if err != nil {
		slog.Error("Failed to create temp dir", "error", err)
		return projectRoot, "", fmt.Errorf("failed to create sandbox: %w", err)
	}

	if err := to.fsAdapter.CopyDir(ctx, projectRoot, tmpDir); err != nil {
		slog.Error("Failed to copy project to temp dir", "projectRoot", projectRoot, "tmpDir", tmpDir, "error", err)
		return projectRoot, tmpDir, fmt.Errorf("failed to copy project: %w", err)
	}

	return projectRoot, tmpDir, nil
}

// writeMutant overwrites the mutated file inside the sandbox, keeping the
// original file's permissions.
func (to *orchestrator) writeMutant(ctx context.Context, projectRoot, tmpDir m.Path, mutant m.Mutant) error {
	sourcePath := mutant.Source.Origin.FullPath

	relSourcePath, err := to.fsAdapter.RelPath(ctx, projectRoot, sourcePath)
	if err != nil {
		slog.Error("Failed to get relative source path", "projectRoot", projectRoot, "sourcePath", sourcePath, "error", err)
		return fmt.Errorf("failed to get relative source path: %w", err)
	}

	mode := defaultFileMode
	if info, err := to.fsAdapter.FileInfo(ctx, sourcePath); err == nil {
		mode = info.Mode().Perm()
	}

	if !filepath.IsLocal(string(relSourcePath)) {
		slog.Error("Mutated file is outside the project", "projectRoot", projectRoot, "sourcePath", sourcePath)
		return fmt.Errorf("%w: %s", ErrOutsideRoot, sourcePath)
	}

	target := to.fsAdapter.JoinPath(ctx, string(tmpDir), string(relSourcePath))

	if err := to.fsAdapter.WriteFile(ctx, target, mutant.MutatedCode, mode); err != nil {
		slog.Error("Failed to write mutated file", "path", target, "error", err)
		return fmt.Errorf("failed to write mutated file: %w", err)
	}

	return nil
}

// cleanupTempDir removes the temporary directory.
func (to *orchestrator) cleanupTempDir(ctx context.Context, tmpDir m.Path) error {
	if err := to.fsAdapter.RemoveAll(ctx, tmpDir); err != nil {
		slog.Error("Failed to cleanup temp dir", "tmpDir", tmpDir, "error", err)
		return fmt.Errorf("failed to remove sandbox %s: %w", tmpDir, err)
	}

	return nil
}

// withExecutionError turns a result into an errored one, keeping the runner
// output ahead of the failure.
func withExecutionError(result m.MutantResult, err error) m.MutantResult {
	result.Killed = false
	result.Error = true

	if result.Message == "" {
		result.Message = err.Error()
	} else {
		result.Message = tail(result.Message + "\n" + err.Error())
	}

	return result
}

func sandboxPattern(campaignID string) string {
	if campaignID == "" {
		return "mutate-*"
	}

	return "mutate-" + campaignID + "-*"
}

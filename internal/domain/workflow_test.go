package domain_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"mutate.dev/pkg/mutate/internal/adapter"
	adaptermocks "mutate.dev/pkg/mutate/internal/adapter/mocks"
	domain "mutate.dev/pkg/mutate/internal/domain"
	domainmocks "mutate.dev/pkg/mutate/internal/domain/mocks"
	"mutate.dev/pkg/mutate/internal/domain/mutagens"
	m "mutate.dev/pkg/mutate/internal/model"
)

type resultKey struct {
	Operator string
	File     m.Path
	Index    int
}

func keysOf(results []m.MutantResult) []resultKey {
	keys := make([]resultKey, len(results))
	for i, r := range results {
		keys[i] = resultKey{Operator: r.Operator, File: r.File, Index: r.Index}
	}

	return keys
}

func gradebookCampaign(t *testing.T) m.Campaign {
	t.Helper()

	root, err := filepath.Abs(filepath.Join("..", "..", "examples", "gradebook"))
	require.NoError(t, err)

	return m.Campaign{
		ID:   "01WORKFLOWTEST",
		Root: m.Path(root),
		Buckets: []m.Bucket{
			{Level: m.LevelUnit, Files: []m.Path{"grading.go"}, Operators: []string{mutagens.Arithmetic, mutagens.Logical}},
			{Level: m.LevelIntegration, Files: []m.Path{"enrollment.go"}, Operators: []string{mutagens.ParameterSwap}},
		},
		Targets:    m.Targets{ParameterSwap: []string{"Penalize"}},
		Command:    m.DefaultTestCommand(),
		Convention: m.GoTestConvention(),
		Threads:    1,
		JournalDir: m.Path(t.TempDir()),
	}
}

var gradebookOrder = []resultKey{
	{Operator: "UNIT:arithmetic", File: "grading.go", Index: 0},
	{Operator: "UNIT:arithmetic", File: "grading.go", Index: 1},
	{Operator: "UNIT:logical", File: "grading.go", Index: 0},
	{Operator: "INT:parameter-swap", File: "enrollment.go", Index: 0},
}

func newWorkflow(metrics adapter.MetricsAdapter, orch domain.Orchestrator) domain.Workflow {
	fsAdapter := adapter.NewLocalSourceFSAdapter()
	mutagen := domain.NewMutagen(adapter.NewLocalGoFileAdapter(), fsAdapter)

	return domain.NewWorkflow(fsAdapter, metrics, orch, mutagen)
}

// killAll classifies every mutant as killed after an optional delay.
func killAll(delay func(m.Mutant) time.Duration) func(context.Context, m.Campaign, m.Mutant) (m.MutantResult, error) {
	return func(_ context.Context, _ m.Campaign, mutant m.Mutant) (m.MutantResult, error) {
		if delay != nil {
			time.Sleep(delay(mutant))
		}

		return m.NewMutantResult(mutant, m.Killed, "", time.Millisecond), nil
	}
}

func TestWorkflow_Run_Order(t *testing.T) {
	orch := domainmocks.NewMockOrchestrator(t)
	orch.On("TestMutant", mock.Anything, mock.Anything, mock.Anything).Return(killAll(nil), nil).Times(4)

	results, err := newWorkflow(nil, orch).Run(context.Background(), gradebookCampaign(t))
	require.NoError(t, err)

	if diff := cmp.Diff(gradebookOrder, keysOf(results)); diff != "" {
		t.Fatalf("result order mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkflow_Run_ParallelKeepsOrder(t *testing.T) {
	orch := domainmocks.NewMockOrchestrator(t)

	// Earlier mutants finish last.
	delay := func(mutant m.Mutant) time.Duration {
		if mutant.Source.Origin.ShortPath == "grading.go" {
			return time.Duration(3-mutant.Index) * 10 * time.Millisecond
		}

		return 0
	}
	orch.On("TestMutant", mock.Anything, mock.Anything, mock.Anything).Return(killAll(delay), nil).Times(4)

	campaign := gradebookCampaign(t)
	campaign.Threads = 4

	results, err := newWorkflow(nil, orch).Run(context.Background(), campaign)
	require.NoError(t, err)

	if diff := cmp.Diff(gradebookOrder, keysOf(results)); diff != "" {
		t.Fatalf("result order mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkflow_Run_Metrics(t *testing.T) {
	orch := domainmocks.NewMockOrchestrator(t)
	orch.On("TestMutant", mock.Anything, mock.Anything, mock.Anything).Return(killAll(nil), nil).Times(4)

	metrics := adaptermocks.NewMockMetricsAdapter(t)
	metrics.On("ObserveResult", mock.Anything).Times(4)
	metrics.On("ObserveSummary", m.Summary{Total: 4, Killed: 4, Score: 100}).Once()

	_, err := newWorkflow(metrics, orch).Run(context.Background(), gradebookCampaign(t))
	require.NoError(t, err)
}

func TestWorkflow_Run_LaunchFailureAborts(t *testing.T) {
	orch := domainmocks.NewMockOrchestrator(t)
	orch.On("TestMutant", mock.Anything, mock.Anything, mock.Anything).
		Return(m.MutantResult{}, fmt.Errorf("%w: go: not found", adapter.ErrLaunch)).Once()

	results, err := newWorkflow(nil, orch).Run(context.Background(), gradebookCampaign(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, adapter.ErrLaunch))
	assert.Nil(t, results)
}

func TestWorkflow_Run_Shard(t *testing.T) {
	orch := domainmocks.NewMockOrchestrator(t)
	orch.On("TestMutant", mock.Anything, mock.Anything, mock.Anything).Return(killAll(nil), nil).Times(2)

	campaign := gradebookCampaign(t)
	campaign.Shard = m.Shard{Index: 1, Count: 2}

	results, err := newWorkflow(nil, orch).Run(context.Background(), campaign)
	require.NoError(t, err)

	want := []resultKey{gradebookOrder[1], gradebookOrder[3]}
	if diff := cmp.Diff(want, keysOf(results)); diff != "" {
		t.Fatalf("shard mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkflow_Run_InvalidCampaign(t *testing.T) {
	wf := newWorkflow(nil, domainmocks.NewMockOrchestrator(t))

	tests := []struct {
		name   string
		modify func(*m.Campaign)
		is     error
	}{
		{name: "no buckets", modify: func(c *m.Campaign) { c.Buckets = nil }, is: domain.ErrNoBuckets},
		{name: "unknown operator", modify: func(c *m.Campaign) { c.Buckets[0].Operators = []string{"boolean"} }},
		{name: "missing file", modify: func(c *m.Campaign) { c.Buckets[0].Files = []m.Path{"missing.go"} }},
		{name: "bad error pattern", modify: func(c *m.Campaign) { c.Convention.ErrorPatterns = []string{"("} }},
		{name: "bad shard", modify: func(c *m.Campaign) { c.Shard = m.Shard{Index: 2, Count: 2} }},
		{name: "parent directory", modify: func(c *m.Campaign) { c.Buckets[1].Files = []m.Path{"../gradebook/enrollment.go"} }, is: domain.ErrOutsideRoot},
		{name: "escaping subdirectory", modify: func(c *m.Campaign) { c.Buckets[0].Files = []m.Path{"sub/../../grading.go"} }, is: domain.ErrOutsideRoot},
		{name: "absolute path", modify: func(c *m.Campaign) { c.Buckets[0].Files = []m.Path{c.Root + "/grading.go"} }, is: domain.ErrOutsideRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign := gradebookCampaign(t)
			tt.modify(&campaign)

			_, err := wf.Run(context.Background(), campaign)
			require.Error(t, err)

			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestWorkflow_Estimate(t *testing.T) {
	mutants, err := newWorkflow(nil, nil).Estimate(context.Background(), gradebookCampaign(t))
	require.NoError(t, err)
	require.Len(t, mutants, 4)

	for _, mutant := range mutants {
		assert.NotEmpty(t, mutant.MutatedCode)
		assert.NotEmpty(t, mutant.DiffCode)
		assert.NotEmpty(t, mutant.Source.Origin.Hash)
	}

	assert.Contains(t, string(mutants[3].MutatedCode), "Penalize(penalty, score)")
}

func TestWorkflow_Count(t *testing.T) {
	counts, err := newWorkflow(nil, nil).Count(context.Background(), gradebookCampaign(t))
	require.NoError(t, err)

	want := []m.MutantCount{
		{File: "grading.go", Operator: "UNIT:arithmetic", Count: 2},
		{File: "grading.go", Operator: "UNIT:logical", Count: 1},
		{File: "enrollment.go", Operator: "INT:parameter-swap", Count: 1},
	}

	if diff := cmp.Diff(want, counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkflow_Count_GlobAndDefaults(t *testing.T) {
	campaign := gradebookCampaign(t)
	campaign.Buckets = []m.Bucket{
		{Level: m.LevelIntegration, Files: []m.Path{"{grading,enrollment}.go", "enrollment.go"}},
	}
	campaign.Targets = m.Targets{ParameterSwap: []string{"Penalize"}, CallDeletion: []string{"audit"}}

	counts, err := newWorkflow(nil, nil).Count(context.Background(), campaign)
	require.NoError(t, err)

	want := []m.MutantCount{
		{File: "enrollment.go", Operator: "INT:parameter-swap", Count: 1},
		{File: "enrollment.go", Operator: "INT:call-deletion", Count: 1},
		{File: "enrollment.go", Operator: "INT:return-nullification", Count: 4},
		{File: "grading.go", Operator: "INT:parameter-swap", Count: 0},
		{File: "grading.go", Operator: "INT:call-deletion", Count: 0},
		{File: "grading.go", Operator: "INT:return-nullification", Count: 6},
	}

	if diff := cmp.Diff(want, counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
}

// TestWorkflow_Run_GoTest runs a whole campaign against the gradebook fixture
// with real test processes.
func TestWorkflow_Run_GoTest(t *testing.T) {
	if testing.Short() {
		t.Skip("runs go test")
	}

	fsAdapter := adapter.NewLocalSourceFSAdapter()
	orch := domain.NewOrchestrator(fsAdapter, adapter.NewLocalTestRunnerAdapter())
	metrics := adapter.NewPrometheusMetricsAdapter()
	wf := newWorkflow(metrics, orch)

	campaign := gradebookCampaign(t)
	campaign.Buckets = append(campaign.Buckets, m.Bucket{
		Level:     m.LevelIntegration,
		Files:     []m.Path{"enrollment.go"},
		Operators: []string{mutagens.CallDeletion},
	})
	campaign.Targets.CallDeletion = []string{"audit"}
	campaign.Threads = 2

	results, err := wf.Run(context.Background(), campaign)
	require.NoError(t, err)
	require.Len(t, results, 5)

	summary := domain.Summarize(results)
	assert.Equal(t, m.Summary{Total: 5, Killed: 4, Survived: 1, Score: 80}, summary)
	assert.Equal(t, m.Survived, results[4].Status())
}

func TestWorkflow_GeneratorErrors(t *testing.T) {
	boom := errors.New("parse grading.go: expected declaration")

	mutagen := domainmocks.NewMockMutagen(t)
	mutagen.On("GenerateMutants", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom).Once()
	mutagen.On("CountMutants", mock.Anything, mock.Anything, mock.Anything).Return(0, boom).Once()

	wf := domain.NewWorkflow(adapter.NewLocalSourceFSAdapter(), nil, domainmocks.NewMockOrchestrator(t), mutagen)

	_, err := wf.Run(context.Background(), gradebookCampaign(t))
	require.ErrorIs(t, err, boom)

	_, err = wf.Count(context.Background(), gradebookCampaign(t))
	require.ErrorIs(t, err, boom)
}

// eventLog records generation and test calls in the order they happen.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, fmt.Sprintf(format, args...))
}

// recordingMutagen logs every generated target before delegating.
type recordingMutagen struct {
	domain.Mutagen
	log *eventLog
}

func (r recordingMutagen) GenerateMutants(ctx context.Context, source m.Source, operator mutagens.Operator) ([]m.Mutant, error) {
	r.log.add("generate %s %s", source.Origin.ShortPath, m.Label(operator.Level(), operator.Name()))
	return r.Mutagen.GenerateMutants(ctx, source, operator)
}

func TestWorkflow_Run_GeneratesOneTargetAtATime(t *testing.T) {
	log := &eventLog{}
	fsAdapter := adapter.NewLocalSourceFSAdapter()
	mutagen := recordingMutagen{Mutagen: domain.NewMutagen(adapter.NewLocalGoFileAdapter(), fsAdapter), log: log}

	orch := domainmocks.NewMockOrchestrator(t)
	orch.On("TestMutant", mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, _ m.Campaign, mutant m.Mutant) (m.MutantResult, error) {
			log.add("test %s %s %d", mutant.Source.Origin.ShortPath, mutant.Label(), mutant.Index)
			return m.NewMutantResult(mutant, m.Killed, "", time.Millisecond), nil
		}, nil).Times(4)

	_, err := domain.NewWorkflow(fsAdapter, nil, orch, mutagen).Run(context.Background(), gradebookCampaign(t))
	require.NoError(t, err)

	want := []string{
		"generate grading.go UNIT:arithmetic",
		"test grading.go UNIT:arithmetic 0",
		"test grading.go UNIT:arithmetic 1",
		"generate grading.go UNIT:logical",
		"test grading.go UNIT:logical 0",
		"generate enrollment.go INT:parameter-swap",
		"test enrollment.go INT:parameter-swap 0",
	}

	if diff := cmp.Diff(want, log.events); diff != "" {
		t.Fatalf("event order mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkflow_Run_GeneratorErrorAfterTests(t *testing.T) {
	boom := errors.New("parse enrollment.go: expected declaration")
	fsAdapter := adapter.NewLocalSourceFSAdapter()
	generator := domain.NewMutagen(adapter.NewLocalGoFileAdapter(), fsAdapter)

	mutagen := domainmocks.NewMockMutagen(t)
	mutagen.On("GenerateMutants", mock.Anything, mock.MatchedBy(func(source m.Source) bool {
		return source.Origin.ShortPath == "grading.go"
	}), mock.Anything).Return(func(ctx context.Context, source m.Source, operator mutagens.Operator) ([]m.Mutant, error) {
		return generator.GenerateMutants(ctx, source, operator)
	}, nil).Twice()
	mutagen.On("GenerateMutants", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom).Once()

	orch := domainmocks.NewMockOrchestrator(t)
	orch.On("TestMutant", mock.Anything, mock.Anything, mock.Anything).Return(killAll(nil), nil).Times(3)

	campaign := gradebookCampaign(t)

	results, err := domain.NewWorkflow(fsAdapter, nil, orch, mutagen).Run(context.Background(), campaign)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, results)

	journals, err := filepath.Glob(filepath.Join(string(campaign.JournalDir), "journal-01WORKFLOWTEST-*.gob"))
	require.NoError(t, err)
	assert.Len(t, journals, 1, "an aborted campaign keeps its journal")
}

func TestWorkflow_Run_FileOutsideRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "proj")
	shared := filepath.Join(base, "shared", "calc.go")
	source := "package shared\n\nfunc Add(a, b int) int {\n\treturn a + b\n}\n"

	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module proj\n\ngo 1.22\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Dir(shared), 0o755))
	require.NoError(t, os.WriteFile(shared, []byte(source), 0o644))

	campaign := m.Campaign{
		ID:         "01OUTSIDE",
		Root:       m.Path(root),
		Buckets:    []m.Bucket{{Level: m.LevelUnit, Files: []m.Path{"../shared/calc.go"}, Operators: []string{mutagens.Arithmetic}}},
		Convention: m.GoTestConvention(),
		JournalDir: m.Path(t.TempDir()),
	}

	wf := newWorkflow(nil, domainmocks.NewMockOrchestrator(t))

	_, err := wf.Run(context.Background(), campaign)
	require.ErrorIs(t, err, domain.ErrOutsideRoot)

	_, err = wf.Count(context.Background(), campaign)
	require.ErrorIs(t, err, domain.ErrOutsideRoot)

	content, err := os.ReadFile(shared)
	require.NoError(t, err)
	assert.Equal(t, source, string(content))
}

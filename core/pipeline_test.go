package core

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/clokep/arewetypedyet/internal/iocache"
	"github.com/clokep/arewetypedyet/internal/outwriter"
	"github.com/clokep/arewetypedyet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// monday is a fixed start day so the tests do not depend on the wall clock.
var monday = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

const sampleReport = `Name  Lines Precise Imprecise Any Empty Unanalyzed
-------------------------------------------------------------
synapse.api.room 10 6 2 1 1 0
synapse.api.auth 5 5 0 0 0 0
synapse.handlers 20 10 5 0 5 0
`

var (
	sampleTotal   = schema.Record{Lines: 35, Precise: 21, Imprecise: 7, Any: 1, Empty: 6}
	sampleModules = map[schema.ModuleKey]schema.Record{
		"synapse.api":      {Lines: 15, Precise: 11, Imprecise: 2, Any: 1, Empty: 1},
		"synapse.handlers": {Lines: 20, Precise: 10, Imprecise: 5, Empty: 5},
	}
)

// weeklyCommits returns three commits that are all selected when sampling from monday.
func weeklyCommits() []schema.Commit {
	return []schema.Commit{
		{ID: "c1c1c1c1c1c1c1c1c1c1", Time: monday.AddDate(0, 0, 1)},
		{ID: "c2c2c2c2c2c2c2c2c2c2", Time: monday.AddDate(0, 0, -1)},
		{ID: "c3c3c3c3c3c3c3c3c3c3", Time: monday.AddDate(0, 0, -8)},
	}
}

func writeReportFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), contract.LinePrecisionReportFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(t *testing.T) *contract.Config {
	return &contract.Config{
		Remote:      contract.DefaultRemote,
		Workers:     1,
		AnalyzerBin: contract.DefaultAnalyzerBin,
		ReportDir:   t.TempDir(),
	}
}

func testProject(name string) schema.ProjectSpec {
	return schema.ProjectSpec{
		Name:     name,
		Branch:   "develop",
		Paths:    []string{name, "tests"},
		Excludes: []string{schema.DefaultExclude},
		Dir:      "/work/" + name,
	}
}

// expectHistory programs a successful fetch and walk for a project.
func expectHistory(git *contract.MockGitClient, spec schema.ProjectSpec, commits []schema.Commit) {
	git.On("Fetch", mock.Anything, spec.Dir, contract.DefaultRemote).Return(nil)
	git.On("IterCommits", mock.Anything, spec.Dir, contract.DefaultRemote+"/"+spec.Branch).Return(commits)
}

// recordingSink keeps a copy of every report it receives.
type recordingSink struct {
	mu      sync.Mutex
	reports []schema.Report
	err     error
}

func (s *recordingSink) Write(report schema.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report.Clone())
	return s.err
}

// recordingProgress counts pipeline events.
type recordingProgress struct {
	mu      sync.Mutex
	started []string
	samples map[string]int
	cached  int
	ended   map[string]error
}

func newRecordingProgress() *recordingProgress {
	return &recordingProgress{samples: map[string]int{}, ended: map[string]error{}}
}

func (p *recordingProgress) StartProject(project string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = append(p.started, project)
}

func (p *recordingProgress) Sample(project string, _ schema.SampleEntry, cached bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samples[project]++
	if cached {
		p.cached++
	}
}

func (p *recordingProgress) EndProject(project string, _ int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ended[project] = err
}

func TestRunProject_AnalyzesEverySelectedCommit(t *testing.T) {
	cfg := testConfig(t)
	spec := testProject("synapse")
	commits := weeklyCommits()
	reportPath := writeReportFile(t, sampleReport)

	git := &contract.MockGitClient{}
	expectHistory(git, spec, commits)
	for _, c := range commits {
		git.On("ResetHard", mock.Anything, spec.Dir, c.ID).Return(nil).Once()
	}
	analyzer := &contract.MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, contract.AnalyzerRequest{
		Dir:       spec.Dir,
		Paths:     spec.Paths,
		Excludes:  spec.Excludes,
		ReportDir: cfg.ProjectReportDir("synapse"),
	}).Return(reportPath, nil).Times(3)

	progress := newRecordingProgress()
	res := NewPipeline(cfg, git, analyzer, nil).SetProgress(progress).RunProject(context.Background(), spec, monday)

	require.NoError(t, res.Err)
	assert.Empty(t, res.Skipped)
	assert.Zero(t, res.Cached)
	require.Len(t, res.Series, 3)
	for i, entry := range res.Series {
		assert.Equal(t, commits[i].ID, entry.Commit, "series keeps walk order")
		assert.True(t, commits[i].Time.Equal(entry.Time))
		assert.Equal(t, sampleTotal, entry.Total)
		assert.Equal(t, sampleModules, entry.ByModule)
	}
	assert.Equal(t, []string{"synapse"}, progress.started)
	assert.Equal(t, 3, progress.samples["synapse"])
	assert.Contains(t, progress.ended, "synapse")
	assert.NoError(t, progress.ended["synapse"])

	git.AssertExpectations(t)
	analyzer.AssertExpectations(t)
}

func TestRunProject_SkipsUnselectedCommits(t *testing.T) {
	cfg := testConfig(t)
	spec := testProject("sydent")
	commits := []schema.Commit{
		{ID: "aaaa", Time: monday.Add(2 * time.Hour)},
		{ID: "bbbb", Time: monday.Add(time.Hour)}, // After the cursor, not selected
		{ID: "cccc", Time: monday.Add(-time.Hour)},
	}
	reportPath := writeReportFile(t, sampleReport)

	git := &contract.MockGitClient{}
	expectHistory(git, spec, commits)
	git.On("ResetHard", mock.Anything, spec.Dir, "aaaa").Return(nil)
	git.On("ResetHard", mock.Anything, spec.Dir, "cccc").Return(nil)
	analyzer := &contract.MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(reportPath, nil)

	res := NewPipeline(cfg, git, analyzer, nil).RunProject(context.Background(), spec, monday)

	require.NoError(t, res.Err)
	require.Len(t, res.Series, 2)
	assert.Equal(t, "aaaa", res.Series[0].Commit)
	assert.Equal(t, "cccc", res.Series[1].Commit)
	git.AssertNotCalled(t, "ResetHard", mock.Anything, spec.Dir, "bbbb")
}

func TestRunProject_StoreHitSkipsCheckout(t *testing.T) {
	cfg := testConfig(t)
	spec := testProject("synapse")
	commits := weeklyCommits()
	reportPath := writeReportFile(t, sampleReport)
	fp := Fingerprint(spec, cfg.AnalyzerBin)

	stored := schema.SampleEntry{
		Commit:   commits[1].ID,
		Time:     time.Unix(0, 0),
		Total:    schema.Record{Lines: 1, Precise: 1},
		ByModule: map[schema.ModuleKey]schema.Record{"synapse": {Lines: 1, Precise: 1}},
	}
	store := &iocache.MockSampleStore{}
	store.On("GetSample", "synapse", commits[1].ID, fp).Return(stored, true, nil)
	store.On("GetSample", "synapse", mock.Anything, fp).Return(schema.SampleEntry{}, false, nil)
	store.On("PutSample", "run-1", "synapse", fp, mock.Anything).Return(nil).Twice()

	git := &contract.MockGitClient{}
	expectHistory(git, spec, commits)
	git.On("ResetHard", mock.Anything, spec.Dir, commits[0].ID).Return(nil)
	git.On("ResetHard", mock.Anything, spec.Dir, commits[2].ID).Return(nil)
	analyzer := &contract.MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(reportPath, nil).Twice()

	progress := newRecordingProgress()
	res := NewPipeline(cfg, git, analyzer, store).SetRunID("run-1").SetProgress(progress).
		RunProject(context.Background(), spec, monday)

	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Cached)
	assert.Equal(t, 1, progress.cached)
	require.Len(t, res.Series, 3)
	assert.Equal(t, stored.Total, res.Series[1].Total)
	assert.True(t, commits[1].Time.Equal(res.Series[1].Time), "walk timestamp wins over the stored one")
	git.AssertNotCalled(t, "ResetHard", mock.Anything, spec.Dir, commits[1].ID)
	store.AssertExpectations(t)
	analyzer.AssertExpectations(t)
}

func TestRunProject_StoreErrorsOnlyWarn(t *testing.T) {
	cfg := testConfig(t)
	spec := testProject("synapse")
	commits := weeklyCommits()[:1]
	reportPath := writeReportFile(t, sampleReport)

	store := &iocache.MockSampleStore{}
	store.On("GetSample", "synapse", mock.Anything, mock.Anything).Return(nil, false, errors.New("db locked"))
	store.On("PutSample", mock.Anything, "synapse", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	git := &contract.MockGitClient{}
	expectHistory(git, spec, commits)
	git.On("ResetHard", mock.Anything, spec.Dir, commits[0].ID).Return(nil)
	analyzer := &contract.MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(reportPath, nil)

	res := NewPipeline(cfg, git, analyzer, store).RunProject(context.Background(), spec, monday)
	require.NoError(t, res.Err)
	assert.Len(t, res.Series, 1)
	assert.Empty(t, res.Skipped)
}

func TestRunProject_CheckoutFailureIsIsolated(t *testing.T) {
	cfg := testConfig(t)
	spec := testProject("synapse")
	commits := weeklyCommits()
	reportPath := writeReportFile(t, sampleReport)

	git := &contract.MockGitClient{}
	expectHistory(git, spec, commits)
	git.On("ResetHard", mock.Anything, spec.Dir, commits[0].ID).Return(nil)
	git.On("ResetHard", mock.Anything, spec.Dir, commits[1].ID).Return(errors.New("index.lock exists"))
	git.On("ResetHard", mock.Anything, spec.Dir, commits[2].ID).Return(nil)
	analyzer := &contract.MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(reportPath, nil).Twice()

	res := NewPipeline(cfg, git, analyzer, nil).RunProject(context.Background(), spec, monday)

	require.NoError(t, res.Err)
	require.Len(t, res.Series, 2)
	assert.Equal(t, commits[0].ID, res.Series[0].Commit)
	assert.Equal(t, commits[2].ID, res.Series[1].Commit)
	require.Len(t, res.Skipped, 1)
	assert.ErrorIs(t, res.Skipped[0], schema.ErrCheckout)

	var stageErr *schema.StageError
	require.ErrorAs(t, res.Skipped[0], &stageErr)
	assert.Equal(t, commits[1].ID, stageErr.Commit)
	assert.Equal(t, schema.CheckoutStage, stageErr.Stage)
	analyzer.AssertExpectations(t)
}

func TestRunProject_FailFastStopsAtFirstError(t *testing.T) {
	cfg := testConfig(t)
	cfg.FailFast = true
	spec := testProject("synapse")
	commits := weeklyCommits()
	reportPath := writeReportFile(t, sampleReport)

	git := &contract.MockGitClient{}
	expectHistory(git, spec, commits)
	git.On("ResetHard", mock.Anything, spec.Dir, mock.Anything).Return(nil)
	analyzer := &contract.MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(reportPath, nil).Once()
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return("", errors.New("mypy crashed")).Once()

	res := NewPipeline(cfg, git, analyzer, nil).RunProject(context.Background(), spec, monday)

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, schema.ErrAnalyzer)
	assert.Len(t, res.Series, 1)
	git.AssertNotCalled(t, "ResetHard", mock.Anything, spec.Dir, commits[2].ID)
	analyzer.AssertExpectations(t)
}

func TestRunProject_SyncFailure(t *testing.T) {
	cfg := testConfig(t)
	spec := testProject("sygnal")

	git := &contract.MockGitClient{}
	git.On("Fetch", mock.Anything, spec.Dir, contract.DefaultRemote).Return(errors.New("could not resolve host"))

	res := NewPipeline(cfg, git, &contract.MockAnalyzer{}, nil).RunProject(context.Background(), spec, monday)

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, schema.ErrSync)
	assert.ErrorContains(t, res.Err, "could not resolve host")
	assert.Empty(t, res.Series)
	git.AssertNotCalled(t, "IterCommits", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunProject_WalkFailure(t *testing.T) {
	cfg := testConfig(t)
	spec := testProject("sygnal")
	reportPath := writeReportFile(t, sampleReport)

	walk := func(yield func(schema.Commit, error) bool) {
		if !yield(weeklyCommits()[0], nil) {
			return
		}
		yield(schema.Commit{}, errors.New("rev-list: bad object"))
	}
	git := &contract.MockGitClient{}
	git.On("Fetch", mock.Anything, spec.Dir, contract.DefaultRemote).Return(nil)
	git.On("IterCommits", mock.Anything, spec.Dir, "origin/develop").Return(iter.Seq2[schema.Commit, error](walk))
	git.On("ResetHard", mock.Anything, spec.Dir, mock.Anything).Return(nil)
	analyzer := &contract.MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(reportPath, nil)

	res := NewPipeline(cfg, git, analyzer, nil).RunProject(context.Background(), spec, monday)
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, schema.ErrSync)
	assert.ErrorContains(t, res.Err, "bad object")
}

func TestRunProject_AnalyzerGetsTimeout(t *testing.T) {
	cfg := testConfig(t)
	cfg.AnalyzerTimeout = time.Minute
	spec := testProject("synapse")
	reportPath := writeReportFile(t, sampleReport)

	git := &contract.MockGitClient{}
	expectHistory(git, spec, weeklyCommits()[:1])
	git.On("ResetHard", mock.Anything, spec.Dir, mock.Anything).Return(nil)

	var hadDeadline bool
	analyzer := &contract.MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		_, hadDeadline = args.Get(0).(context.Context).Deadline()
	}).Return(reportPath, nil)

	res := NewPipeline(cfg, git, analyzer, nil).RunProject(context.Background(), spec, monday)
	require.NoError(t, res.Err)
	assert.True(t, hadDeadline)
}

func TestRunProject_MalformedReportLines(t *testing.T) {
	report := sampleReport + "synapse.broken 1 2\n"

	run := func(strict bool) ProjectResult {
		cfg := testConfig(t)
		cfg.StrictParse = strict
		spec := testProject("synapse")
		git := &contract.MockGitClient{}
		expectHistory(git, spec, weeklyCommits()[:1])
		git.On("ResetHard", mock.Anything, spec.Dir, mock.Anything).Return(nil)
		analyzer := &contract.MockAnalyzer{}
		analyzer.On("Analyze", mock.Anything, mock.Anything).Return(writeReportFile(t, report), nil)
		return NewPipeline(cfg, git, analyzer, nil).RunProject(context.Background(), spec, monday)
	}

	lenient := run(false)
	require.NoError(t, lenient.Err)
	require.Len(t, lenient.Series, 1)
	assert.Equal(t, sampleTotal, lenient.Series[0].Total, "malformed lines are left out")

	strict := run(true)
	require.NoError(t, strict.Err)
	assert.Empty(t, strict.Series)
	require.Len(t, strict.Skipped, 1)
	assert.ErrorIs(t, strict.Skipped[0], schema.ErrParse)
}

func TestRun_IsolatesFailedProjects(t *testing.T) {
	cfg := testConfig(t)
	good := testProject("synapse")
	bad := testProject("sydent")
	reportPath := writeReportFile(t, sampleReport)

	git := &contract.MockGitClient{}
	git.On("Fetch", mock.Anything, bad.Dir, contract.DefaultRemote).Return(errors.New("timeout"))
	expectHistory(git, good, weeklyCommits())
	git.On("ResetHard", mock.Anything, good.Dir, mock.Anything).Return(nil)
	analyzer := &contract.MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(reportPath, nil)

	sink := &recordingSink{}
	result, err := NewPipeline(cfg, git, analyzer, nil).Run(context.Background(), []schema.ProjectSpec{bad, good}, monday, sink)
	require.NoError(t, err)

	assert.Equal(t, []string{"synapse"}, result.Report.Projects(), "a failed project is left out of the report")
	assert.Equal(t, 3, result.Samples())
	assert.Equal(t, 1, result.Failures())
	assert.ErrorIs(t, result.Err(), schema.ErrSync)
	require.Len(t, result.Projects, 2)
	assert.Equal(t, "sydent", result.Projects[0].Project)
	assert.Equal(t, "synapse", result.Projects[1].Project)

	require.Len(t, sink.reports, 1, "only successful projects are flushed")
	assert.Len(t, sink.reports[0]["synapse"], 3)
}

func TestRun_EverySampleSkippedWritesEmptySeries(t *testing.T) {
	cfg := testConfig(t)
	spec := testProject("synapse")

	git := &contract.MockGitClient{}
	expectHistory(git, spec, weeklyCommits()[:1])
	git.On("ResetHard", mock.Anything, spec.Dir, mock.Anything).Return(nil)
	analyzer := &contract.MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return("", errors.New("mypy: command not found"))

	sink := &recordingSink{}
	result, err := NewPipeline(cfg, git, analyzer, nil).Run(context.Background(), []schema.ProjectSpec{spec}, monday, sink)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failures())
	require.Contains(t, result.Report, "synapse")
	assert.NotNil(t, result.Report["synapse"])
	assert.Empty(t, result.Report["synapse"])

	var buf bytes.Buffer
	require.NoError(t, outwriter.WriteReport(&buf, result.Report))
	assert.JSONEq(t, `{"synapse": []}`, buf.String())
	got, err := outwriter.ReadReport(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"synapse"}, got.Projects())

	require.Len(t, sink.reports, 1)
	assert.NotNil(t, sink.reports[0]["synapse"])
}

func TestRun_FlushesAfterEachProject(t *testing.T) {
	cfg := testConfig(t)
	projects := []schema.ProjectSpec{testProject("synapse"), testProject("sydent"), testProject("sygnal")}
	reportPath := writeReportFile(t, sampleReport)

	git := &contract.MockGitClient{}
	for _, p := range projects {
		expectHistory(git, p, weeklyCommits()[:2])
	}
	git.On("ResetHard", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	analyzer := &contract.MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(reportPath, nil)

	sink := &recordingSink{}
	result, err := NewPipeline(cfg, git, analyzer, nil).Run(context.Background(), projects, monday, sink)
	require.NoError(t, err)
	require.NoError(t, result.Err())

	require.Len(t, sink.reports, 3)
	for i, report := range sink.reports {
		assert.Len(t, report, i+1, "report grows by one project per flush")
	}
	assert.Equal(t, []string{"sydent", "synapse", "sygnal"}, sink.reports[2].Projects())
}

func TestRun_ConcurrentWorkers(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workers = 4
	projects := []schema.ProjectSpec{testProject("a"), testProject("b"), testProject("c")}
	reportPath := writeReportFile(t, sampleReport)

	git := &contract.MockGitClient{}
	for _, p := range projects {
		expectHistory(git, p, weeklyCommits())
	}
	git.On("ResetHard", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	analyzer := &contract.MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(reportPath, nil)

	result, err := NewPipeline(cfg, git, analyzer, nil).Run(context.Background(), projects, monday, &recordingSink{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, result.Report.Projects())
	assert.Equal(t, 9, result.Samples())
	for i, pr := range result.Projects {
		assert.Equal(t, projects[i].Name, pr.Project, "results keep configuration order")
	}
}

func TestRun_FailFastSkipsRemainingProjects(t *testing.T) {
	cfg := testConfig(t)
	cfg.FailFast = true
	first := testProject("synapse")
	second := testProject("sydent")

	git := &contract.MockGitClient{}
	git.On("Fetch", mock.Anything, first.Dir, contract.DefaultRemote).Return(errors.New("connection refused"))

	sink := &recordingSink{}
	result, err := NewPipeline(cfg, git, &contract.MockAnalyzer{}, nil).Run(context.Background(), []schema.ProjectSpec{first, second}, monday, sink)

	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrSync)
	assert.Empty(t, result.Report)
	assert.Empty(t, sink.reports)
	require.Len(t, result.Projects, 2)
	assert.ErrorContains(t, result.Projects[1].Err, "skipped")
	assert.ErrorIs(t, result.Projects[1].Err, schema.ErrSync)
	git.AssertNotCalled(t, "Fetch", mock.Anything, second.Dir, mock.Anything)
}

func TestRun_CancelledContext(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewPipeline(cfg, &contract.MockGitClient{}, &contract.MockAnalyzer{}, nil).
		Run(ctx, []schema.ProjectSpec{testProject("synapse")}, monday, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, result.Failures())
}

func TestRun_SinkErrorIsReported(t *testing.T) {
	cfg := testConfig(t)
	spec := testProject("synapse")
	reportPath := writeReportFile(t, sampleReport)

	git := &contract.MockGitClient{}
	expectHistory(git, spec, weeklyCommits()[:1])
	git.On("ResetHard", mock.Anything, spec.Dir, mock.Anything).Return(nil)
	analyzer := &contract.MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(reportPath, nil)

	sink := &recordingSink{err: errors.New("read-only file system")}
	result, err := NewPipeline(cfg, git, analyzer, nil).Run(context.Background(), []schema.ProjectSpec{spec}, monday, sink)
	require.Error(t, err)
	assert.ErrorContains(t, err, "read-only file system")
	assert.Len(t, result.Report["synapse"], 1)
}

func TestFingerprint(t *testing.T) {
	spec := testProject("synapse")
	fp := Fingerprint(spec, "mypy")
	assert.Len(t, fp, 64)
	assert.Equal(t, fp, Fingerprint(spec.Clone(), "mypy"))

	other := spec.Clone()
	other.Excludes = nil
	assert.NotEqual(t, fp, Fingerprint(other, "mypy"))
	assert.NotEqual(t, fp, Fingerprint(spec, "/opt/mypy/bin/mypy"))

	moved := spec.Clone()
	moved.Dir = "/elsewhere"
	assert.Equal(t, fp, Fingerprint(moved, "mypy"), "the working copy location does not matter")
}

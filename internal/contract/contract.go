// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"iter"
	"time"

	"github.com/clokep/arewetypedyet/schema"
)

// GitClient defines the repository operations the sampling pipeline needs.
// This allows the pipeline to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// --- History ---

	// Fetch updates the remote-tracking refs of the working copy.
	Fetch(ctx context.Context, repoPath string, remote string) error

	// IterCommits streams the commits reachable from ref, newest first, following all parents.
	IterCommits(ctx context.Context, repoPath string, ref string) iter.Seq2[schema.Commit, error]

	// --- Working Tree ---

	// ResetHard forces the index and working tree to match the given commit.
	ResetHard(ctx context.Context, repoPath string, commit string) error
}

// AnalyzerRequest describes one analyzer invocation on a checked-out snapshot.
type AnalyzerRequest struct {
	Dir       string   // Working copy root, used as the process working directory
	Paths     []string // Source roots to analyze, relative to Dir
	Excludes  []string // Path patterns the analyzer skips
	ReportDir string   // Where the line-precision report is written
}

// Analyzer produces a line-precision report for a working tree.
type Analyzer interface {
	// Analyze runs the analyzer and returns the path of the report it wrote.
	Analyze(ctx context.Context, req AnalyzerRequest) (string, error)
}

// StoreManager defines the interface for managing the sample store.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetSampleStore() SampleStore
}

// SampleStore persists analyzed samples and tracks runs.
type SampleStore interface {
	// BeginRun records a new run and returns its unique ID.
	BeginRun(startTime time.Time, startDay time.Time, configParams map[string]any) (string, error)

	// EndRun updates the run with completion data.
	EndRun(runID string, endTime time.Time, projects, samples, failures int) error

	// GetSample looks up a previously analyzed commit. The boolean is false on a miss.
	GetSample(project, commit, fingerprint string) (schema.SampleEntry, bool, error)

	// PutSample stores the analysis of a commit, replacing any earlier one under the same key.
	PutSample(runID, project, fingerprint string, entry schema.SampleEntry) error

	// ListProjects returns every project with at least one stored sample.
	ListProjects() ([]string, error)

	// GetSeries returns stored samples for a project, newest commit first.
	// A limit of zero or less returns all of them.
	GetSeries(project string, limit int) ([]schema.StoredSample, error)

	// GetRuns returns all recorded runs, oldest first.
	GetRuns() ([]schema.RunRecord, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// ReportSink receives the report as it grows, once after every finished project.
type ReportSink interface {
	Write(report schema.Report) error
}

// ProgressReporter receives pipeline events for console output.
// Implementations must be safe for use by concurrent project workers.
type ProgressReporter interface {
	StartProject(project string)
	Sample(project string, entry schema.SampleEntry, cached bool)
	EndProject(project string, samples int, err error)
}

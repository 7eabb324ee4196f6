package core

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/clokep/arewetypedyet/core/agg"
	"github.com/clokep/arewetypedyet/core/sample"
	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/clokep/arewetypedyet/schema"
)

// fingerprintVersion is bumped whenever the way a sample is produced changes,
// so entries stored by older builds stop matching.
const fingerprintVersion = 1

// ProjectResult is the outcome of sampling one project.
type ProjectResult struct {
	Project string
	Series  []schema.SampleEntry // Newest commit first
	Cached  int                  // Samples reused from the store
	Skipped []error              // Commit-level failures that cost a sample
	Err     error                // Set when the project produced no usable series
}

// RunResult is the outcome of a whole run.
type RunResult struct {
	Report   schema.Report
	Projects []ProjectResult // In configuration order
}

// Samples returns the number of samples in the report.
func (r *RunResult) Samples() int {
	n := 0
	for _, series := range r.Report {
		n += len(series)
	}
	return n
}

// Failures counts skipped samples and failed projects.
func (r *RunResult) Failures() int {
	n := 0
	for _, pr := range r.Projects {
		n += len(pr.Skipped)
		if pr.Err != nil {
			n++
		}
	}
	return n
}

// Err joins every failure of the run, or returns nil when there were none.
func (r *RunResult) Err() error {
	var errs []error
	for _, pr := range r.Projects {
		errs = append(errs, pr.Skipped...)
		if pr.Err != nil {
			errs = append(errs, pr.Err)
		}
	}
	return errors.Join(errs...)
}

// Pipeline samples the history of projects and analyzes each selected commit.
type Pipeline struct {
	cfg      *contract.Config
	git      contract.GitClient
	analyzer contract.Analyzer
	store    contract.SampleStore
	progress contract.ProgressReporter
	runID    string
}

// NewPipeline creates a pipeline. A nil store disables sample reuse.
func NewPipeline(cfg *contract.Config, git contract.GitClient, analyzer contract.Analyzer, store contract.SampleStore) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		git:      git,
		analyzer: analyzer,
		store:    store,
		progress: quietProgress{},
	}
}

// SetRunID tags stored samples with the run that produced them.
func (p *Pipeline) SetRunID(runID string) *Pipeline {
	p.runID = runID
	return p
}

// SetProgress sets where pipeline events are reported.
func (p *Pipeline) SetProgress(progress contract.ProgressReporter) *Pipeline {
	if progress == nil {
		progress = quietProgress{}
	}
	p.progress = progress
	return p
}

// Fingerprint identifies the analysis settings a stored sample was produced with.
func Fingerprint(spec schema.ProjectSpec, analyzerBin string) string {
	key := fmt.Sprintf("%d:%s:%s:%s",
		fingerprintVersion,
		strings.Join(spec.Paths, ","),
		strings.Join(spec.Excludes, ","),
		analyzerBin,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

// Run samples every project and returns the report built from the ones that succeeded.
// The sink receives the growing report after each successful project. Projects run on
// up to cfg.Workers goroutines; commits within a project are always sequential.
//
// With FailFast set the first failure cancels the remaining work and is returned.
// Otherwise failures are only recorded in the result.
func (p *Pipeline) Run(ctx context.Context, projects []schema.ProjectSpec, startDay time.Time, sink contract.ReportSink) (*RunResult, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	result := &RunResult{
		Report:   schema.Report{},
		Projects: make([]ProjectResult, len(projects)),
	}
	started := make([]bool, len(projects))

	var mu sync.Mutex
	var sinkErrs []error

	jobs := make(chan int, len(projects))
	for i := range projects {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for range max(1, min(p.cfg.Workers, len(projects))) {
		wg.Go(func() {
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				mu.Lock()
				started[idx] = true
				mu.Unlock()

				pr := p.RunProject(ctx, projects[idx], startDay)

				mu.Lock()
				result.Projects[idx] = pr
				if pr.Err == nil {
					// A project whose every sample was skipped is still written as [].
					if pr.Series == nil {
						pr.Series = []schema.SampleEntry{}
					}
					result.Report[pr.Project] = pr.Series
					if sink != nil {
						if err := sink.Write(result.Report); err != nil {
							sinkErrs = append(sinkErrs, fmt.Errorf("cannot save report after %s: %w", pr.Project, err))
						}
					}
				}
				mu.Unlock()

				if p.cfg.FailFast && pr.Err != nil {
					cancel(pr.Err)
				}
			}
		})
	}
	wg.Wait()

	cause := context.Cause(ctx)
	for i, spec := range projects {
		if !started[i] {
			result.Projects[i] = ProjectResult{
				Project: spec.Name,
				Err:     fmt.Errorf("%s: skipped: %w", spec.Name, cause),
			}
		}
	}

	if ctx.Err() != nil {
		return result, errors.Join(append([]error{cause}, sinkErrs...)...)
	}
	return result, errors.Join(sinkErrs...)
}

// RunProject fetches a project, walks its sampled history and analyzes every selected
// commit. Commit-level failures are skipped unless FailFast is set.
func (p *Pipeline) RunProject(ctx context.Context, spec schema.ProjectSpec, startDay time.Time) ProjectResult {
	res := ProjectResult{Project: spec.Name}
	p.progress.StartProject(spec.Name)
	defer func() { p.progress.EndProject(spec.Name, len(res.Series), res.Err) }()

	fetchCtx, cancelFetch := withTimeout(ctx, p.cfg.FetchTimeout)
	err := p.git.Fetch(fetchCtx, spec.Dir, p.cfg.Remote)
	cancelFetch()
	if err != nil {
		res.Err = &schema.StageError{Project: spec.Name, Stage: schema.SyncStage, Err: err}
		return res
	}

	fingerprint := Fingerprint(spec, p.cfg.AnalyzerBin)
	ref := p.cfg.Remote + "/" + spec.Branch
	sampler := sample.NewSampler(spec.InitialCommit, startDay)

	for c, err := range sampler.Sample(p.git.IterCommits(ctx, spec.Dir, ref)) {
		if err != nil {
			res.Err = &schema.StageError{Project: spec.Name, Stage: schema.SyncStage, Err: fmt.Errorf("cannot walk %s: %w", ref, err)}
			return res
		}
		if ctx.Err() != nil {
			res.Err = fmt.Errorf("%s: %w", spec.Name, context.Cause(ctx))
			return res
		}

		entry, cached, err := p.sampleCommit(ctx, spec, fingerprint, c)
		if err != nil {
			if p.cfg.FailFast || ctx.Err() != nil {
				res.Err = err
				return res
			}
			contract.LogWarn("Skipping sample", err)
			res.Skipped = append(res.Skipped, err)
			continue
		}
		if cached {
			res.Cached++
		}
		res.Series = append(res.Series, entry)
		p.progress.Sample(spec.Name, entry, cached)
	}
	return res
}

// sampleCommit returns the analysis of one commit, from the store when possible.
func (p *Pipeline) sampleCommit(ctx context.Context, spec schema.ProjectSpec, fingerprint string, c schema.Commit) (schema.SampleEntry, bool, error) {
	if p.store != nil {
		entry, ok, err := p.store.GetSample(spec.Name, c.ID, fingerprint)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Cannot read stored sample %s@%s", spec.Name, schema.ShortID(c.ID)), err)
		} else if ok {
			// The store keys by id only; the walk has the authoritative timestamp.
			entry.Time = c.Time
			return entry, true, nil
		}
	}

	stageErr := func(stage schema.Stage, err error) error {
		return &schema.StageError{Project: spec.Name, Commit: c.ID, Stage: stage, Err: err}
	}

	if err := p.git.ResetHard(ctx, spec.Dir, c.ID); err != nil {
		return schema.SampleEntry{}, false, stageErr(schema.CheckoutStage, err)
	}

	analyzeCtx, cancel := withTimeout(ctx, p.cfg.AnalyzerTimeout)
	reportPath, err := p.analyzer.Analyze(analyzeCtx, contract.AnalyzerRequest{
		Dir:       spec.Dir,
		Paths:     spec.Paths,
		Excludes:  spec.Excludes,
		ReportDir: p.cfg.ProjectReportDir(spec.Name),
	})
	cancel()
	if err != nil {
		return schema.SampleEntry{}, false, stageErr(schema.AnalyzeStage, err)
	}

	aggregation, err := agg.AggregateFile(reportPath, p.cfg.StrictParse)
	if err != nil {
		return schema.SampleEntry{}, false, stageErr(schema.AggregateStage, err)
	}
	for _, w := range aggregation.Warnings {
		contract.LogWarn(fmt.Sprintf("Ignoring report line for %s@%s", spec.Name, schema.ShortID(c.ID)), w)
	}

	entry := schema.NewSampleEntry(c, aggregation)
	if p.store != nil {
		if err := p.store.PutSample(p.runID, spec.Name, fingerprint, entry); err != nil {
			contract.LogWarn(fmt.Sprintf("Cannot store sample %s@%s", spec.Name, schema.ShortID(c.ID)), err)
		}
	}
	return entry, false, nil
}

// withTimeout applies d to ctx, or leaves ctx unbounded when d is not positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// quietProgress discards pipeline events.
type quietProgress struct{}

func (quietProgress) StartProject(string) {}

func (quietProgress) Sample(string, schema.SampleEntry, bool) {}

func (quietProgress) EndProject(string, int, error) {}

// Package core runs the weekly sampling pipeline and the commands built on its results.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/clokep/arewetypedyet/core/sample"
	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/clokep/arewetypedyet/internal/outwriter"
	"github.com/clokep/arewetypedyet/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteRun samples every configured project, writes the JSON report to cfg.OutputFile and
// records the run in the sample store. It is the main entry point for the 'run' command.
func ExecuteRun(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	return executeRun(ctx, cfg, contract.NewLocalGitClient(), contract.NewMypyAnalyzer(cfg.AnalyzerBin), mgr)
}

// executeRun is ExecuteRun with its collaborators supplied by the caller.
func executeRun(ctx context.Context, cfg *contract.Config, client contract.GitClient, analyzer contract.Analyzer, mgr contract.StoreManager) error {
	start := time.Now()
	startDay := cfg.StartDay
	if startDay.IsZero() {
		startDay = sample.LatestMonday(start)
	}

	var store contract.SampleStore
	if mgr != nil {
		store = mgr.GetSampleStore()
	}
	runID := ""
	if store != nil {
		id, err := store.BeginRun(start, startDay, runParams(cfg, startDay))
		if err != nil {
			contract.LogWarn("Cannot record run", err)
		} else {
			runID = id
		}
	}

	sink := outwriter.NewSink(cfg.OutputFile)
	var console io.Writer = os.Stdout
	if _, ok := sink.(*outwriter.StreamSink); ok {
		console = os.Stderr
	}

	pipeline := NewPipeline(cfg, client, analyzer, store).
		SetRunID(runID).
		SetProgress(outwriter.NewConsole(console, cfg.Workers))
	result, runErr := pipeline.Run(ctx, cfg.Projects, startDay, sink)

	// The final write guarantees a report even when no project finished.
	var sinkErr error
	if err := sink.Write(result.Report); err != nil {
		sinkErr = fmt.Errorf("cannot save report: %w", err)
	}
	if err := sink.Close(); err != nil {
		sinkErr = errors.Join(sinkErr, fmt.Errorf("cannot save report: %w", err))
	}

	if runID != "" {
		if err := store.EndRun(runID, time.Now(), len(cfg.Projects), result.Samples(), result.Failures()); err != nil {
			contract.LogWarn("Cannot finish run record", err)
		}
	}

	if fileSink, ok := sink.(*outwriter.FileSink); ok && sinkErr == nil {
		contract.LogInfo("Wrote %d samples of %d projects to %s in %s",
			result.Samples(), len(result.Report), fileSink.Path(), time.Since(start).Round(time.Second))
	}

	switch {
	case runErr != nil:
		return errors.Join(runErr, sinkErr)
	case sinkErr != nil:
		return sinkErr
	case result.Failures() > 0:
		return fmt.Errorf("%d failures during run: %w", result.Failures(), result.Err())
	}
	return nil
}

// runParams is the configuration recorded with a run.
func runParams(cfg *contract.Config, startDay time.Time) map[string]any {
	return map[string]any{
		"projects":         cfg.ProjectNames(),
		"remote":           cfg.Remote,
		"workers":          cfg.Workers,
		"fail_fast":        cfg.FailFast,
		"strict_parse":     cfg.StrictParse,
		"analyzer_bin":     cfg.AnalyzerBin,
		"analyzer_timeout": cfg.AnalyzerTimeout.String(),
		"start_day":        startDay.Format(contract.StartDayFormat),
		"output_file":      cfg.OutputFile,
	}
}

// ExecuteShow renders a report file, or the stored series when reportPath is empty,
// in the configured output format.
func ExecuteShow(_ context.Context, cfg *contract.Config, mgr contract.StoreManager, reportPath string) error {
	var report schema.Report
	if reportPath == "" {
		if mgr == nil || mgr.GetSampleStore() == nil {
			return errors.New("no report file given and no sample store available")
		}
		initialCommits := make(map[string]string, len(cfg.Projects))
		for _, p := range cfg.Projects {
			initialCommits[p.Name] = p.InitialCommit
		}
		r, err := ReportFromStore(mgr.GetSampleStore(), cfg.ProjectFilter, initialCommits)
		if err != nil {
			return err
		}
		report = r
	} else {
		r, err := readReportFile(reportPath)
		if err != nil {
			return err
		}
		report = FilterReport(r, cfg.ProjectFilter)
	}
	return outwriter.PrintReport(report, cfg)
}

// readReportFile loads and validates a JSON report.
func readReportFile(path string) (schema.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open report: %w", err)
	}
	defer func() { _ = f.Close() }()
	report, err := outwriter.ReadReport(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

// FilterReport keeps only the named projects. An empty filter keeps everything.
func FilterReport(report schema.Report, projects []string) schema.Report {
	if len(projects) == 0 {
		return report
	}
	out := make(schema.Report, len(projects))
	for name, series := range report {
		if slices.Contains(projects, name) {
			out[name] = series
		}
	}
	return out
}

// ReportFromStore rebuilds a report from the stored samples, newest commit first.
// An empty filter selects every stored project.
//
// The store keeps the union of every run, so each project's samples are thinned with the
// weekly sampler anchored at the start day of the latest recorded run. This gives back the
// series that run selected instead of one extra branch tip per past run. initialCommits maps
// project names to the commit that is always kept. Without any recorded run the union is
// returned as is.
func ReportFromStore(store contract.SampleStore, projects []string, initialCommits map[string]string) (schema.Report, error) {
	if len(projects) == 0 {
		names, err := store.ListProjects()
		if err != nil {
			return nil, fmt.Errorf("cannot list stored projects: %w", err)
		}
		projects = names
	}
	runs, err := store.GetRuns()
	if err != nil {
		return nil, fmt.Errorf("cannot list stored runs: %w", err)
	}

	report := make(schema.Report, len(projects))
	for _, name := range projects {
		stored, err := store.GetSeries(name, 0)
		if err != nil {
			return nil, fmt.Errorf("cannot load series of %s: %w", name, err)
		}
		if len(stored) == 0 {
			continue
		}
		series := make([]schema.SampleEntry, len(stored))
		for i, s := range stored {
			series[i] = s.Entry
		}
		if len(runs) > 0 {
			series = resample(series, initialCommits[name], runs[len(runs)-1].StartDay)
		}
		report[name] = series
	}
	return report, nil
}

// resample keeps the entries the weekly sampler selects from a newest-first series.
func resample(series []schema.SampleEntry, initialCommit string, startDay time.Time) []schema.SampleEntry {
	sampler := sample.NewSampler(initialCommit, startDay)
	kept := series[:0:0]
	for _, e := range series {
		if sampler.Select(schema.Commit{ID: e.Commit, Time: e.Time}) {
			kept = append(kept, e)
		}
	}
	return kept
}

// ExecuteProjects lists the configured projects.
func ExecuteProjects(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.WriteProjectsTable(os.Stdout, cfg)
}

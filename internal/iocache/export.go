package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/clokep/arewetypedyet/internal/parquet"
	"github.com/dustin/go-humanize"
)

// ExportStore writes the store's runs and samples to prefix.runs.parquet and
// prefix.samples.parquet. Progress lines go to w.
func ExportStore(w io.Writer, store contract.SampleStore, prefix string) error {
	if prefix == "" {
		return errors.New("--export-prefix is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRuns == 0 && status.TotalSamples == 0 {
		return errors.New("no stored samples found to export")
	}
	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)

	runs, err := store.GetRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	runsFile := prefix + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %s runs to: %s\n", humanize.Comma(int64(len(runs))), runsFile)

	projects, err := store.ListProjects()
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	var rows []parquet.SampleModule
	for _, project := range projects {
		series, err := store.GetSeries(project, 0)
		if err != nil {
			return fmt.Errorf("failed to retrieve samples for %s: %w", project, err)
		}
		rows = append(rows, parquet.ConvertStoredSamples(series)...)
	}
	samplesFile := prefix + ".samples.parquet"
	if err := parquet.WriteSampleModulesParquet(rows, samplesFile); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %s sample rows to: %s\n", humanize.Comma(int64(len(rows))), samplesFile)
	return nil
}

package iocache

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/clokep/arewetypedyet/schema"
	"github.com/dustin/go-humanize"
)

// PrintStoreStatus writes store status information to w.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Schema Version: %d\n", status.SchemaVersion)
	_, _ = fmt.Fprintf(w, "Total Runs: %s\n", humanize.Comma(int64(status.TotalRuns)))
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %s\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s (%s)\n", status.LastRunTime.Format(time.DateTime), humanize.Time(status.LastRunTime))
	}
	_, _ = fmt.Fprintf(w, "Total Samples: %s\n", humanize.Comma(int64(status.TotalSamples)))
	if status.TotalSamples > 0 {
		_, _ = fmt.Fprintf(w, "Commit Range: %s to %s\n",
			status.OldestCommitAt.Format(time.DateOnly), status.NewestCommitAt.Format(time.DateOnly))
		_, _ = fmt.Fprintln(w, "Samples by Project:")
		for _, project := range slices.Sorted(maps.Keys(status.SamplesByRepo)) {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", project, humanize.Comma(int64(status.SamplesByRepo[project])))
		}
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		_, _ = fmt.Fprintf(w, "  %s: %s rows\n", table, humanize.Comma(status.TableSizes[table]))
	}
}

// PrintRuns writes one line per recorded run to w, oldest first.
func PrintRuns(w io.Writer, runs []schema.RunRecord) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, r := range runs {
		_, _ = fmt.Fprintln(w, describeRun(r))
	}
}

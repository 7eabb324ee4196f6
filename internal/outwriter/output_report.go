package outwriter

import (
	"fmt"
	"io"

	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/clokep/arewetypedyet/internal/parquet"
	"github.com/clokep/arewetypedyet/schema"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintReport outputs a report, dispatching based on the output format configured.
func PrintReport(report schema.Report, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteReport(w, report)
		}, "Wrote JSON report"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteReportCSV(w, report)
		}, "Wrote CSV report"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteRows(w, parquet.ConvertReport(report))
		}, "Wrote Parquet report"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteReportTable(w, report, cfg)
		}, "Wrote report table"); err != nil {
			return fmt.Errorf("error writing report table output: %w", err)
		}
	}
	return nil
}

// label returns the precision label for a record, colored when the config allows it.
func label(r schema.Record, cfg *contract.Config) string {
	percent := r.PreciseRatio() * 100
	if cfg.UseColors {
		return contract.GetColorLabel(percent)
	}
	return contract.GetPlainLabel(percent)
}

// counterCells formats a record's counters for a table row.
func counterCells(r schema.Record) []string {
	t := r.Tuple()
	cells := make([]string, len(t))
	for i, v := range t {
		cells[i] = humanize.Comma(int64(v))
	}
	return cells
}

// WriteReportTable renders, per project, the series of totals followed by the module
// breakdown of the newest sample.
func WriteReportTable(w io.Writer, report schema.Report, cfg *contract.Config) error {
	if len(report) == 0 {
		_, err := fmt.Fprintln(w, "No samples.")
		return err
	}
	moduleWidth := GetMaxTableModuleWidth(cfg)

	for _, project := range report.Projects() {
		series := report[project]
		if _, err := fmt.Fprintf(w, "%s: %s samples\n", project, humanize.Comma(int64(len(series)))); err != nil {
			return err
		}
		latest, ok := report.Latest(project)
		if !ok {
			continue
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Date", "Commit", "Lines", "Precise", "Imprecise", "Any", "Empty", "Unanalyzed", "Precise %", "Label"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		var data [][]string
		for _, e := range series {
			row := []string{e.Time.Local().Format("2006-01-02"), schema.ShortID(e.Commit)}
			row = append(row, counterCells(e.Total)...)
			row = append(row, formatPercent(e.Total.PreciseRatio()), label(e.Total, cfg))
			data = append(data, row)
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}

		if len(latest.ByModule) > 0 {
			if _, err := fmt.Fprintf(w, "Modules at %s:\n", schema.ShortID(latest.Commit)); err != nil {
				return err
			}
			modules := tablewriter.NewWriter(w)
			modules.Header([]string{"Module", "Lines", "Precise", "Imprecise", "Any", "Empty", "Unanalyzed", "Precise %", "Label"})
			modules.Configure(func(cfg *tablewriter.Config) {
				cfg.Row.Alignment.Global = tw.AlignRight
			})
			var moduleData [][]string
			for _, key := range latest.ModuleKeys() {
				r := latest.ByModule[key]
				row := []string{truncateModule(string(key), moduleWidth)}
				row = append(row, counterCells(r)...)
				row = append(row, formatPercent(r.PreciseRatio()), label(r, cfg))
				moduleData = append(moduleData, row)
			}
			if err := modules.Bulk(moduleData); err != nil {
				return err
			}
			if err := modules.Render(); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// WriteProjectsTable lists configured projects.
func WriteProjectsTable(w io.Writer, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Name", "Branch", "Initial Commit", "Paths", "Excludes", "Directory"})
	var data [][]string
	for _, p := range cfg.Projects {
		data = append(data, []string{
			p.Name,
			p.Branch,
			schema.ShortID(p.InitialCommit),
			joinOrDash(p.Paths),
			joinOrDash(p.Excludes),
			p.Dir,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d projects, remote %s, workspace %s\n", len(cfg.Projects), cfg.Remote, cfg.Workspace)
	return err
}

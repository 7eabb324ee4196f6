// Package parquet exports line-precision samples and run history to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/clokep/arewetypedyet/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents one recorded pipeline run.
// This struct maps to the awty_runs database table.
type Run struct {
	RunID     string     `parquet:"run_id,snappy"`
	StartTime time.Time  `parquet:"start_time,snappy"`
	EndTime   *time.Time `parquet:"end_time,optional,snappy"`

	// StartDay is the Monday the weekly sampling started from
	StartDay time.Time `parquet:"start_day,snappy"`

	Projects int32 `parquet:"projects,snappy"`
	Samples  int32 `parquet:"samples,snappy"`
	Failures int32 `parquet:"failures,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// SampleModule is one module bucket of one sample, flattened for columnar tools.
// The whole-tree total of a sample is written as a row whose Module is "__total__".
type SampleModule struct {
	Project    string    `parquet:"project,dict,snappy"`
	CommitID   string    `parquet:"commit_id,dict,snappy"`
	CommitTime time.Time `parquet:"commit_time,snappy"`
	Module     string    `parquet:"module,dict,snappy"`

	Lines      int64 `parquet:"lines,snappy"`
	Precise    int64 `parquet:"precise,snappy"`
	Imprecise  int64 `parquet:"imprecise,snappy"`
	Any        int64 `parquet:"any,snappy"`
	Empty      int64 `parquet:"empty,snappy"`
	Unanalyzed int64 `parquet:"unanalyzed,snappy"`

	// PreciseRatio is Precise / Lines, or 0 for an empty module
	PreciseRatio float64 `parquet:"precise_ratio,snappy"`
}

// WriteRows writes rows to w as a single Parquet file. The schema is derived from T's struct tags.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes run rows to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteSampleModulesParquet writes sample rows to a Parquet file.
func WriteSampleModulesParquet(data []SampleModule, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertRunRecords converts stored runs to Parquet rows.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		var params *string
		if record.ConfigParams != "" {
			p := record.ConfigParams
			params = &p
		}
		result[i] = Run{
			RunID:        record.RunID,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			StartDay:     record.StartDay,
			Projects:     int32(record.Projects),
			Samples:      int32(record.Samples),
			Failures:     int32(record.Failures),
			ConfigParams: params,
		}
	}
	return result
}

// newSampleModule builds the row for one module bucket.
func newSampleModule(project string, entry schema.SampleEntry, module schema.ModuleKey, r schema.Record) SampleModule {
	return SampleModule{
		Project:      project,
		CommitID:     entry.Commit,
		CommitTime:   entry.Time,
		Module:       string(module),
		Lines:        int64(r.Lines),
		Precise:      int64(r.Precise),
		Imprecise:    int64(r.Imprecise),
		Any:          int64(r.Any),
		Empty:        int64(r.Empty),
		Unanalyzed:   int64(r.Unanalyzed),
		PreciseRatio: r.PreciseRatio(),
	}
}

// ConvertSampleEntry flattens one sample: its total first, then modules in sorted order.
func ConvertSampleEntry(project string, entry schema.SampleEntry) []SampleModule {
	rows := make([]SampleModule, 0, len(entry.ByModule)+1)
	rows = append(rows, newSampleModule(project, entry, schema.TotalModuleKey, entry.Total))
	for _, module := range entry.ModuleKeys() {
		rows = append(rows, newSampleModule(project, entry, module, entry.ByModule[module]))
	}
	return rows
}

// ConvertReport flattens a report, projects in sorted order and samples in series order.
func ConvertReport(report schema.Report) []SampleModule {
	var rows []SampleModule
	for _, project := range report.Projects() {
		for _, entry := range report[project] {
			rows = append(rows, ConvertSampleEntry(project, entry)...)
		}
	}
	return rows
}

// ConvertStoredSamples flattens samples read back from the store.
func ConvertStoredSamples(samples []schema.StoredSample) []SampleModule {
	var rows []SampleModule
	for _, s := range samples {
		rows = append(rows, ConvertSampleEntry(s.Project, s.Entry)...)
	}
	return rows
}

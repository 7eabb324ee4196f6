package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clokep/arewetypedyet/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAll reads every row of type T back from a Parquet file.
func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func sampleEntry() schema.SampleEntry {
	return schema.SampleEntry{
		Commit: "4f475c7697722e946e39e42f38f3dd03a95d8765",
		Time:   time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
		Total:  schema.Record{Lines: 30, Precise: 20, Imprecise: 5, Any: 2, Empty: 3},
		ByModule: map[schema.ModuleKey]schema.Record{
			"synapse.storage":  {Lines: 10, Precise: 5, Imprecise: 5},
			"synapse.handlers": {Lines: 20, Precise: 15, Any: 2, Empty: 3},
		},
	}
}

func TestStructTags(t *testing.T) {
	runSchema := parquet.SchemaOf(new(Run))
	for _, col := range []string{"run_id", "start_time", "end_time", "start_day", "projects", "samples", "failures", "config_params"} {
		_, ok := runSchema.Lookup(col)
		assert.True(t, ok, "Column %s should exist in run schema", col)
	}

	sampleSchema := parquet.SchemaOf(new(SampleModule))
	for _, col := range []string{"project", "commit_id", "commit_time", "module", "lines", "precise", "imprecise", "any", "empty", "unanalyzed", "precise_ratio"} {
		_, ok := sampleSchema.Lookup(col)
		assert.True(t, ok, "Column %s should exist in sample schema", col)
	}
}

func TestConvertSampleEntry(t *testing.T) {
	rows := ConvertSampleEntry("synapse", sampleEntry())
	require.Len(t, rows, 3)

	assert.Equal(t, string(schema.TotalModuleKey), rows[0].Module)
	assert.Equal(t, int64(30), rows[0].Lines)
	assert.InDelta(t, 20.0/30.0, rows[0].PreciseRatio, 1e-9)

	// Modules follow in sorted order.
	assert.Equal(t, "synapse.handlers", rows[1].Module)
	assert.Equal(t, "synapse.storage", rows[2].Module)
	for _, r := range rows {
		assert.Equal(t, "synapse", r.Project)
		assert.Equal(t, "4f475c7697722e946e39e42f38f3dd03a95d8765", r.CommitID)
	}
}

func TestConvertReport(t *testing.T) {
	empty := schema.SampleEntry{Commit: "abc", Time: time.Unix(0, 0)}
	report := schema.Report{
		"sygnal":  {empty},
		"synapse": {sampleEntry(), empty},
	}
	rows := ConvertReport(report)
	require.Len(t, rows, 5)
	assert.Equal(t, "sygnal", rows[0].Project)
	assert.Equal(t, 0.0, rows[0].PreciseRatio, "empty totals have a zero ratio")
	assert.Equal(t, "synapse", rows[1].Project)
	assert.Equal(t, "abc", rows[4].CommitID)
}

func TestConvertRunRecords(t *testing.T) {
	end := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	runs := ConvertRunRecords([]schema.RunRecord{
		{RunID: "a", StartTime: end.Add(-time.Hour), EndTime: &end, Projects: 3, Samples: 40, Failures: 1, ConfigParams: `{"workers":2}`},
		{RunID: "b", StartTime: end},
	})
	require.Len(t, runs, 2)
	assert.Equal(t, int32(40), runs[0].Samples)
	require.NotNil(t, runs[0].ConfigParams)
	assert.Equal(t, `{"workers":2}`, *runs[0].ConfigParams)
	assert.Nil(t, runs[1].EndTime)
	assert.Nil(t, runs[1].ConfigParams)
}

func TestWriteSampleModulesParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "samples.parquet")
	data := ConvertSampleEntry("synapse", sampleEntry())
	require.NoError(t, WriteSampleModulesParquet(data, outputPath))

	got := readAll[SampleModule](t, outputPath)
	require.Len(t, got, len(data))
	for i := range data {
		assert.Equal(t, data[i].Module, got[i].Module)
		assert.Equal(t, data[i].Precise, got[i].Precise)
		assert.True(t, data[i].CommitTime.Equal(got[i].CommitTime))
		assert.InDelta(t, data[i].PreciseRatio, got[i].PreciseRatio, 1e-9)
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	end := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	params := `{"workers":2}`
	data := []Run{
		{RunID: "a", StartTime: end.Add(-time.Hour), EndTime: &end, Samples: 12, ConfigParams: &params},
		{RunID: "b", StartTime: end},
	}
	require.NoError(t, WriteRunsParquet(data, outputPath))

	got := readAll[Run](t, outputPath)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].RunID)
	require.NotNil(t, got[0].EndTime)
	assert.WithinDuration(t, end, *got[0].EndTime, time.Nanosecond)
	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].ConfigParams)
}

func TestWriteRows_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, []SampleModule{}))
	assert.Positive(t, buf.Len(), "an empty file still carries a footer")
}

func TestWriteRunsParquet_BadPath(t *testing.T) {
	err := WriteRunsParquet(nil, filepath.Join(t.TempDir(), "missing", "runs.parquet"))
	assert.ErrorContains(t, err, "failed to create output file")
}

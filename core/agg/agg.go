// Package agg folds mypy line-precision reports into per-module and total records.
package agg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/clokep/arewetypedyet/schema"
)

// headerLines is the number of lines at the top of a report that are never data.
const headerLines = 2

// fieldsPerLine is the module name followed by the six counters.
const fieldsPerLine = 1 + schema.RecordFields

// maxLineBytes bounds a single report line.
const maxLineBytes = 1 << 20

// Aggregate reads a line-precision report and folds every data line into the total and
// its module bucket. Malformed lines are skipped and reported in Aggregation.Warnings.
// Only read errors are returned.
func Aggregate(r io.Reader) (*schema.Aggregation, error) {
	return aggregate(r, false)
}

// AggregateStrict is like Aggregate but stops at the first malformed line.
func AggregateStrict(r io.Reader) (*schema.Aggregation, error) {
	return aggregate(r, true)
}

// AggregateLines aggregates an in-memory report.
func AggregateLines(lines []string) *schema.Aggregation {
	out := schema.NewAggregation()
	for i, line := range lines {
		if i < headerLines {
			continue
		}
		if err := foldLine(out, i+1, line); err != nil {
			out.Warnings = append(out.Warnings, err)
		}
	}
	return out
}

// AggregateFile aggregates the report at path. The file is closed before returning,
// so the caller may immediately rewrite the working tree it lives in.
func AggregateFile(path string, strict bool) (*schema.Aggregation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open line-precision report: %w", err)
	}
	defer func() { _ = f.Close() }()
	return aggregate(f, strict)
}

// aggregate drives the scanner shared by the reader entry points.
func aggregate(r io.Reader, strict bool) (*schema.Aggregation, error) {
	out := schema.NewAggregation()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo <= headerLines {
			continue
		}
		if err := foldLine(out, lineNo, sc.Text()); err != nil {
			if strict {
				return nil, err
			}
			out.Warnings = append(out.Warnings, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("error reading line-precision report: %w", err)
	}
	return out, nil
}

// foldLine parses one data line and accumulates it. Blank lines are ignored.
func foldLine(out *schema.Aggregation, lineNo int, line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	module, rec, err := ParseLine(line)
	if err != nil {
		return &schema.ParseError{Line: lineNo, Text: line, Err: err}
	}
	out.Accumulate(module, rec)
	return nil
}

// ParseLine splits "<module> <lines> <precise> <imprecise> <any> <empty> <unanalyzed>".
func ParseLine(line string) (string, schema.Record, error) {
	parts := strings.Fields(line)
	if len(parts) != fieldsPerLine {
		return "", schema.Record{}, fmt.Errorf("expected %d fields, got %d", fieldsPerLine, len(parts))
	}

	var t [schema.RecordFields]int
	for i, s := range parts[1:] {
		v, err := parseCounter(s)
		if err != nil {
			return "", schema.Record{}, fmt.Errorf("field %s: %w", schema.RecordFieldNames[i], err)
		}
		t[i] = v
	}
	return parts[0], schema.RecordFromTuple(t), nil
}

// parseCounter accepts non-negative base-10 integers only.
func parseCounter(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative count %d", v)
	}
	return v, nil
}

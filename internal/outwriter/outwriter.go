// Package outwriter writes the sampled time series and renders it for people.
package outwriter

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/clokep/arewetypedyet/schema"
	"github.com/xeipuuv/gojsonschema"
)

// reportIndent matches the four-space layout of the historical results.json files.
const reportIndent = "    "

//go:embed report.schema.json
var reportSchemaJSON string

var reportSchema = gojsonschema.NewStringLoader(reportSchemaJSON)

// ErrInvalidReport is returned by ReadReport for documents that do not have the report shape.
var ErrInvalidReport = errors.New("invalid report")

// WriteReport writes the report as indented JSON:
// {"project": [[commit, timestamp, [six counters], {module: [six counters]}], ...]}.
// A project without samples is written as an empty array.
func WriteReport(w io.Writer, report schema.Report) error {
	report = report.Clone()
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", reportIndent)
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ReadReport validates a JSON document against the report schema and decodes it.
func ReadReport(r io.Reader) (schema.Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	result, err := gojsonschema.Validate(reportSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidReport, strings.Join(msgs, "; "))
	}

	var report schema.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}
	return report, nil
}

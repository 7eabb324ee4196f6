package agg

import (
	"fmt"
	"strings"

	"github.com/clokep/arewetypedyet/schema"
)

// reportRow represents a single module line in a line-precision report fixture.
type reportRow struct {
	module string
	rec    schema.Record
}

// reportHeader mirrors the two header lines mypy writes before the data.
var reportHeader = []string{
	"Name                               Lines  Precise  Imprecise  Any  Empty  Unanalyzed",
	"-------------------------------------------------------------------------------------",
}

// generateReport creates a line-precision report with mypy's column layout.
func generateReport(rows []reportRow) string {
	lines := append([]string{}, reportHeader...)
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-34s %6d %8d %10d %4d %6d %11d",
			r.module, r.rec.Lines, r.rec.Precise, r.rec.Imprecise, r.rec.Any, r.rec.Empty, r.rec.Unanalyzed))
	}
	return strings.Join(lines, "\n") + "\n"
}

// synapseRows is a small but realistic set of modules across several buckets.
var synapseRows = []reportRow{
	{"synapse", schema.Record{Lines: 40, Precise: 10, Imprecise: 2, Any: 1, Empty: 12, Unanalyzed: 15}},
	{"synapse.api.auth", schema.Record{Lines: 300, Precise: 180, Imprecise: 30, Any: 12, Empty: 50, Unanalyzed: 28}},
	{"synapse.api.errors", schema.Record{Lines: 120, Precise: 90, Imprecise: 5, Any: 0, Empty: 20, Unanalyzed: 5}},
	{"synapse.handlers.room", schema.Record{Lines: 900, Precise: 400, Imprecise: 120, Any: 80, Empty: 150, Unanalyzed: 150}},
	{"synapse.handlers.room_member.worker", schema.Record{Lines: 60, Precise: 30, Imprecise: 10, Any: 5, Empty: 10, Unanalyzed: 5}},
	{"tests.test_utils", schema.Record{Lines: 200, Precise: 20, Imprecise: 10, Any: 100, Empty: 30, Unanalyzed: 40}},
}

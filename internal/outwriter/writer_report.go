package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/clokep/arewetypedyet/internal/parquet"
	"github.com/clokep/arewetypedyet/schema"
)

// reportCSVHeader names the columns of the flattened report.
var reportCSVHeader = []string{
	"project",
	"commit",
	"timestamp",
	"module",
	"lines",
	"precise",
	"imprecise",
	"any",
	"empty",
	"unanalyzed",
}

// WriteReportCSV writes one row per sample and module, with the sample total under "__total__".
func WriteReportCSV(w io.Writer, report schema.Report) error {
	return writeCSVWithHeader(w, reportCSVHeader, func(cw *csv.Writer) error {
		for _, r := range parquet.ConvertReport(report) {
			row := []string{
				r.Project,
				r.CommitID,
				r.CommitTime.Local().Format(schema.SampleTimeFormat),
				r.Module,
				strconv.FormatInt(r.Lines, 10),
				strconv.FormatInt(r.Precise, 10),
				strconv.FormatInt(r.Imprecise, 10),
				strconv.FormatInt(r.Any, 10),
				strconv.FormatInt(r.Empty, 10),
				strconv.FormatInt(r.Unanalyzed, 10),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// joinOrDash joins a list for a table cell.
func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

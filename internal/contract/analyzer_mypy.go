package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// LinePrecisionReportFile is the file mypy writes inside the report directory.
const LinePrecisionReportFile = "lineprecision.txt"

// DefaultAnalyzerBin is the analyzer executable looked up on PATH.
const DefaultAnalyzerBin = "mypy"

// waitDelay bounds how long a killed analyzer's children may hold its stderr open.
const waitDelay = 5 * time.Second

// stderrTail bounds how much analyzer stderr is quoted in errors.
const stderrTail = 2048

// MypyAnalyzer implements the Analyzer interface by running mypy's line-precision report.
type MypyAnalyzer struct {
	bin string
}

var _ Analyzer = &MypyAnalyzer{} // Compile-time check

// NewMypyAnalyzer creates an analyzer that runs bin, or mypy when bin is empty.
func NewMypyAnalyzer(bin string) *MypyAnalyzer {
	if bin == "" {
		bin = DefaultAnalyzerBin
	}
	return &MypyAnalyzer{bin: bin}
}

// Args returns the command line for a request, without the executable.
func (a *MypyAnalyzer) Args(req AnalyzerRequest) []string {
	args := []string{"--lineprecision-report", req.ReportDir}
	for _, ex := range req.Excludes {
		args = append(args, "--exclude", ex)
	}
	return append(args, req.Paths...)
}

// Analyze implements the Analyzer interface.
// mypy exits non-zero whenever it reports type errors, so the exit status is not
// treated as failure. The run fails when mypy cannot be started, when ctx expires,
// or when no report was written.
func (a *MypyAnalyzer) Analyze(ctx context.Context, req AnalyzerRequest) (string, error) {
	reportDir, err := filepath.Abs(req.ReportDir)
	if err != nil {
		return "", fmt.Errorf("invalid report directory %q: %w", req.ReportDir, err)
	}
	req.ReportDir = reportDir
	reportPath := filepath.Join(reportDir, LinePrecisionReportFile)

	// A report left over from the previous snapshot must not be read as this one.
	if err := os.Remove(reportPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to remove stale report %q: %w", reportPath, err)
	}
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory %q: %w", reportDir, err)
	}

	cmd := exec.CommandContext(ctx, a.bin, a.Args(req)...)
	cmd.Dir = req.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	runErr := cmd.Run()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("%s did not finish: %w", a.bin, ctxErr)
	}
	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return "", fmt.Errorf("failed to run %s: %w. Ensure it is installed and available on your PATH", a.bin, runErr)
	}
	if _, err := os.Stat(reportPath); err != nil {
		msg := tail(strings.TrimSpace(stderr.String()), stderrTail)
		if runErr != nil {
			return "", fmt.Errorf("%s wrote no report (%v): %s", a.bin, runErr, msg)
		}
		return "", fmt.Errorf("%s wrote no report: %w", a.bin, err)
	}
	return reportPath, nil
}

// tail returns at most the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

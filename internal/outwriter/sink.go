package outwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/clokep/arewetypedyet/schema"
)

// Sink is a ReportSink that must be closed once the run is over.
type Sink interface {
	contract.ReportSink
	io.Closer
}

// NewSink returns a FileSink for path, or a StreamSink on stdout for "" and "-".
func NewSink(path string) Sink {
	if path == "" || path == "-" {
		return NewStreamSink(os.Stdout)
	}
	return NewFileSink(path)
}

// FileSink rewrites a report file after every update.
type FileSink struct {
	path string
}

var _ contract.ReportSink = &FileSink{} // Compile-time check

// NewFileSink creates a sink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path returns the file the sink writes.
func (s *FileSink) Path() string {
	return s.path
}

// Write replaces the file with the report. The new content is written to a temporary
// file in the same directory and renamed over the target, so readers never see a partial file.
func (s *FileSink) Write(report schema.Report) error {
	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary report file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := WriteReport(tmp, report); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// Close implements io.Closer. The file is already complete after each Write.
func (s *FileSink) Close() error {
	return nil
}

// StreamSink keeps the latest report and writes it once on Close.
// A stream cannot be rewritten, so intermediate updates are not emitted.
type StreamSink struct {
	mu     sync.Mutex
	w      io.Writer
	latest schema.Report
}

var _ contract.ReportSink = &StreamSink{} // Compile-time check

// NewStreamSink creates a sink that writes to w on Close.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

// Write records the report.
func (s *StreamSink) Write(report schema.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = report.Clone()
	return nil
}

// Close writes the latest report, or an empty one when nothing was recorded.
func (s *StreamSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteReport(s.w, s.latest)
}

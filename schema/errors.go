package schema

import (
	"errors"
	"fmt"
)

// Error kinds raised while building a report.
var (
	ErrParse    = errors.New("malformed line-precision record")
	ErrSync     = errors.New("remote history sync failed")
	ErrCheckout = errors.New("working tree checkout failed")
	ErrAnalyzer = errors.New("analyzer invocation failed")
)

// ParseError describes one analyzer report line that could not be folded in.
type ParseError struct {
	Line int    // 1-based line number in the report, header included
	Text string // The raw line
	Err  error  // Underlying cause, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, ErrParse)
}

// Unwrap exposes both ErrParse and the cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// Stage names the pipeline step that failed.
type Stage string

// Pipeline stages that talk to external collaborators.
const (
	SyncStage      Stage = "sync"
	CheckoutStage  Stage = "checkout"
	AnalyzeStage   Stage = "analyze"
	AggregateStage Stage = "aggregate"
)

// stageKinds maps a stage to the sentinel it is reported as.
var stageKinds = map[Stage]error{
	SyncStage:      ErrSync,
	CheckoutStage:  ErrCheckout,
	AnalyzeStage:   ErrAnalyzer,
	AggregateStage: ErrParse,
}

// StageError records which project and commit a collaborator failed on.
type StageError struct {
	Project string
	Commit  string // Empty for project-level failures
	Stage   Stage
	Err     error
}

func (e *StageError) Error() string {
	if e.Commit == "" {
		return fmt.Sprintf("%s: %s: %v", e.Project, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s@%s: %s: %v", e.Project, ShortID(e.Commit), e.Stage, e.Err)
}

// Unwrap exposes the stage sentinel and the cause.
func (e *StageError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if kind, ok := stageKinds[e.Stage]; ok {
		errs = append(errs, kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ShortID abbreviates a commit id for messages.
func ShortID(id string) string {
	if len(id) > 10 {
		return id[:10]
	}
	return id
}

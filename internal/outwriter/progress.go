package outwriter

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/clokep/arewetypedyet/schema"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Console prints run progress: the project name, one line per sample with its
// total counters, and a blank line when the project is done.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	prefix   bool // Prefix sample lines with the project, for interleaved workers
	showBars bool
	bars     map[string]*progressbar.ProgressBar
}

var _ contract.ProgressReporter = &Console{} // Compile-time check

// NewConsole creates a console writing sample lines to out. Spinners are drawn on
// stderr only when it is a terminal and a single worker is running.
func NewConsole(out io.Writer, workers int) *Console {
	return &Console{
		out:      out,
		prefix:   workers > 1,
		showBars: workers == 1 && term.IsTerminal(int(os.Stderr.Fd())),
		bars:     make(map[string]*progressbar.ProgressBar),
	}
}

// StartProject implements the ProgressReporter interface.
func (c *Console) StartProject(project string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, project)
	if c.showBars {
		c.bars[project] = progressbar.Default(-1, project)
	}
}

// Sample implements the ProgressReporter interface.
func (c *Console) Sample(project string, entry schema.SampleEntry, cached bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bar := c.bars[project]
	if bar != nil {
		_ = bar.Clear()
	}
	_, _ = fmt.Fprintln(c.out, FormatSampleLine(project, entry, cached, c.prefix))
	if bar != nil {
		_ = bar.Add(1)
	}
}

// EndProject implements the ProgressReporter interface.
func (c *Console) EndProject(project string, samples int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bar := c.bars[project]; bar != nil {
		_ = bar.Finish()
		_ = bar.Clear()
		delete(c.bars, project)
	}
	if err != nil {
		contract.LogWarn(fmt.Sprintf("project %s stopped after %d samples", project, samples), err)
	}
	_, _ = fmt.Fprintln(c.out)
}

// FormatSampleLine renders "<commit> (lines, precise, imprecise, any, empty, unanalyzed)".
func FormatSampleLine(project string, entry schema.SampleEntry, cached, prefix bool) string {
	t := entry.Total.Tuple()
	line := fmt.Sprintf("%s (%d, %d, %d, %d, %d, %d)", entry.Commit, t[0], t[1], t[2], t[3], t[4], t[5])
	if prefix {
		line = project + ": " + line
	}
	if cached {
		line += " [stored]"
	}
	return line
}

package outwriter

import (
	"os"

	"github.com/clokep/arewetypedyet/internal/contract"
	"golang.org/x/term"
)

// Bounds for the module column of the text table.
const (
	minModuleWidth = 15
	maxModuleWidth = 60
)

// GetMaxTableModuleWidth calculates the maximum width for module names in table output
// based on terminal width.
func GetMaxTableModuleWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Six counters, percent and label columns with borders and padding
	baseWidth := 75

	available := termWidth - baseWidth
	if available < minModuleWidth {
		return minModuleWidth
	}
	if available > maxModuleWidth {
		return maxModuleWidth
	}
	return available
}

// truncateModule shortens a module name to width, keeping its tail.
func truncateModule(name string, width int) string {
	runes := []rune(name)
	if len(runes) <= width || width < 4 {
		return name
	}
	return "..." + string(runes[len(runes)-(width-3):])
}

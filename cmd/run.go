package cmd

import (
	"github.com/clokep/arewetypedyet/core"
	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/spf13/cobra"
)

// runCmd samples every configured project and writes the JSON report.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sample each project once per week and write the JSON report.",
	Long: `Fetch every configured project, walk its branch from the newest commit backwards and
pick one commit per week, starting at the latest Monday. Each picked commit is checked out
and analyzed with mypy's line-precision report; the counters are summed per module and in
total, and the series of every project is written to the report file.

Each project needs a clone in <workspace>/<name> (or the directory configured for it).
The working copy is reset to every sampled commit, so do not keep local changes there.

Samples already present in the sample store are reused without checking out the commit.
The report is rewritten after every finished project.

Examples:
  # Sample the default projects in the current directory
  arewetypedyet run

  # Only synapse, from a fixed start day, two projects at a time
  arewetypedyet run --project synapse --start-day 2024-03-04 --workers 2

  # Stop at the first failure instead of skipping the sample
  arewetypedyet run --fail-fast`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRun(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Run did not complete cleanly", err)
		}
	},
}

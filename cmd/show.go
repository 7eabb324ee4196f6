package cmd

import (
	"github.com/clokep/arewetypedyet/core"
	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showCmd renders a report.
var showCmd = &cobra.Command{
	Use:   "show [report.json]",
	Short: "Render a report as a table, CSV, JSON or Parquet.",
	Long: `Render a report written by run, validating it first. Without an argument the file
named by --output-file is read; with --from-store the stored samples are used instead.

The text output shows, per project, the totals of every sample followed by the module
breakdown of the newest one.

Examples:
  # Table of the default report
  arewetypedyet show

  # CSV of one project, one row per sample and module
  arewetypedyet show results.json --project sydent --output csv --to sydent.csv

  # Everything stored, as Parquet
  arewetypedyet show --from-store --output parquet --to samples.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		reportPath := cfg.OutputFile
		if len(args) == 1 {
			reportPath = args[0]
		}
		if viper.GetBool("from-store") {
			reportPath = ""
		}

		showCfg := cfg.Clone()
		showCfg.OutputFile = viper.GetString("to")
		if err := core.ExecuteShow(rootCtx, showCfg, storeManager, reportPath); err != nil {
			contract.LogFatal("Cannot show report", err)
		}
	},
}

// Package cmd defines the command-line interface for arewetypedyet.
package cmd

import (
	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/clokep/arewetypedyet/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeRunsCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("workspace", ".", "Directory holding one working copy per project")
	rootCmd.PersistentFlags().String("project", "", "Comma-separated list of project names to process (default: all)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format for show: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", contract.DefaultOutputFile, "Path of the JSON report written by run (- for stdout)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Sample store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for the sample store (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of runCmd to Viper
	runCmd.Flags().String("remote", contract.DefaultRemote, "Remote to fetch and whose branches are sampled")
	runCmd.Flags().Int("workers", contract.DefaultWorkers, "Number of projects processed concurrently")
	runCmd.Flags().Bool("fail-fast", false, "Abort the run at the first failed fetch, checkout or analysis")
	runCmd.Flags().Bool("strict-parse", false, "Treat malformed report lines as a failed sample")
	runCmd.Flags().String("analyzer-bin", contract.DefaultAnalyzerBin, "mypy executable to run")
	runCmd.Flags().String("analyzer-timeout", contract.DefaultAnalyzerTimeout.String(), "Time limit for one analyzer run")
	runCmd.Flags().String("fetch-timeout", contract.DefaultFetchTimeout.String(), "Time limit for fetching one project")
	runCmd.Flags().String("report-dir", "", "Directory for line-precision reports (default: <workspace>/"+contract.DefaultReportDirName+")")
	runCmd.Flags().String("exclude", schema.DefaultExclude, "Comma-separated list of paths excluded from analysis")
	runCmd.Flags().String("start-day", "", "Day the weekly sampling starts from, YYYY-MM-DD (default: latest Monday)")
	if err := viper.BindPFlags(runCmd.Flags()); err != nil {
		contract.LogFatal("Error binding run flags", err)
	}

	// Bind all flags of showCmd to Viper
	showCmd.Flags().Bool("from-store", false, "Render the stored samples instead of a report file")
	showCmd.Flags().String("to", "", "Write the rendered output to this file instead of stdout")
	if err := viper.BindPFlags(showCmd.Flags()); err != nil {
		contract.LogFatal("Error binding show flags", err)
	}

	// Bind all flags of storeExportCmd to Viper
	storeExportCmd.Flags().String("export-prefix", "", "Path prefix of the exported Parquet files")
	if err := viper.BindPFlags(storeExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store export flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}

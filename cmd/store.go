package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/clokep/arewetypedyet/internal/iocache"
	"github.com/clokep/arewetypedyet/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeBackend reads and validates the store settings without the full shared setup.
func storeBackend() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("%w '%s'. must be sqlite, mysql, postgresql, none", contract.ErrInvalidBackend, backend)
	}
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// storeSetup loads minimal configuration needed for store operations and opens the store.
func storeSetup() error {
	backend, connStr, err := storeBackend()
	if err != nil {
		return err
	}
	if err := iocache.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize sample store: %w", err)
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetupWrapper validates the store settings without opening the store,
// so that migrations can run on a fresh or older database.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeBackend()
	if err != nil {
		return err
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// openedStore returns the store opened by storeSetup.
func openedStore() contract.SampleStore {
	store := storeManager.GetSampleStore()
	if store == nil {
		contract.LogFatal("Sample store unavailable", errors.New("store was not initialized"))
	}
	return store
}

// storeCmd focused on sample store management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by run and show. This avoids project table validation
// for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the sample store (reuses analyzed commits across runs)",
	Long: `Manage the store of analyzed samples and recorded runs.

Every analyzed commit is stored under its project, commit and analysis settings, so a
later run only analyzes commits it has not seen. Every run is recorded with its settings
and counts.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics and connection info
  runs    - List recorded runs
  export  - Export runs and samples to Parquet
  clear   - Remove all stored data
  migrate - Run database schema migrations

Examples:
  # Check store status
  arewetypedyet store status

  # Export for analysis in pandas/DuckDB
  arewetypedyet store export --export-prefix awty`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show the backend, schema version, run and sample counts, the range of sampled commit
times and the number of samples per project.

Examples:
  # Check the default SQLite store
  arewetypedyet store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := openedStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)
	},
}

// storeRunsCmd lists recorded runs.
var storeRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs, oldest first",
	Long: `List every recorded run with its start time, duration and project, sample and
failure counts. Runs that never finished are marked as unfinished.`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runs, err := openedStore().GetRuns()
		if err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
		iocache.PrintRuns(os.Stdout, runs)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored samples and runs",
	Long: `Delete all stored samples and recorded runs. The next run analyzes every sampled
commit again.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the store tables

Examples:
  # Export before clearing
  arewetypedyet store export --export-prefix backup
  arewetypedyet store clear`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStore(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear sample store", err)
		}
		fmt.Println("Sample store cleared successfully.")
	},
}

// storeExportCmd exports store data to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export runs and samples to Parquet for analytics",
	Long: `Export all stored data to Parquet format for use with analytics tools.

Exports two datasets:
- <prefix>.runs.parquet - one row per recorded run
- <prefix>.samples.parquet - one row per sample and module, plus a __total__ row per sample

Requires: --export-prefix parameter

Examples:
  # Export all data
  arewetypedyet store export --export-prefix awty

  # Use with DuckDB for analysis
  duckdb -c "SELECT commit_time, precise_ratio FROM read_parquet('awty.samples.parquet') WHERE module = '__total__'"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportStore(os.Stdout, openedStore(), viper.GetString("export-prefix")); err != nil {
			contract.LogFatal("Failed to export sample store", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the sample store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the sample store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  arewetypedyet store migrate

  # Rollback to initial state
  arewetypedyet store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// Package iocache persists analyzed samples so that reruns skip snapshots seen before.
package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/clokep/arewetypedyet/schema"
)

// SampleStoreManager holds the process-wide SampleStore.
type SampleStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	samples      contract.SampleStore
}

var _ contract.StoreManager = &SampleStoreManager{} // Compile-time check

// GetSampleStore returns the sample store, or nil before InitStore.
func (mgr *SampleStoreManager) GetSampleStore() contract.SampleStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.samples
}

// Global Manager instance for main logic.
var (
	Manager   = &SampleStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStore initializes the global manager. Only the first call has any effect.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error
	initOnce.Do(func() {
		store, err := NewSampleStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize sample store: %w", err)
			return
		}
		Manager.Lock()
		defer Manager.Unlock()
		Manager.samples = store
	})
	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.samples != nil {
			_ = Manager.samples.Close()
		}
	})
}

// ClearStore removes every stored sample and run for the backend.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the store tables, including the migration history.
// For the none backend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := resolveConn(backend, connStr)
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbPath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		name, _ := driverName(backend)
		return dropTables(name, backend, connStr, sampleModulesTable, samplesTable, runsTable, migrationsTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// dropTables connects to the SQL database and drops the tables if they exist.
func dropTables(driver string, backend schema.DatabaseBackend, connStr string, tables ...string) error {
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}
	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}

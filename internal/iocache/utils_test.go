package iocache

import (
	"testing"

	"github.com/clokep/arewetypedyet/schema"
	"github.com/stretchr/testify/assert"
)

func TestValidateTableName(t *testing.T) {
	for _, name := range []string{runsTable, samplesTable, sampleModulesTable, migrationsTable, "_t1"} {
		assert.NoError(t, validateTableName(name), name)
	}
	for _, name := range []string{"", "1table", "runs; DROP TABLE x", "a-b", `a"b`} {
		assert.Error(t, validateTableName(name), name)
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`awty_runs`", quoteTableName(runsTable, schema.MySQLBackend))
	assert.Equal(t, `"awty_runs"`, quoteTableName(runsTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"awty_runs"`, quoteTableName(runsTable, schema.SQLiteBackend))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 1, 3))
	assert.Equal(t, "?, ?", placeholders(schema.MySQLBackend, 4, 2))
	assert.Equal(t, "$4, $5, $6", placeholders(schema.PostgreSQLBackend, 4, 3))
	assert.Equal(t, "", placeholders(schema.PostgreSQLBackend, 1, 0))
}

func TestDriverName(t *testing.T) {
	tests := map[schema.DatabaseBackend]string{
		schema.SQLiteBackend:     "sqlite",
		schema.MySQLBackend:      "mysql",
		schema.PostgreSQLBackend: "pgx",
	}
	for backend, want := range tests {
		got, err := driverName(backend)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := driverName(schema.NoneBackend)
	assert.Error(t, err)
}

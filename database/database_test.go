package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/logging"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Path:              filepath.Join(t.TempDir(), "sentinel_test.db"),
		MaxOpenConns:      4,
		MaxIdleConns:      2,
		BusyTimeoutMs:     1000,
		EnableForeignKeys: true,
		EnableWAL:         true,
	}
}

func TestNew_AppliesMigrations(t *testing.T) {
	// Arrange & Act
	db, err := New(testConfig(t), logging.Default())
	require.NoError(t, err)
	defer db.Close()

	// Assert
	var count int
	err = db.ReadDB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = db.WriteDB().Exec(`INSERT INTO analysis_runs (id, status, started_at) VALUES ('r1', 'running', CURRENT_TIMESTAMP)`)
	assert.NoError(t, err)
}

func TestNew_ReopenIsIdempotent(t *testing.T) {
	config := testConfig(t)

	first, err := New(config, logging.Default())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(config, logging.Default())
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.ReadDB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestDatabase_WithTx_RollsBackOnError(t *testing.T) {
	// Arrange
	db, err := New(testConfig(t), logging.Default())
	require.NoError(t, err)
	defer db.Close()
	boom := errors.New("boom")

	// Act
	err = db.WithTx(context.Background(), func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO analysis_runs (id, status, started_at) VALUES ('r1', 'running', CURRENT_TIMESTAMP)`); err != nil {
			return err
		}
		return boom
	})

	// Assert
	assert.ErrorIs(t, err, boom)
	var count int
	require.NoError(t, db.ReadDB().QueryRow("SELECT COUNT(*) FROM analysis_runs").Scan(&count))
	assert.Zero(t, count)
}

func TestDatabase_Health_ReportsBothPools(t *testing.T) {
	db, err := New(testConfig(t), logging.Default())
	require.NoError(t, err)
	defer db.Close()

	health, err := db.Health()

	require.NoError(t, err)
	assert.Contains(t, health, "read_pool")
	assert.Contains(t, health, "write_pool")
	assert.Equal(t, 1, health["write_pool"].(map[string]interface{})["max_open_conns"])
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(Config{Path: "x.db", BusyTimeoutMs: 250, EnableWAL: true, EnableForeignKeys: false})

	assert.Contains(t, dsn, "file:x.db?_pragma=busy_timeout(250)")
	assert.Contains(t, dsn, "_pragma=journal_mode(WAL)")
	assert.NotContains(t, dsn, "foreign_keys")
}

func TestParseMigrationName(t *testing.T) {
	tests := []struct {
		file    string
		version int64
		name    string
		wantErr bool
	}{
		{"1_init.sql", 1, "1_init", false},
		{"12_add_index.sql", 12, "12_add_index", false},
		{"init.sql", 0, "", true},
		{"x_init.sql", 0, "", true},
		{"1_init.txt", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			version, name, err := parseMigrationName(tt.file)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.version, version)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestHasDuplicateVersions(t *testing.T) {
	dup, version, a, b := hasDuplicateVersions([]Migration{{Version: 1, Name: "1_a"}, {Version: 1, Name: "1_b"}})

	assert.True(t, dup)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, "1_a", a)
	assert.Equal(t, "1_b", b)
}

func TestPendingMigrations_SkipsAppliedKeepsOrder(t *testing.T) {
	all := []Migration{{Version: 1, Name: "1_init"}, {Version: 2, Name: "2_index"}, {Version: 3, Name: "3_view"}}

	pending := pendingMigrations(all, map[int64]struct{}{2: {}})

	require.Len(t, pending, 2)
	assert.Equal(t, "1_init", pending[0].Name)
	assert.Equal(t, "3_view", pending[1].Name)
	assert.Empty(t, pendingMigrations(all, map[int64]struct{}{1: {}, 2: {}, 3: {}}))
}

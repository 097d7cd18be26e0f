package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"sentinel/logging"

	_ "modernc.org/sqlite"
)

// Config holds database configuration
type Config struct {
	Path              string        `env:"DB_PATH" default:"./sentinel.db"`
	MaxOpenConns      int           `env:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns      int           `env:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime   time.Duration `env:"DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime   time.Duration `env:"DB_CONN_MAX_IDLE_TIME" default:"15m"`
	BusyTimeoutMs     int           `env:"DB_BUSY_TIMEOUT_MS" default:"5000"`
	EnableForeignKeys bool          `env:"DB_ENABLE_FOREIGN_KEYS" default:"true"`
	EnableWAL         bool          `env:"DB_ENABLE_WAL" default:"true"`
}

// Database holds a pooled read handle and a single-connection write handle
// over the same SQLite file. Every write goes through writeDB so SQLite
// never sees two concurrent writers from this process.
type Database struct {
	readDB  *sql.DB
	writeDB *sql.DB
	config  Config
	logger  *logging.Logger
}

// New opens both handles, verifies the pragmas took effect and applies any
// pending migrations.
func New(config Config, logger *logging.Logger) (*Database, error) {
	dsn := buildDSN(config)
	existed := checkDatabaseExists(config.Path)

	logger.Database("Opening analysis store",
		"path", config.Path,
		"exists", existed,
		"read_max_open_conns", config.MaxOpenConns)

	readDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open read database: %w", err)
	}
	readDB.SetMaxOpenConns(config.MaxOpenConns)
	readDB.SetMaxIdleConns(config.MaxIdleConns)
	readDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	readDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	writeDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		readDB.Close()
		return nil, fmt.Errorf("failed to open write database: %w", err)
	}
	writeDB.SetMaxOpenConns(1)
	writeDB.SetMaxIdleConns(1)
	writeDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	writeDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	d := &Database{readDB: readDB, writeDB: writeDB, config: config, logger: logger}

	if err := d.verify(); err != nil {
		d.closeHandles()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := d.runMigrations(); err != nil {
		d.closeHandles()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	logger.Database("Analysis store ready",
		"path", config.Path,
		"existed", existed,
		"wal_mode", config.EnableWAL)

	return d, nil
}

// buildDSN constructs the SQLite DSN. modernc.org/sqlite runs each _pragma
// on every new connection, so pooled connections all share the settings.
func buildDSN(config Config) string {
	pragmas := []string{
		fmt.Sprintf("busy_timeout(%d)", config.BusyTimeoutMs),
		"synchronous(normal)",
		"temp_store(memory)",
		"cache_size(-64000)",
	}
	if config.EnableWAL {
		pragmas = append(pragmas, "journal_mode(WAL)")
	}
	if config.EnableForeignKeys {
		pragmas = append(pragmas, "foreign_keys(1)")
	}

	return "file:" + config.Path + "?_pragma=" + strings.Join(pragmas, "&_pragma=")
}

// verify pings both handles and checks the journal mode actually switched.
func (d *Database) verify() error {
	handles := map[string]*sql.DB{"read": d.readDB, "write": d.writeDB}

	for name, handle := range handles {
		if err := handle.Ping(); err != nil {
			return fmt.Errorf("failed to ping %s database: %w", name, err)
		}

		if !d.config.EnableWAL {
			continue
		}
		var mode string
		if err := handle.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
			return fmt.Errorf("failed to read journal mode on %s connection: %w", name, err)
		}
		if !strings.EqualFold(mode, "wal") {
			d.logger.Warn("WAL mode not enabled", "connection", name, "journal_mode", mode)
		}
	}

	d.logPoolStats()
	return nil
}

// ReadDB returns the pooled read handle.
func (d *Database) ReadDB() *sql.DB {
	return d.readDB
}

// WriteDB returns the serialized write handle.
func (d *Database) WriteDB() *sql.DB {
	return d.writeDB
}

// Close checkpoints the WAL and closes both handles.
func (d *Database) Close() error {
	d.logger.Database("Closing analysis store")

	if d.config.EnableWAL {
		if _, err := d.writeDB.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			d.logger.Warn("failed to checkpoint WAL", "error", err)
		}
	}

	return d.closeHandles()
}

func (d *Database) closeHandles() error {
	var errs []error
	if err := d.readDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("read connection: %w", err))
	}
	if err := d.writeDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("write connection: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close connections: %v", errs)
	}
	return nil
}

// Health pings both handles and reports their pool statistics.
func (d *Database) Health() (map[string]interface{}, error) {
	if err := d.readDB.Ping(); err != nil {
		return nil, fmt.Errorf("read database ping failed: %w", err)
	}
	if err := d.writeDB.Ping(); err != nil {
		return nil, fmt.Errorf("write database ping failed: %w", err)
	}

	return map[string]interface{}{
		"read_pool":  poolSummary(d.readDB.Stats(), d.config.MaxOpenConns),
		"write_pool": poolSummary(d.writeDB.Stats(), 1),
	}, nil
}

func poolSummary(stats sql.DBStats, maxOpen int) map[string]interface{} {
	return map[string]interface{}{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
		"wait_duration":    stats.WaitDuration.String(),
		"max_open_conns":   maxOpen,
	}
}

func (d *Database) logPoolStats() {
	for name, handle := range map[string]*sql.DB{"read": d.readDB, "write": d.writeDB} {
		stats := handle.Stats()
		d.logger.Database("Connection pool stats",
			"connection", name,
			"open_connections", stats.OpenConnections,
			"in_use", stats.InUse,
			"idle", stats.Idle)
	}
}

// WithTx runs fn inside a transaction on the write handle. The transaction
// is rolled back when fn returns an error.
func (d *Database) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := d.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			d.logger.Error("Failed to rollback transaction", "error", rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

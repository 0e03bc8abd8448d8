package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB is the daysince key-value database
type DB struct {
	*sql.DB
}

// FileName is the database file name inside the data directory
const FileName = "daysince.db"

// PathIn returns the database path inside dataDir
func PathIn(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Open opens the counter database at dbPath, creating it and its directory
// when missing, and brings the kv schema up to date.
//
// Only one daysince process runs at a time (see app.acquireLock). The busy
// timeout covers a command started while the previous one is still closing
// the file, and WAL recovers the last committed Set after a crash.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set moves the old value to kv_history and writes the new one in one
	// transaction; a single connection keeps those serialized.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

// migrate applies the embedded kv migrations. The provider keeps goose off
// its package-level logger, which would otherwise write over the TUI.
func migrate(sqlDB *sql.DB) error {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, sqlDB, sub)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	_, err = provider.Up(context.Background())
	return err
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// inTx runs fn in a transaction, rolling back when it fails
func (db *DB) inTx(fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

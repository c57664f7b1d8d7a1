package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// conn is the open audit database, nil when auditing is off. mu guards it:
// writers hold the read lock for the whole statement so Close waits for them.
var (
	mu   sync.RWMutex
	conn *sql.DB
)

// Enabled reports whether an audit database is open.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return conn != nil
}

// DefaultPath is the audit database location when none is configured.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "aitr", "audit.db")
}

func Init(dbPath string) error {
	if dbPath == "" {
		dbPath = DefaultPath()
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return err
	}

	mu.Lock()
	old := conn
	conn = db
	mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	// m is not closed: closing it would close db as well.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if conn == nil {
		return nil
	}
	err := conn.Close()
	conn = nil
	return err
}

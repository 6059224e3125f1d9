package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/learnpath/backend/internal/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connect opens the relational store selected by cfg.DBDriver and checks
// it is reachable.
func Connect(cfg config.Config) (*sql.DB, error) {
	var dsn string
	switch cfg.DBDriver {
	case DriverPostgres:
		dsn = cfg.PostgresDSN()
	case DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite dir: %w", err)
			}
		}
		dsn = "file:" + cfg.SQLitePath + "?_pragma=busy_timeout(5000)"
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := sql.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.DBDriver == DriverSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	return db, nil
}

// Migrate creates the tables the service needs. Every statement is
// idempotent and valid for both postgres and sqlite.
func Migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS user_subject_skills (
			user_id     VARCHAR(255) NOT NULL,
			subject     VARCHAR(100) NOT NULL,
			skill_level VARCHAR(20) NOT NULL,
			updated_at  TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, subject)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_skills_subject ON user_subject_skills(subject, skill_level)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// File path: internal/store/store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

var errNilStore = errors.New("store not initialised")

// Store wraps a pooled sqlx.DB connection to the SQLite catalog.
type Store struct {
	db *sqlx.DB
}

// Open constructs a Store backed by the SQLite database at the provided path.
// The schema is migrated and reference data seeded on first use.
func Open(path string) (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		cfg.Path = trimmed
	}
	return OpenWithConfig(cfg)
}

// OpenWithConfig constructs a Store using the provided configuration.
func OpenWithConfig(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path required")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve sqlite path: %w", err)
	}
	busy := int(cfg.BusyTimeout / time.Millisecond)
	if busy <= 0 {
		busy = 5000
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", abs, busy)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingTimeout := cfg.BusyTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	if err := store.seedCatalog(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying sqlx.DB for advanced callers.
func (s *Store) DB() *sqlx.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *Store) ensureReady() error {
	if s == nil || s.db == nil {
		return errNilStore
	}
	return nil
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// DemoUserID is the fallback identity used when no authenticated user is
// supplied. Authentication itself is delegated to an external provider.
const DemoUserID = "00000000-0000-0000-0000-000000000001"

const demoOrganizationID = "00000000-0000-0000-0000-000000000010"

var schemaStatements = []string{
	`PRAGMA journal_mode = WAL;`,
	`PRAGMA foreign_keys = ON;`,
	`CREATE TABLE IF NOT EXISTS organizations (
                id TEXT PRIMARY KEY,
                name TEXT NOT NULL UNIQUE,
                region TEXT NOT NULL DEFAULT '',
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE TABLE IF NOT EXISTS users (
                id TEXT PRIMARY KEY,
                email TEXT NOT NULL UNIQUE,
                full_name TEXT NOT NULL DEFAULT '',
                role TEXT NOT NULL DEFAULT 'program_manager'
                        CHECK (role IN ('admin', 'program_manager', 'viewer')),
                organization_id TEXT,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                FOREIGN KEY(organization_id) REFERENCES organizations(id) ON DELETE SET NULL
        );`,
	`CREATE TABLE IF NOT EXISTS programs (
                id TEXT PRIMARY KEY,
                user_id TEXT NOT NULL,
                title TEXT NOT NULL,
                description TEXT NOT NULL DEFAULT '',
                status TEXT NOT NULL DEFAULT 'draft'
                        CHECK (status IN ('draft', 'in_progress', 'completed')),
                current_step INTEGER NOT NULL DEFAULT 1
                        CHECK (current_step BETWEEN 1 AND 5),
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS problem_statements (
                id TEXT PRIMARY KEY,
                program_id TEXT NOT NULL UNIQUE,
                challenge_text TEXT NOT NULL,
                refined_text TEXT NOT NULL DEFAULT '',
                root_causes TEXT NOT NULL DEFAULT '[]',
                theme TEXT NOT NULL DEFAULT ''
                        CHECK (theme IN ('', 'FLN', 'Career Readiness', 'STEM', 'Life Skills', 'Other')),
                is_completed INTEGER NOT NULL DEFAULT 0,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                FOREIGN KEY(program_id) REFERENCES programs(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS stakeholders (
                id TEXT PRIMARY KEY,
                program_id TEXT NOT NULL,
                name TEXT NOT NULL,
                role TEXT NOT NULL,
                engagement_strategy TEXT NOT NULL DEFAULT '',
                priority TEXT NOT NULL DEFAULT 'medium'
                        CHECK (priority IN ('high', 'medium', 'low')),
                is_ai_suggested INTEGER NOT NULL DEFAULT 0,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                FOREIGN KEY(program_id) REFERENCES programs(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS proven_models (
                id TEXT PRIMARY KEY,
                name TEXT NOT NULL,
                description TEXT NOT NULL,
                implementation_guide TEXT NOT NULL DEFAULT '',
                evidence_base TEXT NOT NULL DEFAULT '',
                themes TEXT NOT NULL DEFAULT '[]',
                target_outcomes TEXT NOT NULL DEFAULT '[]',
                source_url TEXT NOT NULL DEFAULT '',
                embedding TEXT,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE TABLE IF NOT EXISTS program_proven_models (
                id TEXT PRIMARY KEY,
                program_id TEXT NOT NULL,
                proven_model_id TEXT NOT NULL,
                notes TEXT NOT NULL DEFAULT '',
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                UNIQUE(program_id, proven_model_id),
                FOREIGN KEY(program_id) REFERENCES programs(id) ON DELETE CASCADE,
                FOREIGN KEY(proven_model_id) REFERENCES proven_models(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS outcomes (
                id TEXT PRIMARY KEY,
                program_id TEXT NOT NULL,
                description TEXT NOT NULL,
                theme TEXT NOT NULL DEFAULT '',
                timeframe TEXT NOT NULL DEFAULT '',
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                FOREIGN KEY(program_id) REFERENCES programs(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS indicators (
                id TEXT PRIMARY KEY,
                outcome_id TEXT NOT NULL,
                type TEXT NOT NULL CHECK (type IN ('outcome', 'output')),
                description TEXT NOT NULL,
                measurement_method TEXT NOT NULL DEFAULT '',
                target_value TEXT NOT NULL DEFAULT '',
                baseline_value TEXT NOT NULL DEFAULT '',
                frequency TEXT NOT NULL DEFAULT '',
                data_source TEXT NOT NULL DEFAULT '',
                is_ai_generated INTEGER NOT NULL DEFAULT 0,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                FOREIGN KEY(outcome_id) REFERENCES outcomes(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS generated_documents (
                id TEXT PRIMARY KEY,
                program_id TEXT NOT NULL,
                document_type TEXT NOT NULL DEFAULT 'pdf',
                file_name TEXT NOT NULL DEFAULT '',
                generated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                FOREIGN KEY(program_id) REFERENCES programs(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS badges (
                id TEXT PRIMARY KEY,
                name TEXT NOT NULL,
                description TEXT NOT NULL DEFAULT '',
                icon TEXT NOT NULL DEFAULT '',
                step_number INTEGER NOT NULL CHECK (step_number BETWEEN 1 AND 5),
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE TABLE IF NOT EXISTS user_badges (
                id TEXT PRIMARY KEY,
                user_id TEXT NOT NULL,
                badge_id TEXT NOT NULL,
                program_id TEXT NOT NULL,
                earned_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                UNIQUE(user_id, badge_id, program_id),
                FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
                FOREIGN KEY(badge_id) REFERENCES badges(id) ON DELETE CASCADE,
                FOREIGN KEY(program_id) REFERENCES programs(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS xp_ledger (
                id TEXT PRIMARY KEY,
                user_id TEXT NOT NULL,
                program_id TEXT,
                action TEXT NOT NULL,
                points INTEGER NOT NULL,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
                FOREIGN KEY(program_id) REFERENCES programs(id) ON DELETE SET NULL
        );`,
	`CREATE TABLE IF NOT EXISTS streaks (
                user_id TEXT PRIMARY KEY,
                current_streak INTEGER NOT NULL DEFAULT 0,
                longest_streak INTEGER NOT NULL DEFAULT 0,
                last_activity TEXT NOT NULL DEFAULT '',
                updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS comments (
                id TEXT PRIMARY KEY,
                program_id TEXT NOT NULL,
                user_id TEXT NOT NULL DEFAULT '',
                user_name TEXT NOT NULL DEFAULT '',
                content TEXT NOT NULL,
                section TEXT NOT NULL DEFAULT '',
                is_resolved INTEGER NOT NULL DEFAULT 0,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                FOREIGN KEY(program_id) REFERENCES programs(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS program_versions (
                id TEXT PRIMARY KEY,
                program_id TEXT NOT NULL,
                user_id TEXT NOT NULL DEFAULT '',
                user_name TEXT NOT NULL DEFAULT '',
                description TEXT NOT NULL DEFAULT '',
                changes TEXT NOT NULL DEFAULT '{}',
                version_number INTEGER NOT NULL,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                UNIQUE(program_id, version_number),
                FOREIGN KEY(program_id) REFERENCES programs(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS activities (
                id TEXT PRIMARY KEY,
                program_id TEXT NOT NULL,
                outcome_id TEXT,
                title TEXT NOT NULL,
                description TEXT NOT NULL DEFAULT '',
                start_date TEXT NOT NULL,
                end_date TEXT NOT NULL,
                status TEXT NOT NULL DEFAULT 'planned'
                        CHECK (status IN ('planned', 'in_progress', 'completed', 'delayed')),
                responsible_person TEXT NOT NULL DEFAULT '',
                resources_needed TEXT NOT NULL DEFAULT '',
                progress_percentage INTEGER NOT NULL DEFAULT 0,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                FOREIGN KEY(program_id) REFERENCES programs(id) ON DELETE CASCADE,
                FOREIGN KEY(outcome_id) REFERENCES outcomes(id) ON DELETE SET NULL
        );`,
	`CREATE INDEX IF NOT EXISTS idx_programs_user_updated ON programs(user_id, updated_at);`,
	`CREATE INDEX IF NOT EXISTS idx_stakeholders_program ON stakeholders(program_id);`,
	`CREATE INDEX IF NOT EXISTS idx_outcomes_program ON outcomes(program_id);`,
	`CREATE INDEX IF NOT EXISTS idx_indicators_outcome ON indicators(outcome_id);`,
	`CREATE INDEX IF NOT EXISTS idx_documents_program ON generated_documents(program_id);`,
	`CREATE INDEX IF NOT EXISTS idx_xp_ledger_user ON xp_ledger(user_id, created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_comments_program ON comments(program_id, created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_versions_program ON program_versions(program_id, version_number);`,
	`CREATE INDEX IF NOT EXISTS idx_activities_program ON activities(program_id, start_date);`,
	`INSERT INTO organizations(id, name, region)
        SELECT '` + demoOrganizationID + `', 'Demo Organization', ''
        WHERE NOT EXISTS (SELECT 1 FROM organizations WHERE id = '` + demoOrganizationID + `');`,
	`INSERT INTO users(id, email, full_name, role, organization_id)
        SELECT '` + DemoUserID + `', 'demo@logicforge.local', 'Demo User', 'program_manager', '` + demoOrganizationID + `'
        WHERE NOT EXISTS (SELECT 1 FROM users WHERE id = '` + DemoUserID + `');`,
}

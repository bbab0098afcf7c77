// Package sqlite provides a SQLite-backed saga session store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/frostworks/drogvyn/internal/platform/storage/sqlitemigrate"
	"github.com/frostworks/drogvyn/internal/saga/domain"
	"github.com/frostworks/drogvyn/internal/storage"
	"github.com/frostworks/drogvyn/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

// sessionID keys the single saga record. One record per deployment.
const sessionID = "covenant"

// Store persists the saga session in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path and applies embedded
// migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load fetches the saga session record.
func (s *Store) Load(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Session{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT soulbound, paused, rebind_count, last_rebind_at, journal, scars
		 FROM sessions WHERE id = ?`,
		sessionID,
	)

	var (
		soulbound    string
		paused       int
		rebindCount  int
		lastRebindAt sql.NullString
		journalJSON  string
		scarsJSON    string
	)
	if err := row.Scan(&soulbound, &paused, &rebindCount, &lastRebindAt, &journalJSON, &scarsJSON); err != nil {
		if err == sql.ErrNoRows {
			return domain.Session{}, storage.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	session := domain.Session{
		Soulbound:   soulbound,
		Paused:      paused != 0,
		RebindCount: rebindCount,
	}
	if err := json.Unmarshal([]byte(journalJSON), &session.Journal); err != nil {
		return domain.Session{}, fmt.Errorf("decode journal: %w", err)
	}
	if err := json.Unmarshal([]byte(scarsJSON), &session.Scars); err != nil {
		return domain.Session{}, fmt.Errorf("decode scars: %w", err)
	}
	if lastRebindAt.Valid && lastRebindAt.String != "" {
		at, err := time.Parse(timeFormat, lastRebindAt.String)
		if err != nil {
			return domain.Session{}, fmt.Errorf("parse rebind timestamp: %w", err)
		}
		session.LastRebindAt = &at
	}

	return session, nil
}

// Save replaces the saga session record in a single upsert so a failed
// turn never leaves a partial write behind.
func (s *Store) Save(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	journalJSON, err := json.Marshal(session.Journal)
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	scarsJSON, err := json.Marshal(session.Scars)
	if err != nil {
		return fmt.Errorf("encode scars: %w", err)
	}

	var lastRebindAt any
	if session.LastRebindAt != nil {
		lastRebindAt = session.LastRebindAt.UTC().Format(timeFormat)
	}

	paused := 0
	if session.Paused {
		paused = 1
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO sessions (id, soulbound, paused, rebind_count, last_rebind_at, journal, scars, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   soulbound = excluded.soulbound,
		   paused = excluded.paused,
		   rebind_count = excluded.rebind_count,
		   last_rebind_at = excluded.last_rebind_at,
		   journal = excluded.journal,
		   scars = excluded.scars,
		   updated_at = excluded.updated_at`,
		sessionID,
		session.Soulbound,
		paused,
		session.RebindCount,
		lastRebindAt,
		string(journalJSON),
		string(scarsJSON),
		time.Now().UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

var _ storage.SessionStore = (*Store)(nil)

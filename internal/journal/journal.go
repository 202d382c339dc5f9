// Package journal records confirmed node selections in a local SQLite
// database so `nodepick history` can list them later.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one recorded selection.
type Entry struct {
	ID         string
	NodeKey    string
	Source     string
	SelectedAt time.Time
}

// Store is a SQLite-backed selection journal.
type Store struct {
	db        *sql.DB
	now       func() time.Time
	closeOnce sync.Once
	closeErr  error
}

// Open opens (creating if needed) the journal at path and brings its
// schema up to date.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	// modernc.org/sqlite uses _pragma=name(value) syntax
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database. It is safe to call Close multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// Record appends a selection of key and returns the stored entry.
func (s *Store) Record(ctx context.Context, key, source string) (Entry, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Entry{}, errors.New("node key is empty")
	}

	e := Entry{
		ID:         uuid.NewString(),
		NodeKey:    key,
		Source:     source,
		SelectedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO selections (id, node_key, source, selected_at_unix_ms)
		VALUES (?, ?, ?, ?)
	`, e.ID, e.NodeKey, e.Source, e.SelectedAt.UnixMilli())
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record selection: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, node_key, source, selected_at_unix_ms
		FROM selections
		ORDER BY selected_at_unix_ms DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ms int64
		)
		if err := rows.Scan(&e.ID, &e.NodeKey, &e.Source, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		e.SelectedAt = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Last returns the most recent selection, or false if the journal is empty.
func (s *Store) Last(ctx context.Context) (Entry, bool, error) {
	entries, err := s.Recent(ctx, 1)
	if err != nil || len(entries) == 0 {
		return Entry{}, false, err
	}
	return entries[0], true, nil
}

// Count returns the number of recorded selections.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM selections`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count selections: %w", err)
	}
	return n, nil
}

// Clear deletes every recorded selection and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM selections`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear selections: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) migrate(ctx context.Context) error {
	currentVersion := 0
	row := s.db.QueryRowContext(ctx, `SELECT version FROM schema_meta ORDER BY version DESC LIMIT 1`)
	if err := row.Scan(&currentVersion); err != nil {
		if !errors.Is(err, sql.ErrNoRows) && !strings.Contains(err.Error(), "no such table") {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		currentVersion = 0
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{version: 1, sql: migrationV1},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("migration v%d failed: %w", m.version, err)
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO schema_meta (version, applied_at_unix_ms)
			VALUES (?, ?)
		`, m.version, time.Now().UnixMilli())
		if err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.version, err)
		}
	}
	return nil
}

const migrationV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
  version INTEGER PRIMARY KEY,
  applied_at_unix_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS selections (
  id TEXT PRIMARY KEY,
  node_key TEXT NOT NULL,
  source TEXT NOT NULL DEFAULT '',
  selected_at_unix_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_selections_time ON selections(selected_at_unix_ms DESC);
`

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tagnav/internal/tags"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS tags (
			seq INTEGER PRIMARY KEY,
			name TEXT,
			filepath TEXT,
			ex_command TEXT,
			kind TEXT,
			line INTEGER,
			typeref TEXT,
			scope TEXT,
			access TEXT,
			signature TEXT,
			source_line INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS snapshot (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			source TEXT,
			created_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS renames (
			id TEXT PRIMARY KEY,
			old_symbol TEXT,
			new_symbol TEXT,
			files JSON,
			changes INTEGER,
			failures INTEGER,
			created_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tags_file ON tags(filepath);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// --- TagStore Implementation ---

// SaveTags replaces the whole snapshot in one transaction, so records absent
// from the new table do not survive.
func (s *SQLiteStore) SaveTags(ctx context.Context, source string, records []tags.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tags"); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tags (seq, name, filepath, ex_command, kind, line, typeref, scope, access, signature, source_line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.Name, r.File, r.ExCommand, r.Kind, r.Line, r.TypeRef, r.Scope, r.Access, r.Signature, r.SourceLine); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot (id, source, created_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET source=excluded.source, created_at=excluded.created_at
	`, source, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadTags(ctx context.Context) ([]tags.Record, error) {
	if _, err := s.SnapshotInfo(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT name, filepath, ex_command, kind, line, typeref, scope, access, signature, source_line FROM tags ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *SQLiteStore) FindTagsByFile(ctx context.Context, file string) ([]tags.Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, filepath, ex_command, kind, line, typeref, scope, access, signature, source_line FROM tags WHERE filepath = ? ORDER BY seq", file)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *SQLiteStore) SnapshotInfo(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	var created string
	err := s.db.QueryRowContext(ctx, "SELECT source, created_at FROM snapshot WHERE id = 1").Scan(&snap.Source, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	if snap.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot time: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags").Scan(&snap.Count); err != nil {
		return nil, err
	}
	return &snap, nil
}

func scanRecords(rows *sql.Rows) ([]tags.Record, error) {
	var records []tags.Record
	for rows.Next() {
		var r tags.Record
		if err := rows.Scan(&r.Name, &r.File, &r.ExCommand, &r.Kind, &r.Line, &r.TypeRef, &r.Scope, &r.Access, &r.Signature, &r.SourceLine); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// --- Journal Implementation ---

// RecordRename stores entry, assigning an ID and timestamp when missing.
func (s *SQLiteStore) RecordRename(ctx context.Context, entry RenameEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	files, err := json.Marshal(entry.FilesChanged)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO renames (id, old_symbol, new_symbol, files, changes, failures, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.OldSymbol, entry.NewSymbol, files, entry.ChangesMade, entry.Failures, entry.CreatedAt.UTC().Format(timeLayout))
	return err
}

// ListRenames returns up to limit entries, newest first. A limit of zero or
// less returns every entry.
func (s *SQLiteStore) ListRenames(ctx context.Context, limit int) ([]RenameEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, "SELECT id, old_symbol, new_symbol, files, changes, failures, created_at FROM renames ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query renames: %w", err)
	}
	defer rows.Close()

	var entries []RenameEntry
	for rows.Next() {
		var e RenameEntry
		var files []byte
		var created string
		if err := rows.Scan(&e.ID, &e.OldSymbol, &e.NewSymbol, &files, &e.ChangesMade, &e.Failures, &created); err != nil {
			return nil, fmt.Errorf("failed to scan rename: %w", err)
		}
		if len(files) > 0 {
			if err := json.Unmarshal(files, &e.FilesChanged); err != nil {
				return nil, fmt.Errorf("failed to decode files of rename %s: %w", e.ID, err)
			}
		}
		t, err := time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("failed to parse time of rename %s: %w", e.ID, err)
		}
		e.CreatedAt = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

package storage

import (
	"context"
	"errors"
	"time"

	"tagnav/internal/tags"
)

// ErrNoSnapshot is returned when no tag snapshot has been saved yet.
var ErrNoSnapshot = errors.New("no tag snapshot")

// Store combines tag snapshot and rename journal storage.
type Store interface {
	TagStore
	Journal
	Close() error
}

// TagStore persists a parsed tag table.
type TagStore interface {
	// SaveTags replaces the stored snapshot with records.
	SaveTags(ctx context.Context, source string, records []tags.Record) error

	// LoadTags returns the snapshot in tag table order.
	LoadTags(ctx context.Context) ([]tags.Record, error)

	// FindTagsByFile returns the snapshot records recorded for file.
	FindTagsByFile(ctx context.Context, file string) ([]tags.Record, error)

	// SnapshotInfo describes the stored snapshot.
	SnapshotInfo(ctx context.Context) (*Snapshot, error)
}

// Journal records executed renames.
type Journal interface {
	RecordRename(ctx context.Context, entry RenameEntry) error
	ListRenames(ctx context.Context, limit int) ([]RenameEntry, error)
}

// Snapshot describes where a stored tag snapshot came from.
type Snapshot struct {
	Source    string    `json:"source" yaml:"source"`
	Count     int       `json:"count" yaml:"count"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// RenameEntry is one executed rename.
type RenameEntry struct {
	ID           string    `json:"id" yaml:"id"`
	OldSymbol    string    `json:"old_symbol" yaml:"old_symbol"`
	NewSymbol    string    `json:"new_symbol" yaml:"new_symbol"`
	FilesChanged []string  `json:"files_changed" yaml:"files_changed"`
	ChangesMade  int       `json:"changes_made" yaml:"changes_made"`
	Failures     int       `json:"failures" yaml:"failures"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

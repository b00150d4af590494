// Package workspace loads the tag table for a workspace and turns it into a
// queryable index.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"tagnav/internal/config"
	"tagnav/internal/index"
	"tagnav/internal/storage"
	"tagnav/internal/tags"

	ignore "github.com/sabhiram/go-gitignore"
)

// Workspace ties a configuration to an optional tag snapshot store.
type Workspace struct {
	cfg     *config.Config
	store   storage.TagStore
	exclude *ignore.GitIgnore
}

// New creates a workspace. store may be nil, in which case records always come
// from the tag file.
func New(cfg *config.Config, store storage.TagStore) *Workspace {
	w := &Workspace{cfg: cfg, store: store}
	if len(cfg.Exclude) > 0 {
		w.exclude = ignore.CompileIgnoreLines(cfg.Exclude...)
	}
	return w
}

func (w *Workspace) Root() string {
	return w.cfg.WorkspaceRoot
}

func (w *Workspace) TagsPath() string {
	return w.cfg.TagsPath()
}

// TagsFileExists reports whether the tag table is present as a regular file.
func (w *Workspace) TagsFileExists() bool {
	info, err := os.Stat(w.cfg.TagsPath())
	return err == nil && info.Mode().IsRegular()
}

// Excluded reports whether file matches one of the configured exclude patterns.
func (w *Workspace) Excluded(file string) bool {
	return w.exclude != nil && w.exclude.MatchesPath(file)
}

// Records returns the workspace's tag records with excluded files removed.
// When a store is configured its snapshot is preferred; without a snapshot the
// tag file is read instead.
func (w *Workspace) Records(ctx context.Context) ([]tags.Record, error) {
	records, err := w.load(ctx)
	if err != nil {
		return nil, err
	}
	return w.filter(records), nil
}

// Index builds a query index over Records using the configured limits.
func (w *Workspace) Index(ctx context.Context) (*index.Index, error) {
	records, err := w.Records(ctx)
	if err != nil {
		return nil, err
	}
	return index.New(records, index.Limits{
		Search:     w.cfg.Limits.Search,
		Definition: w.cfg.Limits.Definition,
		References: w.cfg.Limits.References,
	}), nil
}

// Snapshot parses the tag file and replaces the stored snapshot with it.
func (w *Workspace) Snapshot(ctx context.Context) (int, error) {
	if w.store == nil {
		return 0, errors.New("no database configured")
	}
	if !w.TagsFileExists() {
		return 0, fmt.Errorf("tags file not found: %s", w.cfg.TagsPath())
	}

	records := tags.LoadFile(w.cfg.TagsPath())
	if err := w.store.SaveTags(ctx, w.cfg.TagsPath(), records); err != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", err)
	}
	slog.Info("workspace.snapshot", "source", w.cfg.TagsPath(), "records", len(records))
	return len(records), nil
}

func (w *Workspace) load(ctx context.Context) ([]tags.Record, error) {
	if w.store != nil {
		records, err := w.store.LoadTags(ctx)
		switch {
		case err == nil:
			slog.Debug("workspace.load", "source", "snapshot", "records", len(records))
			return records, nil
		case errors.Is(err, storage.ErrNoSnapshot):
			slog.Debug("workspace.load", "source", "tags file", "reason", "no snapshot")
		default:
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
	}
	return tags.LoadFile(w.cfg.TagsPath()), nil
}

func (w *Workspace) filter(records []tags.Record) []tags.Record {
	if w.exclude == nil {
		return records
	}
	kept := records[:0:0]
	for _, r := range records {
		if w.Excluded(r.File) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

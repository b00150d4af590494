package main

import (
	"context"
	"errors"
	"log/slog"

	"tagnav/internal/git"
	"tagnav/internal/rename"
	"tagnav/internal/report"
	"tagnav/internal/storage"

	"github.com/spf13/cobra"
)

func (a *app) previewCmd() *cobra.Command {
	var withDiff bool
	cmd := &cobra.Command{
		Use:   "preview <old> <new>",
		Short: "Show what renaming a symbol would change",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.renameEngine(cmd.Context())
			if err != nil {
				return a.fail(cmd, err)
			}
			p, err := engine.Preview(args[0], args[1])
			if err != nil {
				return a.fail(cmd, err)
			}

			var diffs []rename.FileDiff
			if withDiff {
				if diffs, err = engine.Diff(p); err != nil {
					return a.fail(cmd, err)
				}
			}
			return a.emit(report.NewPreview(p, diffs))
		},
	}
	cmd.Flags().BoolVar(&withDiff, "diff", false, "Include a unified diff per affected file")
	return cmd
}

func (a *app) renameCmd() *cobra.Command {
	var execute bool
	cmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a symbol outside comments (dry run unless --execute)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.renameEngine(cmd.Context())
			if err != nil {
				return a.fail(cmd, err)
			}

			p, err := engine.Preview(args[0], args[1])
			if err != nil {
				return a.fail(cmd, err)
			}
			if !execute {
				return a.emit(report.NewRenamePreview(p, nil))
			}

			uncommitted := a.uncommitted(p.FilesAffected)
			res, err := engine.Apply(args[0], args[1])
			if err != nil {
				return a.fail(cmd, err)
			}
			a.journal(cmd.Context(), res)
			return a.emit(report.NewRenameCompleted(res, uncommitted))
		},
	}
	cmd.Flags().BoolVarP(&execute, "execute", "x", false, "Write the changes to disk")
	return cmd
}

func (a *app) renameEngine(ctx context.Context) (*rename.Engine, error) {
	idx, err := a.index(ctx)
	if err != nil {
		return nil, err
	}
	return a.engine(idx)
}

// uncommitted lists the files about to be rewritten that already carry
// uncommitted git changes. Outside a repository it returns nil.
func (a *app) uncommitted(files []string) []string {
	if len(files) == 0 {
		return nil
	}
	repo, err := git.Open(a.cfg.WorkspaceRoot)
	if errors.Is(err, git.ErrNotRepository) {
		slog.Debug("git.skip", "root", a.cfg.WorkspaceRoot, "reason", err)
		return nil
	}
	if err != nil {
		slog.Warn("git.status_failed", "err", err)
		return nil
	}

	dirty, err := repo.Uncommitted(files)
	if err != nil {
		slog.Warn("git.status_failed", "err", err)
		return nil
	}
	for _, f := range dirty {
		slog.Warn("rename.uncommitted_changes", "file", f)
	}
	return dirty
}

// journal records an executed rename when a database is configured. A
// journal failure does not fail the rename.
func (a *app) journal(ctx context.Context, res *rename.ApplyResult) {
	store, err := a.openStore()
	if err != nil || store == nil {
		return
	}
	entry := storage.RenameEntry{
		OldSymbol:    res.Preview.OldSymbol,
		NewSymbol:    res.Preview.NewSymbol,
		FilesChanged: res.FilesChanged,
		ChangesMade:  res.ChangesMade,
		Failures:     len(res.Failures),
	}
	if err := store.RecordRename(ctx, entry); err != nil {
		slog.Warn("journal.record_failed", "err", err)
	}
}

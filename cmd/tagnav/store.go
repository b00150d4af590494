package main

import (
	"errors"

	"tagnav/internal/report"

	"github.com/spf13/cobra"
)

var errNoDatabase = errors.New("no database configured: pass --db or set db_path")

func (a *app) indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Replace the database snapshot with the current tag table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DBPath == "" {
				return a.fail(cmd, errNoDatabase)
			}
			ws, err := a.workspace()
			if err != nil {
				return a.fail(cmd, err)
			}
			n, err := ws.Snapshot(cmd.Context())
			if err != nil {
				return a.fail(cmd, err)
			}
			return a.emit(report.Indexed{Source: ws.TagsPath(), DB: a.cfg.DBPath, Records: n})
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List executed renames, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DBPath == "" {
				return a.fail(cmd, errNoDatabase)
			}
			store, err := a.openStore()
			if err != nil {
				return a.fail(cmd, err)
			}
			entries, err := store.ListRenames(cmd.Context(), limit)
			if err != nil {
				return a.fail(cmd, err)
			}
			return a.emit(report.NewHistory(entries))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries (0 for all)")
	return cmd
}

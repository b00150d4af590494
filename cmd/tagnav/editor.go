package main

import (
	"fmt"
	"strconv"

	"tagnav/internal/report"

	"github.com/spf13/cobra"
)

func (a *app) editorCmd() *cobra.Command {
	editorCmd := &cobra.Command{
		Use:   "editor",
		Short: "Editor integration commands",
		Args:  cobra.NoArgs,
		RunE:  requireSubcommand,
	}
	editorCmd.AddCommand(
		&cobra.Command{
			Use:   "goto_definition <symbol> [currentFile]",
			Short: "Resolve the first definition of a symbol",
			Args:  cobra.RangeArgs(1, 2),
			RunE:  a.runGotoDefinition,
		},
		&cobra.Command{
			Use:   "find_references <symbol>",
			Short: "List reference locations for a symbol",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runFindReferences,
		},
		&cobra.Command{
			Use:   "file_symbols <filename>",
			Short: "List the symbols of matching files ordered by line",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runEditorFileSymbols,
		},
		&cobra.Command{
			Use:   "search <query> [limit]",
			Short: "Search symbol names, keeping at most limit results",
			Args:  cobra.RangeArgs(1, 2),
			RunE:  a.runEditorSearch,
		},
		&cobra.Command{
			Use:   "workspace_info",
			Short: "Describe the workspace and its tag table",
			Args:  cobra.NoArgs,
			RunE:  a.runWorkspaceInfo,
		},
	)
	return editorCmd
}

func (a *app) runGotoDefinition(cmd *cobra.Command, args []string) error {
	idx, err := a.index(cmd.Context())
	if err != nil {
		return a.fail(cmd, err)
	}
	return a.emit(report.NewGoto(args[0], idx.FindDefinition(args[0])))
}

func (a *app) runFindReferences(cmd *cobra.Command, args []string) error {
	idx, err := a.index(cmd.Context())
	if err != nil {
		return a.fail(cmd, err)
	}
	return a.emit(report.NewEditorReferences(args[0], idx.FindReferences(args[0])))
}

func (a *app) runEditorFileSymbols(cmd *cobra.Command, args []string) error {
	idx, err := a.index(cmd.Context())
	if err != nil {
		return a.fail(cmd, err)
	}
	return a.emit(report.NewEditorFileSymbols(args[0], idx.SymbolsInFile(args[0])))
}

func (a *app) runEditorSearch(cmd *cobra.Command, args []string) error {
	limit := a.cfg.Limits.EditorSearch
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return a.fail(cmd, fmt.Errorf("invalid limit %q", args[1]))
		}
		limit = n
	}

	idx, err := a.index(cmd.Context())
	if err != nil {
		return a.fail(cmd, err)
	}
	return a.emit(report.NewEditorSearch(args[0], idx.FindByName(args[0], "", ""), limit))
}

func (a *app) runWorkspaceInfo(cmd *cobra.Command, args []string) error {
	ws, err := a.workspace()
	if err != nil {
		return a.fail(cmd, err)
	}
	idx, err := ws.Index(cmd.Context())
	if err != nil {
		return a.fail(cmd, err)
	}
	return a.emit(report.NewWorkspaceInfo(ws.Root(), ws.TagsFileExists(), idx.AvailableKinds()))
}

package main

import (
	"tagnav/internal/report"

	"github.com/spf13/cobra"
)

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query] [kind] [filename]",
		Short: "Case-insensitive substring search over symbol names",
		Args:  cobra.MaximumNArgs(3),
		RunE:  a.runSearch,
	}
}

func (a *app) runSearch(cmd *cobra.Command, args []string) error {
	query, kind, filename := argAt(args, 0), argAt(args, 1), argAt(args, 2)

	idx, err := a.index(cmd.Context())
	if err != nil {
		return a.fail(cmd, err)
	}
	return a.emit(report.NewSearch(query, kind, filename, idx.FindByName(query, kind, filename)))
}

func (a *app) definitionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "definition <symbol> [currentFile]",
		Short: "Find where a symbol is defined",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  a.runDefinition,
	}
}

func (a *app) runDefinition(cmd *cobra.Command, args []string) error {
	idx, err := a.index(cmd.Context())
	if err != nil {
		return a.fail(cmd, err)
	}
	return a.emit(report.NewDefinition(args[0], argAt(args, 1), idx.FindDefinition(args[0])))
}

func (a *app) referencesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "references <symbol>",
		Short: "List tags whose name or type reference contains a symbol",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runReferences,
	}
}

func (a *app) runReferences(cmd *cobra.Command, args []string) error {
	idx, err := a.index(cmd.Context())
	if err != nil {
		return a.fail(cmd, err)
	}
	return a.emit(report.NewReferences(args[0], idx.FindReferences(args[0])))
}

func (a *app) fileSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file_symbols <filename>",
		Short: "Group the symbols of matching files by kind",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runFileSymbols,
	}
}

func (a *app) runFileSymbols(cmd *cobra.Command, args []string) error {
	idx, err := a.index(cmd.Context())
	if err != nil {
		return a.fail(cmd, err)
	}
	return a.emit(report.NewFileSymbols(args[0], idx.SymbolsInFile(args[0])))
}

func (a *app) kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List symbol kinds and their counts",
		Args:  cobra.NoArgs,
		RunE:  a.runKinds,
	}
}

func (a *app) runKinds(cmd *cobra.Command, args []string) error {
	idx, err := a.index(cmd.Context())
	if err != nil {
		return a.fail(cmd, err)
	}
	return a.emit(report.NewKinds(idx.AvailableKinds()))
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <symbol>",
		Short: "Show a symbol's definition together with its references",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runInfo,
	}
}

func (a *app) runInfo(cmd *cobra.Command, args []string) error {
	idx, err := a.index(cmd.Context())
	if err != nil {
		return a.fail(cmd, err)
	}
	return a.emit(report.NewInfo(args[0], idx.FindDefinition(args[0]), idx.FindReferences(args[0])))
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

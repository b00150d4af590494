package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"tagnav/internal/config"
	"tagnav/internal/index"
	"tagnav/internal/rename"
	"tagnav/internal/report"
	"tagnav/internal/source"
	"tagnav/internal/storage"
	"tagnav/internal/workspace"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// commandError marks a failure raised while running a command, as opposed to a
// usage error reported by cobra.
type commandError struct {
	err    error
	editor bool
}

func (e *commandError) Error() string { return e.err.Error() }
func (e *commandError) Unwrap() error { return e.err }

// app holds the state shared by one invocation's commands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	root       string
	tagsFile   string
	dbPath     string
	output     string
	verbose    bool
	wholeWord  bool

	cfg   *config.Config
	store *storage.SQLiteStore
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stderr)
	rootCmd.SetErr(stderr)

	cmd, err := a.execute(rootCmd)
	defer a.close()
	if err == nil {
		return 0
	}

	var cmdErr *commandError
	if errors.As(err, &cmdErr) {
		slog.Error("command failed", "command", cmd.CommandPath(), "err", cmdErr.err)
		if werr := report.Write(stdout, a.format(), report.NewError(cmdErr.err, cmdErr.editor)); werr != nil {
			fmt.Fprintln(stderr, werr)
		}
		return 1
	}

	fmt.Fprintf(stderr, "Error: %v\n%s", err, cmd.UsageString())
	return 1
}

// execute runs rootCmd, turning a panic in a command into a commandError.
func (a *app) execute(rootCmd *cobra.Command) (cmd *cobra.Command, err error) {
	defer func() {
		if r := recover(); r != nil {
			if cmd == nil {
				cmd = rootCmd
			}
			err = &commandError{err: fmt.Errorf("internal error: %v", r)}
		}
	}()
	return rootCmd.ExecuteC()
}

// errNoCommand is returned by group commands run without a subcommand.
var errNoCommand = errors.New("a subcommand is required")

func requireSubcommand(cmd *cobra.Command, args []string) error {
	return errNoCommand
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "tagnav",
		Short:             "Symbol navigation and comment-aware renames over a ctags table",
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              requireSubcommand,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to the config file (default <root>/"+config.DefaultFile+")")
	flags.StringVarP(&a.root, "root", "r", "", "Workspace root (default current directory)")
	flags.StringVarP(&a.tagsFile, "tags", "t", "", "Tag table path, relative to the workspace root")
	flags.StringVarP(&a.dbPath, "db", "d", "", "Path to the SQLite tag snapshot and rename journal")
	flags.StringVarP(&a.output, "output", "o", "", "Output format: json or yaml")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&a.wholeWord, "whole-word", false, "Match symbols on identifier boundaries only")

	rootCmd.AddCommand(
		a.searchCmd(),
		a.definitionCmd(),
		a.referencesCmd(),
		a.fileSymbolsCmd(),
		a.kindsCmd(),
		a.infoCmd(),
		a.previewCmd(),
		a.renameCmd(),
		a.indexCmd(),
		a.historyCmd(),
		a.editorCmd(),
	)
	return rootCmd
}

// setup loads configuration, applies flag overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	path := a.configPath
	if path == "" {
		base := a.root
		if base == "" {
			base = os.Getenv("TAGNAV_ROOT")
		}
		path = filepath.Join(base, config.DefaultFile)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return a.fail(cmd, fmt.Errorf("failed to load config: %w", err))
	}

	if a.root != "" {
		cfg.WorkspaceRoot = a.root
	}
	if a.tagsFile != "" {
		cfg.TagsFile = a.tagsFile
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.output != "" {
		cfg.Output = a.output
	}
	if a.wholeWord {
		cfg.WholeWord = true
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if cfg.WorkspaceRoot, err = filepath.Abs(cfg.WorkspaceRoot); err != nil {
		return a.fail(cmd, err)
	}
	a.cfg = cfg

	if cfg.Output != report.FormatJSON && cfg.Output != report.FormatYAML {
		return a.fail(cmd, fmt.Errorf("unknown output format %q", cfg.Output))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return a.fail(cmd, fmt.Errorf("invalid log level: %w", err))
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level})))
	slog.Debug("config.loaded", "root", cfg.WorkspaceRoot, "tags", cfg.TagsPath(), "db", cfg.DBPath)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

func (a *app) format() string {
	if a.cfg != nil {
		return a.cfg.Output
	}
	if a.output == report.FormatYAML {
		return report.FormatYAML
	}
	return report.FormatJSON
}

// fail wraps err so run reports it as a result envelope shaped for cmd.
func (a *app) fail(cmd *cobra.Command, err error) error {
	return &commandError{err: err, editor: isEditor(cmd)}
}

func isEditor(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "editor" {
			return true
		}
	}
	return false
}

func (a *app) emit(v any) error {
	return report.Write(a.stdout, a.format(), v)
}

// openStore opens the configured database, or returns nil when none is set.
func (a *app) openStore() (*storage.SQLiteStore, error) {
	if a.store != nil || a.cfg.DBPath == "" {
		return a.store, nil
	}
	store, err := storage.NewSQLiteStore(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.store = store
	return store, nil
}

func (a *app) workspace() (*workspace.Workspace, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return workspace.New(a.cfg, nil), nil
	}
	return workspace.New(a.cfg, store), nil
}

func (a *app) index(ctx context.Context) (*index.Index, error) {
	ws, err := a.workspace()
	if err != nil {
		return nil, err
	}
	return ws.Index(ctx)
}

func (a *app) engine(idx *index.Index) (*rename.Engine, error) {
	src, err := source.NewReader(a.cfg.WorkspaceRoot, a.cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return rename.NewEngine(idx, src, rename.Options{WholeWord: a.cfg.WholeWord}), nil
}

// Package cli wires the dailydose command tree to the task store.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/dailydose/internal/config"
	"github.com/amirbrooks/dailydose/internal/store"
	"github.com/amirbrooks/dailydose/internal/task"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitNotFound = 3
	ExitCorrupt  = 5
	ExitInternal = 10
)

const version = "1.0.0"

type GlobalFlags struct {
	Root    string
	Format  string
	JSON    bool
	Plain   bool
	ASCII   bool
	Quiet   bool
	Verbose bool
}

type app struct {
	gf     GlobalFlags
	cfg    config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

// usageError marks bad command lines: unknown flags, missing arguments,
// values outside their allowed range.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// opError ties a failure to the operation that was attempted.
type opError struct {
	op  string
	err error
}

func (e *opError) Error() string { return e.op + ": " + e.err.Error() }
func (e *opError) Unwrap() error { return e.err }

func failed(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr, time.Now)
}

func run(args []string, stdout, stderr io.Writer, now func() time.Time) int {
	a := &app{stdout: stdout, stderr: stderr, now: now}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	fmt.Fprintln(stderr, "dailydose:", err)
	return exitCode(err)
}

func exitCode(err error) int {
	var op *opError
	var usage usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage):
		return ExitUsage
	case !errors.As(err, &op):
		// cobra's own argument and flag errors
		return ExitUsage
	case errors.Is(err, task.ErrInvalidDate), errors.Is(err, task.ErrDescriptionEmpty), errors.Is(err, config.ErrInvalid):
		return ExitUsage
	case errors.Is(err, task.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, task.ErrDataCorruption):
		return ExitCorrupt
	default:
		return ExitInternal
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "dailydose",
		Short:         "Record your daily dose of tasks",
		Long:          "dailydose keeps a per-day task log in a local SQLite file.\nTasks are listed latest day first.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.gf.Root, "root", "", "Store root (default: $DAILYDOSE_ROOT or ~/.daily-dose)")
	pf.StringVar(&a.gf.Format, "format", "", "Output format: table|plain|json|telegram")
	pf.BoolVar(&a.gf.JSON, "json", false, "Shortcut for --format json")
	pf.BoolVar(&a.gf.Plain, "plain", false, "Shortcut for --format plain (TSV)")
	pf.BoolVar(&a.gf.ASCII, "ascii", false, "ASCII table borders")
	pf.BoolVarP(&a.gf.Quiet, "quiet", "q", false, "Only print errors")
	pf.BoolVarP(&a.gf.Verbose, "verbose", "v", false, "Verbose diagnostics on stderr")

	root.AddCommand(
		newInitCmd(a),
		newAddCmd(a),
		newShowCmd(a),
		newListCmd(a),
		newUpdateCmd(a),
		newStatusCmd(a, "mark", "Mark a day's task as done", task.Done),
		newStatusCmd(a, "unmark", "Unmark a day's task back to todo", task.Todo),
		newDeleteCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup resolves the root, builds the logger and loads config.
func (a *app) setup() error {
	if a.gf.JSON && a.gf.Plain {
		return usagef("--json and --plain are mutually exclusive")
	}
	if a.gf.Quiet && a.gf.Verbose {
		return usagef("--quiet and --verbose are mutually exclusive")
	}

	level := slog.LevelInfo
	switch {
	case a.gf.Verbose:
		level = slog.LevelDebug
	case a.gf.Quiet:
		level = slog.LevelError
	}
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))

	a.gf.Root = resolveRoot(a.gf.Root)
	cfg, exists, err := config.Load(a.gf.Root)
	if err != nil {
		return failed("config", err)
	}
	a.cfg = cfg
	a.log.Debug("config loaded", "root", a.gf.Root, "file", config.Path(a.gf.Root), "exists", exists)
	return nil
}

func resolveRoot(flagRoot string) string {
	if strings.TrimSpace(flagRoot) != "" {
		return flagRoot
	}
	if env := os.Getenv("DAILYDOSE_ROOT"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	if home != "" {
		return filepath.Join(home, ".daily-dose")
	}
	return ".daily-dose"
}

// openStore opens the task database; callers must Close it.
func (a *app) openStore() (*store.Store, error) {
	st, err := store.Open(a.cfg.DatabasePath(a.gf.Root))
	if err != nil {
		return nil, err
	}
	a.log.Debug("store opened", "path", st.Path())
	return st, nil
}

func (a *app) today() task.Date {
	return task.DateOf(a.now())
}

func (a *app) format() string {
	switch {
	case a.gf.JSON:
		return config.FormatJSON
	case a.gf.Plain:
		return config.FormatPlain
	case strings.TrimSpace(a.gf.Format) != "":
		return strings.ToLower(strings.TrimSpace(a.gf.Format))
	default:
		return a.cfg.Display.Format
	}
}

// printf writes a human status line unless --quiet is set.
func (a *app) printf(format string, args ...any) {
	if a.gf.Quiet {
		return
	}
	fmt.Fprintf(a.stdout, format, args...)
}

// Command cindex is the Indexer CLI from spec.md §6: it drives one or more
// translation units through the Frontend Adapter and the AST Translator,
// persisting the result into a durable (or, with -n, discarded) Store.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oxhq/cfind/internal/compiledb"
	"github.com/oxhq/cfind/internal/cursor"
	"github.com/oxhq/cfind/internal/cursor/tscursor"
	"github.com/oxhq/cfind/internal/preproc"
	"github.com/oxhq/cfind/internal/procenv"
	"github.com/oxhq/cfind/internal/store"
	"github.com/oxhq/cfind/internal/storesql"
	"github.com/oxhq/cfind/internal/sysexits"
	"github.com/oxhq/cfind/internal/xlate"
)

const version = "0.1.0"

// exitErr pairs an error with the sysexits code main should return for it.
type exitErr struct {
	code int
	err  error
}

func (e *exitErr) Error() string { return e.err.Error() }
func (e *exitErr) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if err := procenv.HardenStdio(); err != nil {
		fmt.Fprintln(os.Stderr, "cindex:", err)
		return sysexits.IOErr
	}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if ee, ok := err.(*exitErr); ok {
			fmt.Fprintln(os.Stderr, "cindex:", ee.err)
			return ee.code
		}
		fmt.Fprintln(os.Stderr, "cindex:", err)
		return sysexits.Software
	}
	return sysexits.OK
}

func newRootCmd() *cobra.Command {
	var (
		src    string
		compdb string
		out    string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:           "cindex",
		Short:         "Index C translation units into a semantic code-search database",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return indexRun(src, compdb, out, dryRun)
		},
	}
	cmd.Flags().StringVarP(&src, "src", "s", "", "single C source file to index (default mode)")
	cmd.Flags().StringVarP(&compdb, "compdb", "d", "", "directory containing compile_commands.json")
	cmd.Flags().StringVarP(&out, "out", "o", "cf.db", "output database path")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "dry run: validate without persisting")
	return cmd
}

// streamsFor builds one cursor.Stream per translation unit named by either
// -s (a single file, parsed by tscursor.ParseFile with no compile flags and
// no include resolution) or -d (every entry of a compile_commands.json, each
// with its own #include chain resolved via internal/preproc using its
// compile command's -I/-isystem search paths).
func streamsFor(src, compdb string) ([]cursor.Stream, error) {
	switch {
	case src != "" && compdb != "":
		return nil, &exitErr{sysexits.Usage, fmt.Errorf("only one of -s or -d may be given")}
	case compdb != "":
		return streamsFromCompDB(compdb)
	case src != "":
		stream, err := tscursor.ParseFile(src)
		if err != nil {
			return nil, &exitErr{sysexits.NoInput, fmt.Errorf("reading %s: %w", src, err)}
		}
		return []cursor.Stream{stream}, nil
	default:
		return nil, &exitErr{sysexits.Usage, fmt.Errorf("one of -s SRC or -d COMPDB_DIR is required")}
	}
}

func streamsFromCompDB(dir string) ([]cursor.Stream, error) {
	dbPath := filepath.Join(dir, "compile_commands.json")
	entries, err := compiledb.Load(dbPath)
	if err != nil {
		return nil, &exitErr{sysexits.DataErr, fmt.Errorf("loading %s: %w", dbPath, err)}
	}
	streams := make([]cursor.Stream, 0, len(entries))
	for _, e := range entries {
		dirs := compiledb.IncludeDirs(e.Directory, e.Arguments)
		files, _, err := preproc.Resolve(e.File, dirs...)
		if err != nil {
			return nil, &exitErr{sysexits.NoInput, fmt.Errorf("resolving includes for %s: %w", e.File, err)}
		}
		stream, err := tscursor.ParseTU(files)
		if err != nil {
			return nil, &exitErr{sysexits.NoInput, fmt.Errorf("parsing %s: %w", e.File, err)}
		}
		streams = append(streams, stream)
	}
	return streams, nil
}

func indexRun(src, compdb, out string, dryRun bool) error {
	streams, err := streamsFor(src, compdb)
	if err != nil {
		return err
	}

	var st store.Store
	if dryRun {
		st = store.OpenNop()
	} else {
		sq, err := storesql.Open(out)
		if err != nil {
			return &exitErr{sysexits.CantCreat, fmt.Errorf("opening %s: %w", out, err)}
		}
		st = sq
	}
	defer st.Close()

	tr := xlate.New(st)
	for _, s := range streams {
		if err := tr.IndexTU(s); err != nil {
			return &exitErr{sysexits.Software, err}
		}
	}

	if sq, ok := st.(*storesql.SQLite); ok {
		_ = storesql.CheckpointIfLarge(sq, out, 64)
	}
	return nil
}

// Command cquery is the Query CLI from spec.md §6: it opens a durable
// database read-only and answers td/typedecl, tn/typename, and md/memberdecl
// commands against it, in the exact output format the spec documents.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/cfind/internal/cerr"
	"github.com/oxhq/cfind/internal/procenv"
	"github.com/oxhq/cfind/internal/qlang"
	"github.com/oxhq/cfind/internal/ref"
	"github.com/oxhq/cfind/internal/store"
	"github.com/oxhq/cfind/internal/storesql"
	"github.com/oxhq/cfind/internal/sysexits"
)

const version = "0.1.0"

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
		fmt.Fprintln(os.Stderr, "query:", err)
		return sysexits.IOErr
	}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if ee, ok := err.(*exitErr); ok {
			fmt.Fprintln(os.Stderr, "query:", ee.err)
			return ee.code
		}
		fmt.Fprintln(os.Stderr, "query:", err)
		return sysexits.Software
	}
	return sysexits.OK
}

func newRootCmd() *cobra.Command {
	var (
		cmdStr      string
		interactive bool
	)
	cmd := &cobra.Command{
		Use:           "query DB_PATH",
		Short:         "Query a cfind semantic code-search database",
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			if interactive {
				return &exitErr{sysexits.Usage, cerr.New(cerr.Unimplemented, "query: -i interactive mode is reserved")}
			}
			if cmdStr == "" {
				return &exitErr{sysexits.Usage, fmt.Errorf("query: -c CMD is required")}
			}
			return runQuery(args[0], cmdStr)
		},
	}
	cmd.Flags().StringVarP(&cmdStr, "command", "c", "", "query command to execute")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "interactive mode (reserved)")
	return cmd
}

func runQuery(dbPath, cmdStr string) error {
	st, err := storesql.OpenReadOnly(dbPath)
	if err != nil {
		return &exitErr{sysexits.NoInput, fmt.Errorf("opening %s: %w", dbPath, err)}
	}
	defer st.Close()

	q, err := qlang.Parse(cmdStr)
	if err != nil {
		return &exitErr{sysexits.Usage, err}
	}

	switch q.Cmd {
	case qlang.CmdTypeDecl:
		return queryTypeDecl(st, q)
	case qlang.CmdTypeName:
		return queryTypeName(st, q)
	case qlang.CmdMemberDecl:
		return queryMemberDecl(st, q)
	default:
		return &exitErr{sysexits.Software, fmt.Errorf("query: unrecognized command")}
	}
}

func queryTypeDecl(st store.Store, q qlang.Query) error {
	var id ref.Durable
	if q.ByID {
		id = q.ID
	} else {
		resolved, candidates, err := resolveTypeByName(st, q.HasKind, q.Kind, q.Name)
		if err != nil {
			return &exitErr{sysexits.Software, err}
		}
		switch len(candidates) {
		case 0:
			fmt.Println("no matching type")
			return nil
		case 1:
			id = resolved
		default:
			fmt.Println("ambiguous typename")
			for _, c := range candidates {
				printTypenameRow(st, c)
			}
			return nil
		}
	}
	t, err := st.TypeLookup(id)
	if err != nil {
		if cerr.Is(err, cerr.NotFound) {
			fmt.Println("no matching type")
			return nil
		}
		return &exitErr{sysexits.Software, err}
	}
	printTypeEntry(st, id, t.Kind, t.Loc)
	return nil
}

func queryTypeName(st store.Store, q qlang.Query) error {
	cur, err := st.TypenameFind(q.Name)
	if err != nil {
		return &exitErr{sysexits.Software, err}
	}
	defer cur.Free()
	for cur.Next() {
		row := cur.Peek()
		if q.HasKind {
			t, err := st.TypeLookup(row.BaseType)
			if err != nil || t.Kind != q.Kind {
				continue
			}
		}
		printTypenameRow(st, row)
	}
	if err := cur.Err(); err != nil {
		return &exitErr{sysexits.Software, err}
	}
	return nil
}

func queryMemberDecl(st store.Store, q qlang.Query) error {
	var parentID ref.Durable
	if q.ByID {
		parentID = q.ID
	} else {
		resolved, candidates, err := resolveTypeByName(st, q.HasKind, q.Kind, q.Name)
		if err != nil {
			return &exitErr{sysexits.Software, err}
		}
		switch len(candidates) {
		case 0:
			fmt.Println("no matching type")
			return nil
		case 1:
			parentID = resolved
		default:
			fmt.Println("ambiguous typename")
			for _, c := range candidates {
				printTypenameRow(st, c)
			}
			return nil
		}
	}
	m, err := st.MemberLookup(parentID, q.Member)
	if err != nil {
		if cerr.Is(err, cerr.NotFound) {
			fmt.Println("no matching member")
			return nil
		}
		return &exitErr{sysexits.Software, err}
	}
	base := int64(0)
	if d, ok := m.BaseType.Durable(); ok {
		base = int64(d)
	}
	fmt.Printf("%d.'%s', type %d, at %s:%d:%d\n",
		parentID, m.Name.String(), base, pathOrNone(st, m.Loc.File), m.Loc.Line, m.Loc.Column)
	return nil
}

// resolveTypeByName matches TypenameFind(name) rows with an exact name (no
// LIKE wildcarding, unlike the tn command), optionally filtered by kind via
// the underlying Type's TypeKind — the only distinction this implementation
// draws between an elaborated "struct NAME" lookup and a same-spelled
// typedef, per the open question in spec.md §9 about the two not being
// fully separated. Returns the sole matching Type id (valid only when
// exactly one candidate is returned) plus the full candidate list so the
// caller can print "ambiguous typename" when there is more than one.
func resolveTypeByName(st store.Store, hasKind bool, kind ref.TypeKind, name string) (ref.Durable, []store.TypenameRow, error) {
	cur, err := st.TypenameFind(name)
	if err != nil {
		return 0, nil, err
	}
	defer cur.Free()

	seen := make(map[ref.Durable]bool)
	var candidates []store.TypenameRow
	for cur.Next() {
		row := cur.Peek()
		if row.Name != name {
			continue
		}
		if hasKind {
			t, err := st.TypeLookup(row.BaseType)
			if err != nil || t.Kind != kind {
				continue
			}
		}
		if !seen[row.BaseType] {
			seen[row.BaseType] = true
			candidates = append(candidates, row)
		}
	}
	if err := cur.Err(); err != nil {
		return 0, nil, err
	}
	if len(candidates) == 1 {
		return candidates[0].BaseType, candidates, nil
	}
	return 0, candidates, nil
}

func printTypeEntry(st store.Store, id ref.Durable, kind ref.TypeKind, loc ref.SourceLocation) {
	fmt.Printf("%d %s at %s:%d:%d\n", id, kind, pathOrNone(st, loc.File), loc.Line, loc.Column)
}

func printTypenameRow(st store.Store, row store.TypenameRow) {
	fmt.Printf("%d '%s' at %s:%d:%d\n", row.BaseType, row.Name, pathOrNone(st, row.Loc.File), row.Loc.Line, row.Loc.Column)
}

// pathOrNone resolves a SourceLocation's file Ref to a path, substituting
// "<none>" for an unknown or missing file, per spec.md §6's output format.
func pathOrNone(st store.Store, fileRef ref.Ref) string {
	id, ok := fileRef.Durable()
	if !ok {
		return "<none>"
	}
	path, err := st.FileLookup(id)
	if err != nil {
		return "<none>"
	}
	return path
}

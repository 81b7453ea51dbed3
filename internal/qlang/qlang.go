// Package qlang tokenizes the query CLI's three commands (td/typedecl,
// tn/typename, md/memberdecl) with plain field-splitting and positional
// argument parsing rather than a generated parser, since the grammar here
// is a handful of fixed shapes.
package qlang

import (
	"strconv"
	"strings"

	"github.com/oxhq/cfind/internal/cerr"
	"github.com/oxhq/cfind/internal/ref"
)

// Command enumerates the three query commands.
type Command int

const (
	CmdTypeDecl Command = iota
	CmdTypeName
	CmdMemberDecl
)

// Query is one parsed command-line query.
type Query struct {
	Cmd     Command
	ByID    bool
	ID      ref.Durable
	HasKind bool
	Kind    ref.TypeKind
	Name    string
	Member  string // set only for CmdMemberDecl
}

// Parse tokenizes s (the argument to -c) into a Query.
func Parse(s string) (Query, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return Query{}, cerr.New(cerr.InvalidInput, "qlang.Parse: empty query")
	}
	word, rest := parts[0], parts[1:]
	switch word {
	case "td", "typedecl":
		return parseTypeDecl(rest)
	case "tn", "typename":
		return parseTypeName(rest)
	case "md", "memberdecl":
		return parseMemberDecl(rest)
	default:
		return Query{}, cerr.New(cerr.InvalidInput, "qlang.Parse: unknown command "+word)
	}
}

func parseTypeDecl(rest []string) (Query, error) {
	q := Query{Cmd: CmdTypeDecl}
	switch len(rest) {
	case 1:
		if id, ok := parseID(rest[0]); ok {
			q.ByID, q.ID = true, id
		} else if _, err := strconv.ParseInt(rest[0], 10, 64); err == nil {
			return Query{}, cerr.New(cerr.InvalidInput, "qlang: td ID must be positive")
		} else {
			q.Name = rest[0]
		}
	case 2:
		kind, ok := ref.ParseTypeKind(rest[0])
		if !ok {
			return Query{}, cerr.New(cerr.InvalidInput, "qlang: td kind must be struct, union, or enum")
		}
		q.HasKind, q.Kind, q.Name = true, kind, rest[1]
	default:
		return Query{}, cerr.New(cerr.InvalidInput, "qlang: td takes ID or [struct|union|enum] NAME")
	}
	return q, nil
}

func parseTypeName(rest []string) (Query, error) {
	q := Query{Cmd: CmdTypeName}
	switch len(rest) {
	case 1:
		q.Name = rest[0]
	case 2:
		kind, ok := ref.ParseTypeKind(rest[0])
		if !ok {
			return Query{}, cerr.New(cerr.InvalidInput, "qlang: tn kind must be struct, union, or enum")
		}
		q.HasKind, q.Kind, q.Name = true, kind, rest[1]
	default:
		return Query{}, cerr.New(cerr.InvalidInput, "qlang: tn takes [struct|union|enum] NAME")
	}
	return q, nil
}

func parseMemberDecl(rest []string) (Query, error) {
	if len(rest) < 2 {
		return Query{}, cerr.New(cerr.InvalidInput, "qlang: md takes (ID | [struct|union|enum] NAME) MEMBER")
	}
	q := Query{Cmd: CmdMemberDecl}
	head, member := rest[:len(rest)-1], rest[len(rest)-1]
	q.Member = member
	switch len(head) {
	case 1:
		if id, ok := parseID(head[0]); ok {
			q.ByID, q.ID = true, id
		} else {
			q.Name = head[0]
		}
	case 2:
		kind, ok := ref.ParseTypeKind(head[0])
		if !ok {
			return Query{}, cerr.New(cerr.InvalidInput, "qlang: md kind must be struct, union, or enum")
		}
		q.HasKind, q.Kind, q.Name = true, kind, head[1]
	default:
		return Query{}, cerr.New(cerr.InvalidInput, "qlang: md takes (ID | [struct|union|enum] NAME) MEMBER")
	}
	return q, nil
}

func parseID(s string) (ref.Durable, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return ref.Durable(n), true
}

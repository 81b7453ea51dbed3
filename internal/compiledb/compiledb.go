// Package compiledb parses a clang-convention compile_commands.json and
// tokenizes each entry's command line, the input cmd/cindex's -d flag
// consumes. The tokenizer below is a small hand-rolled one (see DESIGN.md
// for why no shlex/shellwords dependency was pulled in for it).
package compiledb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/oxhq/cfind/internal/cerr"
)

// Entry is one compilation database record: the file compiled, the
// directory its relative paths are resolved against, and its arguments,
// already tokenized if the record carried a raw Command string.
type Entry struct {
	Directory string
	File      string
	Arguments []string
}

// rawEntry mirrors the on-disk schema, where a record gives either
// "arguments" (already an array) or "command" (one shell-quoted string),
// per the conventional clang compile_commands.json schema.
type rawEntry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Arguments []string `json:"arguments"`
	Command   string   `json:"command"`
}

// Load parses the compile_commands.json file at path into Entries, each
// with its Arguments tokenized and its File resolved to an absolute path
// (relative to the entry's Directory, the schema's documented base).
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cerr.Wrap(cerr.BackendError, "compiledb.Load", err)
	}
	var raws []rawEntry
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, cerr.Wrap(cerr.InvalidInput, "compiledb.Load: parse", err)
	}
	entries := make([]Entry, 0, len(raws))
	for _, r := range raws {
		args := r.Arguments
		if len(args) == 0 && r.Command != "" {
			args = Tokenize(r.Command)
		}
		file := r.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(r.Directory, file)
		}
		entries = append(entries, Entry{Directory: r.Directory, File: file, Arguments: args})
	}
	return entries, nil
}

// Tokenize splits a shell-style command line into words, honoring single
// and double quoting and backslash escapes, the minimum a compile command
// actually needs (paths with spaces, -D defines with quoted values); it
// does not implement full POSIX word splitting (no globbing, no variable
// or command substitution: a compile_commands.json command is already a
// literal argv, never evaluated by a shell).
func Tokenize(s string) []string {
	var (
		out   []string
		cur   strings.Builder
		inTok bool
		quote byte
	)
	flush := func() {
		if inTok {
			out = append(out, cur.String())
			cur.Reset()
			inTok = false
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
				continue
			}
			if c == '\\' && quote == '"' && i+1 < len(s) {
				i++
				cur.WriteByte(s[i])
				continue
			}
			cur.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			inTok = true
		case c == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
			inTok = true
		case c == ' ' || c == '\t':
			flush()
		default:
			cur.WriteByte(c)
			inTok = true
		}
	}
	flush()
	return out
}

// IncludeDirs extracts every -I/-isystem search path from a tokenized
// argument list, resolved against dir (an entry's Directory), in
// declaration order.
func IncludeDirs(dir string, args []string) []string {
	var dirs []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-I" || a == "-isystem":
			if i+1 < len(args) {
				i++
				dirs = append(dirs, resolveDir(dir, args[i]))
			}
		case strings.HasPrefix(a, "-I") && len(a) > 2:
			dirs = append(dirs, resolveDir(dir, a[2:]))
		}
	}
	return dirs
}

func resolveDir(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Package preproc resolves the #include chain of a C translation unit for
// callers that want it expanded ahead of frontend parsing. tree-sitter has
// no preprocessor of its own (internal/cursor/tscursor parses source text
// verbatim), so anything that must behave as if headers were pulled into
// the translation unit — the way the AST Translator's location/file
// bookkeeping assumes — resolves the chain here first.
//
// Only quoted includes (#include "local.h") are followed, resolved
// relative to the including file's directory, the conventional meaning of
// the quoted form. Angle-bracket includes (#include <system.h>) name a
// system search path this tool has no configured view of and are reported
// back unresolved rather than guessed at.
package preproc

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/oxhq/cfind/internal/pathcanon"
)

// Resolve walks primary's #include chain depth-first, quoted includes
// only, each header visited at most once per call (a second #include of
// an already-visited header, direct or via another header, is a no-op,
// matching the net effect of a header's own include guard). A quoted
// include is first tried relative to the including file's directory,
// then against each of searchDirs in order (the compilation database's
// -I/-isystem paths, internal/compiledb.IncludeDirs). files begins with
// primary and lists every header in first-encountered order; skipped
// lists the angle-bracket includes seen along the way, verbatim, for a
// caller that wants to log them.
func Resolve(primary string, searchDirs ...string) (files []string, skipped []string, err error) {
	visited := make(map[string]bool)
	var walk func(path string) error
	walk = func(path string) error {
		canon, err := pathcanon.Resolve(path)
		if err != nil {
			canon = path
		}
		if visited[canon] {
			return nil
		}
		visited[canon] = true
		files = append(files, path)

		dir := filepath.Dir(path)
		includes, sys, err := scanIncludes(path)
		if err != nil {
			return err
		}
		skipped = append(skipped, sys...)
		for _, inc := range includes {
			resolved := findInclude(dir, inc, searchDirs)
			if err := walk(resolved); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(primary); err != nil {
		return nil, nil, err
	}
	return files, skipped, nil
}

// findInclude resolves a quoted include spelling against the including
// file's own directory first, then each search directory in order,
// falling back to the plain relative-to-including-dir form (unresolved,
// but still a usable path) if none exist.
func findInclude(includingDir, spelling string, searchDirs []string) string {
	candidate := filepath.Join(includingDir, spelling)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	for _, d := range searchDirs {
		candidate = filepath.Join(d, spelling)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(includingDir, spelling)
}

// scanIncludes reads path line by line and splits its #include directives
// into quoted (resolved locally) and angle-bracket (system, unresolved).
func scanIncludes(path string) (quoted, angle []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if !strings.HasPrefix(line, "include") {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, "include"))
		switch {
		case strings.HasPrefix(rest, `"`):
			if end := strings.Index(rest[1:], `"`); end >= 0 {
				quoted = append(quoted, rest[1:end+1])
			}
		case strings.HasPrefix(rest, "<"):
			if end := strings.Index(rest, ">"); end > 0 {
				angle = append(angle, rest[1:end])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return quoted, angle, nil
}

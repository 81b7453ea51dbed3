// Package pathcanon canonicalizes file paths the same way for every Store
// backend, so distinct textual include forms of one file (relative vs.
// absolute, a symlinked vs. real path) map to a single File row.
package pathcanon

import "path/filepath"

// Resolve returns path's absolute, symlink-free, cleaned form. A failure to
// resolve symlinks (the file does not exist yet, a dangling link) is not an
// error: the absolute-cleaned form is still a valid canonical key.
func Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return filepath.Clean(abs), nil
}

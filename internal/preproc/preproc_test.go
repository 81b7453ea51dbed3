package preproc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveFollowsQuotedIncludesDepthFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.c"), `#include "b.h"
int main(void) { return 0; }
`)
	writeFile(t, filepath.Join(dir, "b.h"), `#include "c.h"
`)
	writeFile(t, filepath.Join(dir, "c.h"), "int c;\n")

	files, _, err := Resolve(filepath.Join(dir, "a.c"))
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(dir, "a.c"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.h"), files[1])
	assert.Equal(t, filepath.Join(dir, "c.h"), files[2])
}

func TestResolveVisitsEachHeaderOnlyOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.c"), `#include "shared.h"
#include "b.h"
`)
	writeFile(t, filepath.Join(dir, "b.h"), `#include "shared.h"
`)
	writeFile(t, filepath.Join(dir, "shared.h"), "int x;\n")

	files, _, err := Resolve(filepath.Join(dir, "a.c"))
	require.NoError(t, err)
	assert.Len(t, files, 3, "shared.h must appear only once despite two includers")
}

func TestResolveReportsAngleBracketIncludesAsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.c"), `#include <stdio.h>
#include "b.h"
`)
	writeFile(t, filepath.Join(dir, "b.h"), "int x;\n")

	files, skipped, err := Resolve(filepath.Join(dir, "a.c"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, []string{"stdio.h"}, skipped)
}

func TestResolveFallsBackToSearchDirs(t *testing.T) {
	dir := t.TempDir()
	incDir := filepath.Join(dir, "inc")
	require.NoError(t, os.Mkdir(incDir, 0o755))
	writeFile(t, filepath.Join(dir, "a.c"), `#include "lib.h"
`)
	writeFile(t, filepath.Join(incDir, "lib.h"), "int x;\n")

	files, _, err := Resolve(filepath.Join(dir, "a.c"), incDir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(incDir, "lib.h"), files[1])
}

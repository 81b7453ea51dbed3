package pathcanon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveCanonicalizesRelativeAndDoubleSlashForms(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "hdr.h")
	require.NoError(t, os.WriteFile(target, []byte("int x;\n"), 0o644))

	direct, err := Resolve(target)
	require.NoError(t, err)

	messy := dir + string(filepath.Separator) + string(filepath.Separator) + "." + string(filepath.Separator) + "hdr.h"
	viaMessy, err := Resolve(messy)
	require.NoError(t, err)

	require.Equal(t, direct, viaMessy)
}

func TestResolveFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real.h")
	require.NoError(t, os.WriteFile(real, []byte(""), 0o644))
	link := filepath.Join(dir, "link.h")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	viaReal, err := Resolve(real)
	require.NoError(t, err)
	viaLink, err := Resolve(link)
	require.NoError(t, err)

	require.Equal(t, viaReal, viaLink)
}

func TestResolveNonexistentPathStillCanonicalizes(t *testing.T) {
	got, err := Resolve("does/not/exist.h")
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(got))
}

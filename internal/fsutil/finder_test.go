package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates the given relative files (with dummy contents) under root.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("// "+f), 0o644))
	}
}

func TestGlob_RecursivePattern(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "A.sol", "fund/B.sol", "fund/deep/C.sol", "README.md")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.sol"), 0o755))

	got, err := Glob(filepath.Join(root, "**", "*.sol"))
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "A.sol"),
		filepath.Join(root, "fund", "B.sol"),
		filepath.Join(root, "fund", "deep", "C.sol"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Glob() mismatch (-want +got):\n%s", diff)
	}
}

func TestGlob_NoMatches(t *testing.T) {
	got, err := Glob(filepath.Join(t.TempDir(), "**", "*.sol"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMatch(t *testing.T) {
	assert.True(t, Match("src/**/*.sol", "src/a/b/C.sol"))
	assert.False(t, Match("src/**/*.sol", "src/a/b/C.txt"))
}

func TestFindByPathSuffix(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/Token.sol", "b/Token.sol", "b/MyToken.sol", "lib/math/Math.sol")

	got, err := FindByPathSuffix(root, "Token.sol")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "Token.sol"),
		filepath.Join(root, "b", "Token.sol"),
	}, got, "basename match must not pick up MyToken.sol")

	got, err = FindByPathSuffix(root, "math/Math.sol")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "lib", "math", "Math.sol")}, got)

	got, err = FindByPathSuffix(root, "Missing.sol")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/b/X.sol", "c/Y.sol")

	got, err := FindDirs(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		root,
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "b"),
		filepath.Join(root, "c"),
	}, got)
}

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/specialistvlad/solforge/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when help is requested")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"compile", "--this-is-not-a-valid-flag"}

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, args)

	// --- Assert ---
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr), "run() should return an ExitError when argument parsing fails")
	assert.Equal(t, cli.ExitUsage, exitErr.Code)
	assert.Contains(t, exitErr.Message, "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_InvalidProjectFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "solforge.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte("compiler {\n  path = \n"), 0o600), "failed to set up test file")

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"compile", "--config", filePath})

	// --- Assert ---
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, cli.ExitUsage, exitErr.Code)
	assert.Contains(t, exitErr.Message, "failed to parse")
}

func TestRun_CompileWithFakeSolc(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake solc is a shell script")
	}
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	solc := filepath.Join(root, "solc")
	script := `#!/bin/sh
cat > /dev/null
cat <<'JSON'
{"contracts":{"Token.sol":{"Token":{"abi":[],"evm":{"bytecode":{"object":"6080"},"gasEstimates":{"creation":{"totalCost":"1"}}}}}}}
JSON
`
	require.NoError(t, os.WriteFile(solc, []byte(script), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "contracts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "contracts", "Token.sol"), []byte("contract Token {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "solforge.hcl"), []byte("compiler {\n  path = \""+solc+"\"\n}\n"), 0o644))

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{
		"compile", "--config", filepath.Join(root, "solforge.hcl"), "--skip-external",
	})

	// --- Assert ---
	require.NoError(t, err)
	bin, err := os.ReadFile(filepath.Join(root, "out", "Token.bin"))
	require.NoError(t, err)
	assert.Equal(t, "6080", string(bin))
}

package artifact

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/solforge/internal/compiler"
	"github.com/specialistvlad/solforge/internal/config"
	"github.com/specialistvlad/solforge/internal/qname"
	"github.com/specialistvlad/solforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenContract = compiler.Contract{
	Bytecode:     "6060604052",
	ABI:          json.RawMessage(`[{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}]`),
	GasEstimates: json.RawMessage(`{"external":{"totalSupply()":"400"}}`),
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestWriteContract_BareSourceWritesFourFiles(t *testing.T) {
	// --- Arrange ---
	ctx, _ := testutil.Context(t)
	out := filepath.Join(t.TempDir(), "out")
	w := NewWriter(out, config.CollisionWarn)

	// --- Act ---
	err := w.WriteContract(ctx, qname.New("Token.sol", "Token"), tokenContract)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Token.abi",
		"Token.abi.json",
		"Token.bin",
		"Token.gasEstimates.json",
	}, testutil.ListFiles(t, out))
	assert.Equal(t, "6060604052", readFile(t, filepath.Join(out, "Token.bin")))
	assert.Equal(t, string(tokenContract.ABI), readFile(t, filepath.Join(out, "Token.abi")))
	assert.JSONEq(t, string(tokenContract.ABI), readFile(t, filepath.Join(out, "Token.abi.json")))
	assert.Contains(t, readFile(t, filepath.Join(out, "Token.abi.json")), "\n  {\n    \"type\": \"function\"")
	assert.Equal(t, "{\n  \"external\": {\n    \"totalSupply()\": \"400\"\n  }\n}", readFile(t, filepath.Join(out, "Token.gasEstimates.json")))
}

func TestWriteContract_NestedSourceCreatesDirectories(t *testing.T) {
	ctx, _ := testutil.Context(t)
	out := t.TempDir()
	w := NewWriter(out, config.CollisionWarn)

	require.NoError(t, w.WriteContract(ctx, qname.New("fund/trading/Trading.sol", "Trading"), tokenContract))
	// Idempotent directory creation.
	require.NoError(t, w.WriteContract(ctx, qname.New("fund/trading/Trading.sol", "TradingLib"), tokenContract))

	assert.Equal(t, []string{
		"fund/trading/Trading.abi",
		"fund/trading/Trading.abi.json",
		"fund/trading/Trading.bin",
		"fund/trading/Trading.gasEstimates.json",
		"fund/trading/TradingLib.abi",
		"fund/trading/TradingLib.abi.json",
		"fund/trading/TradingLib.bin",
		"fund/trading/TradingLib.gasEstimates.json",
	}, testutil.ListFiles(t, out))
}

func TestWriteContract_CollisionWarnsAndOverwrites(t *testing.T) {
	ctx, logs := testutil.Context(t)
	out := t.TempDir()
	w := NewWriter(out, config.CollisionWarn)
	second := tokenContract
	second.Bytecode = "ffff"

	require.NoError(t, w.WriteContract(ctx, qname.New("Token.sol", "Token"), tokenContract))
	require.NoError(t, w.WriteContract(ctx, qname.New("Token.sol", "Token"), second))

	assert.Contains(t, logs.String(), "Contract name duplication detected")
	assert.Equal(t, "ffff", readFile(t, filepath.Join(out, "Token.bin")))
}

func TestWriteContract_CollisionFailsUnderFailPolicy(t *testing.T) {
	ctx, _ := testutil.Context(t)
	out := t.TempDir()
	w := NewWriter(out, config.CollisionFail)

	require.NoError(t, w.WriteContract(ctx, qname.New("A.sol", "Token"), tokenContract))
	err := w.WriteContract(ctx, qname.New("B.sol", "Token"), tokenContract)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateContract))
	assert.Contains(t, err.Error(), "A.sol:Token")
	assert.Contains(t, err.Error(), "B.sol:Token")
}

func TestWriteContract_LeftoverFromEarlierBuildWarnsAndOverwrites(t *testing.T) {
	testCases := []struct {
		name   string
		policy config.CollisionPolicy
	}{
		{name: "warn policy", policy: config.CollisionWarn},
		{name: "fail policy only fails within one build", policy: config.CollisionFail},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			ctx, logs := testutil.Context(t)
			out := t.TempDir()
			testutil.WriteFiles(t, out, map[string]string{"Token.abi": "[]"})

			// --- Act ---
			err := NewWriter(out, tc.policy).WriteContract(ctx, qname.New("Token.sol", "Token"), tokenContract)

			// --- Assert ---
			require.NoError(t, err)
			assert.Contains(t, logs.String(), "level=WARN msg=\"Contract name duplication detected")
			assert.Equal(t, string(tokenContract.ABI), readFile(t, filepath.Join(out, "Token.abi")))
		})
	}
}

func TestWriteContract_RejectsSourceOutsideOutDir(t *testing.T) {
	testCases := []struct {
		name   string
		source string
	}{
		{name: "parent directory", source: "../lib/A.sol"},
		{name: "nested climb", source: "fund/../../A.sol"},
		{name: "absolute path", source: "/etc/A.sol"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			ctx, _ := testutil.Context(t)
			root := t.TempDir()
			out := filepath.Join(root, "out")
			w := NewWriter(out, config.CollisionWarn)

			// --- Act ---
			err := w.WriteContract(ctx, qname.New(tc.source, "A"), tokenContract)

			// --- Assert ---
			require.ErrorIs(t, err, ErrOutsideOutDir)
			assert.Empty(t, testutil.ListFiles(t, root))
		})
	}
}

func TestWriteContract_UnparsableABIIsOnlyAWarning(t *testing.T) {
	ctx, logs := testutil.Context(t)
	c := tokenContract
	c.ABI = json.RawMessage(`[{"type":"function","name":"f","inputs":[{"name":"x","type":"notatype"}]}]`)

	err := NewWriter(t.TempDir(), config.CollisionWarn).WriteContract(ctx, qname.New("F.sol", "F"), c)

	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Compiled ABI does not parse")
}

func TestWriteResults(t *testing.T) {
	ctx, _ := testutil.Context(t)
	out := filepath.Join(t.TempDir(), "out")
	w := NewWriter(out, config.CollisionWarn)

	require.NoError(t, w.WriteResults(ctx, json.RawMessage(`{"contracts":{}}`), nil))
	assert.Equal(t, []string{ResultFile}, testutil.ListFiles(t, out))
	assert.Equal(t, "{\n  \"contracts\": {}\n}", readFile(t, filepath.Join(out, ResultFile)))

	require.NoError(t, w.WriteResults(ctx, json.RawMessage(`{}`), []string{"Warning: one", "Error: two"}))
	assert.Equal(t, []string{MessagesFile, ResultFile}, testutil.ListFiles(t, out))
	assert.Equal(t, "Warning: one\n\nError: two", readFile(t, filepath.Join(out, MessagesFile)))
}

func TestReset(t *testing.T) {
	ctx, _ := testutil.Context(t)
	out := t.TempDir()
	testutil.WriteFiles(t, out, map[string]string{"stale/Old.bin": "00", "Old.abi": "[]"})

	require.NoError(t, NewWriter(out, config.CollisionWarn).Reset(ctx))

	assert.DirExists(t, out)
	assert.Empty(t, testutil.ListFiles(t, out))
}

func TestReset_RefusesRoot(t *testing.T) {
	ctx, _ := testutil.Context(t)

	assert.Error(t, NewWriter("/", config.CollisionWarn).Reset(ctx))
	assert.Error(t, NewWriter(".", config.CollisionWarn).Reset(ctx))
}

func TestWriteExternal(t *testing.T) {
	ctx, _ := testutil.Context(t)
	out := t.TempDir()
	abiBody := []byte(`[{"name":"tokenAddress","outputs":[{"type":"address","name":"out"}],"inputs":[],"constant":true,"payable":false,"type":"function"}]`)

	require.NoError(t, NewWriter(out, config.CollisionWarn).WriteExternal(ctx, "UniswapExchange", abiBody, []byte("0x6103")))

	assert.Equal(t, []string{"UniswapExchange.abi", "UniswapExchange.abi.json", "UniswapExchange.bin"}, testutil.ListFiles(t, out))
	assert.Equal(t, string(abiBody), readFile(t, filepath.Join(out, "UniswapExchange.abi")))
	assert.JSONEq(t, string(abiBody), readFile(t, filepath.Join(out, "UniswapExchange.abi.json")))
	assert.Equal(t, "0x6103", readFile(t, filepath.Join(out, "UniswapExchange.bin")))
}

// Package artifact persists compiled and fetched contracts to the output
// directory layout consumed by deployment tooling.
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/solforge/internal/abiutil"
	"github.com/specialistvlad/solforge/internal/compiler"
	"github.com/specialistvlad/solforge/internal/config"
	"github.com/specialistvlad/solforge/internal/ctxlog"
	"github.com/specialistvlad/solforge/internal/qname"
)

const (
	ResultFile   = "compilerResult.json"
	MessagesFile = "compilerMessages.txt"
)

// Artifact file extensions, in the order they are written.
const (
	ExtBin          = ".bin"
	ExtABIJSON      = ".abi.json"
	ExtABI          = ".abi"
	ExtGasEstimates = ".gasEstimates.json"
)

// ErrDuplicateContract is returned under the fail policy when two units of
// one build map to the same artifact base path.
var ErrDuplicateContract = errors.New("contract name duplication")

// ErrOutsideOutDir is returned for a unit whose source directory would place
// its artifacts outside the output directory.
var ErrOutsideOutDir = errors.New("artifact path escapes output directory")

// Writer owns one output directory. It remembers every base path it wrote,
// so it must not be shared between builds.
type Writer struct {
	outDir      string
	onCollision config.CollisionPolicy
	written     map[string]qname.Name
}

// NewWriter creates a Writer for outDir.
func NewWriter(outDir string, policy config.CollisionPolicy) *Writer {
	return &Writer{
		outDir:      outDir,
		onCollision: policy,
		written:     make(map[string]qname.Name),
	}
}

// OutDir returns the directory the writer targets.
func (w *Writer) OutDir() string {
	return w.outDir
}

// BasePath is the extension-less path shared by a unit's four artifacts:
// <outDir>/<dir of source>/<contract>.
func (w *Writer) BasePath(n qname.Name) string {
	return filepath.Join(w.outDir, filepath.FromSlash(n.Dir()), n.Contract)
}

// Reset removes the output directory and recreates it empty.
func (w *Writer) Reset(ctx context.Context) error {
	clean := filepath.Clean(w.outDir)
	if clean == "." || clean == string(filepath.Separator) {
		return fmt.Errorf("refusing to reset output directory %q", w.outDir)
	}

	ctxlog.FromContext(ctx).Debug("Resetting output directory.", "dir", clean)
	if err := os.RemoveAll(clean); err != nil {
		return fmt.Errorf("failed to remove output directory %s: %w", clean, err)
	}
	if err := os.MkdirAll(clean, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", clean, err)
	}
	return nil
}

// WriteResults writes the full compiler result and, when there are any
// diagnostics, the messages file.
func (w *Writer) WriteResults(ctx context.Context, raw json.RawMessage, messages []string) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", w.outDir, err)
	}

	pretty, err := abiutil.Indent(raw)
	if err != nil {
		return fmt.Errorf("compiler result: %w", err)
	}
	if err := writeFile(filepath.Join(w.outDir, ResultFile), pretty); err != nil {
		return err
	}

	if len(messages) == 0 {
		return nil
	}
	ctxlog.FromContext(ctx).Debug("Writing compiler messages.", "count", len(messages))
	return writeFile(filepath.Join(w.outDir, MessagesFile), []byte(strings.Join(messages, "\n\n")))
}

// WriteContract writes the four artifacts of one compiled unit.
func (w *Writer) WriteContract(ctx context.Context, n qname.Name, c compiler.Contract) error {
	logger := ctxlog.FromContext(ctx).With("contract", n.String())

	if dir := n.Dir(); dir != "" && !filepath.IsLocal(filepath.FromSlash(dir)) {
		return fmt.Errorf("%w: %s", ErrOutsideOutDir, n)
	}

	base := w.BasePath(n)
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", n, err)
	}

	if err := w.checkCollision(ctx, n, base); err != nil {
		return err
	}

	prettyABI, err := abiutil.Indent(c.ABI)
	if err != nil {
		return fmt.Errorf("ABI of %s: %w", n, err)
	}
	gas, err := abiutil.Indent(c.GasEstimates)
	if err != nil {
		return fmt.Errorf("gas estimates of %s: %w", n, err)
	}

	if summary, err := abiutil.Parse(c.ABI); err != nil {
		logger.Warn("Compiled ABI does not parse.", "error", err)
	} else {
		logger.Debug("Writing contract.", "base", base, "methods", len(summary.Methods), "events", len(summary.Events))
	}

	files := []struct {
		ext  string
		data []byte
	}{
		{ExtBin, []byte(c.Bytecode)},
		{ExtABIJSON, prettyABI},
		{ExtABI, c.ABI},
		{ExtGasEstimates, gas},
	}
	for _, f := range files {
		if err := writeFile(base+f.ext, f.data); err != nil {
			return err
		}
	}
	w.written[base] = n
	return nil
}

// WriteExternal writes the artifacts of a fetched contract directly under the
// output directory: the raw ABI body, its indented form and the raw bytecode.
func (w *Writer) WriteExternal(ctx context.Context, name string, abiBody, binBody []byte) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", w.outDir, err)
	}

	pretty, err := abiutil.Indent(abiBody)
	if err != nil {
		return fmt.Errorf("ABI of external contract %s: %w", name, err)
	}

	base := filepath.Join(w.outDir, name)
	ctxlog.FromContext(ctx).Debug("Writing external contract.", "name", name, "base", base)
	if err := writeFile(base+ExtABI, abiBody); err != nil {
		return err
	}
	if err := writeFile(base+ExtABIJSON, pretty); err != nil {
		return err
	}
	return writeFile(base+ExtBin, binBody)
}

const duplicationWarning = "Contract name duplication detected. Please make sure that every contract is uniquely named across all directories."

// checkCollision warns whenever base.abi already exists. When base was
// written by this same build the collision policy applies; a file left over
// from an earlier build is only ever warned about and overwritten.
func (w *Writer) checkCollision(ctx context.Context, n qname.Name, base string) error {
	logger := ctxlog.FromContext(ctx)

	prev, dup := w.written[base]
	if !dup {
		if _, err := os.Stat(base + ExtABI); err == nil {
			logger.Warn(duplicationWarning, "path", base+ExtABI, "current", n.String(), "previous", "earlier build")
		}
		return nil
	}

	if w.onCollision == config.CollisionFail {
		return fmt.Errorf("%w: %s and %s both write %s", ErrDuplicateContract, prev, n, base+ExtABI)
	}
	logger.Warn(duplicationWarning,
		"path", base+ExtABI,
		"previous", prev.String(),
		"current", n.String(),
	)
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/specialistvlad/solforge/internal/config"
	"github.com/specialistvlad/solforge/internal/ctxlog"
	"github.com/specialistvlad/solforge/internal/qname"
	"github.com/specialistvlad/solforge/internal/resolver"
	"github.com/specialistvlad/solforge/internal/source"
)

// Solc compiles through the solc binary in standard-JSON mode. solc has no
// import callback on the command line, so the import closure is resolved
// before the process is started.
type Solc struct {
	settings config.CompilerSettings
}

// NewSolc creates a Solc compiler from the project's compiler settings.
func NewSolc(settings config.CompilerSettings) *Solc {
	return &Solc{settings: settings}
}

// Compile implements Compiler.
func (s *Solc) Compile(ctx context.Context, sources source.Set, imports resolver.ImportFunc) (*Output, error) {
	logger := ctxlog.FromContext(ctx)

	full, err := resolver.Expand(ctx, sources, imports)
	if err != nil {
		return nil, err
	}

	input, err := json.Marshal(newStandardInput(full, optimizerSettings{
		Enabled: s.settings.Optimize,
		Runs:    s.settings.Runs,
	}, s.settings.EVMVersion))
	if err != nil {
		return nil, fmt.Errorf("failed to encode compiler input: %w", err)
	}

	logger.Debug("Invoking solc.", "path", s.settings.Path, "sources", len(full), "optimize", s.settings.Optimize)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.settings.Path, "--standard-json")
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	out, parseErr := parseStandardOutput(stdout.Bytes())
	if parseErr != nil {
		if runErr != nil {
			return nil, fmt.Errorf("solc failed: %w: %s", runErr, strings.TrimSpace(stderr.String()))
		}
		return nil, parseErr
	}
	if runErr != nil {
		logger.Warn("solc exited with an error but produced a result.", "error", runErr)
	}

	logger.Debug("solc finished.", "contracts", len(out.Contracts), "messages", len(out.Messages))
	return out, nil
}

func parseStandardOutput(raw []byte) (*Output, error) {
	var std standardOutput
	if err := json.Unmarshal(raw, &std); err != nil {
		return nil, fmt.Errorf("failed to decode solc output: %w", err)
	}

	out := &Output{
		Contracts: make(map[qname.Name]Contract),
		Raw:       json.RawMessage(bytes.Clone(raw)),
	}
	for _, e := range std.Errors {
		out.Messages = append(out.Messages, e.text())
	}
	for src, contracts := range std.Contracts {
		for name, c := range contracts {
			n, err := qname.Parse(src + ":" + name)
			if err != nil {
				return nil, fmt.Errorf("solc output: %w", err)
			}
			out.Contracts[n] = Contract{
				Bytecode:     c.EVM.Bytecode.Object,
				ABI:          c.ABI,
				GasEstimates: c.EVM.GasEstimates,
			}
		}
	}
	return out, nil
}

package compiler

import (
	"encoding/json"

	"github.com/specialistvlad/solforge/internal/source"
)

// standardInput is the subset of solc's standard-JSON input we emit.
type standardInput struct {
	Language string                    `json:"language"`
	Sources  map[string]standardSource `json:"sources"`
	Settings standardSettings          `json:"settings"`
}

type standardSource struct {
	Content string `json:"content"`
}

type standardSettings struct {
	Optimizer       optimizerSettings              `json:"optimizer"`
	EVMVersion      string                         `json:"evmVersion,omitempty"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

type optimizerSettings struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs"`
}

// standardOutput is the subset of solc's standard-JSON output we read.
type standardOutput struct {
	Errors    []standardError                        `json:"errors"`
	Contracts map[string]map[string]standardContract `json:"contracts"`
}

type standardError struct {
	Severity         string `json:"severity"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage"`
}

type standardContract struct {
	ABI json.RawMessage `json:"abi"`
	EVM struct {
		Bytecode struct {
			Object string `json:"object"`
		} `json:"bytecode"`
		GasEstimates json.RawMessage `json:"gasEstimates"`
	} `json:"evm"`
}

var outputSelection = map[string]map[string][]string{
	"*": {"*": {"abi", "evm.bytecode.object", "evm.gasEstimates"}},
}

func newStandardInput(sources source.Set, settings optimizerSettings, evmVersion string) standardInput {
	in := standardInput{
		Language: "Solidity",
		Sources:  make(map[string]standardSource, len(sources)),
		Settings: standardSettings{
			Optimizer:       settings,
			EVMVersion:      evmVersion,
			OutputSelection: outputSelection,
		},
	}
	for name, content := range sources {
		in.Sources[name] = standardSource{Content: content}
	}
	return in
}

// text is the diagnostic string for one compiler message.
func (e standardError) text() string {
	if e.FormattedMessage != "" {
		return e.FormattedMessage
	}
	if e.Severity == "warning" {
		return "Warning: " + e.Message
	}
	return e.Message
}

package compiler

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/specialistvlad/solforge/internal/qname"
	"github.com/specialistvlad/solforge/internal/resolver"
	"github.com/specialistvlad/solforge/internal/source"
)

// Compiler compiles a source set. Imports missing from the set are looked
// up through the given ImportFunc; a lookup failure aborts the compilation
// and is returned as the error. Compiler diagnostics are not errors: they
// are reported in Output.Messages.
type Compiler interface {
	Compile(ctx context.Context, sources source.Set, imports resolver.ImportFunc) (*Output, error)
}

// Contract is one compiled unit.
type Contract struct {
	Bytecode     string          // hex, no 0x prefix
	ABI          json.RawMessage // JSON array as emitted by the compiler
	GasEstimates json.RawMessage // nested method -> estimate structure
}

// Output is everything a single compilation produced.
type Output struct {
	Contracts map[qname.Name]Contract
	Messages  []string
	Raw       json.RawMessage // full compiler result, written verbatim
}

// Names returns the compiled unit names in a stable order.
func (o *Output) Names() []qname.Name {
	names := make([]qname.Name, 0, len(o.Contracts))
	for n := range o.Contracts {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Less(names[j]) })
	return names
}

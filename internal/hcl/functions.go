package hcl

import (
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// envFunc returns the value of an environment variable, or "" when unset.
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

// newEvalContext builds the evaluation context every project file is
// decoded against.
func newEvalContext(projectDir string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"project_dir": cty.StringVal(projectDir),
		},
		Functions: map[string]function.Function{
			"env":       envFunc,
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"format":    stdlib.FormatFunc,
			"trimspace": stdlib.TrimSpaceFunc,
		},
	}
}

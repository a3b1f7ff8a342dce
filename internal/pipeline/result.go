package pipeline

import (
	"strings"

	"github.com/specialistvlad/solforge/internal/qname"
)

// Result summarises a completed run.
type Result struct {
	RunID     string
	Pattern   string
	Reset     bool
	Contracts []qname.Name
	Warnings  []string
	Errors    []string
	Stage     Stage
}

// Success reports whether the compiler produced no errors.
func (r *Result) Success() bool {
	return len(r.Errors) == 0
}

// ExitCode maps the result to a process exit code.
func (r *Result) ExitCode() int {
	if r.Success() {
		return 0
	}
	return 1
}

// ErrorText is every error diagnostic joined by blank lines.
func (r *Result) ErrorText() string {
	return strings.Join(r.Errors, "\n\n")
}

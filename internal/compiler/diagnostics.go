package compiler

import "regexp"

// Severity is the classification of a single diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// warningPattern accepts an optional `file:line:col ` prefix before the
// literal "Warning: " token. Anything else is an error.
var warningPattern = regexp.MustCompile(`^(.*:[0-9]*:[0-9]* )?Warning: `)

// Classify returns the severity of one diagnostic message.
func Classify(msg string) Severity {
	if warningPattern.MatchString(msg) {
		return SeverityWarning
	}
	return SeverityError
}

// Partition splits messages into warnings and errors, preserving order.
func Partition(messages []string) (warnings, errs []string) {
	for _, msg := range messages {
		if Classify(msg) == SeverityWarning {
			warnings = append(warnings, msg)
		} else {
			errs = append(errs, msg)
		}
	}
	return warnings, errs
}

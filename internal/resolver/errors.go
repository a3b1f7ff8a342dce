package resolver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means no file in the source tree matches the import.
	ErrNotFound = errors.New("import not found")
	// ErrAmbiguous means more than one file matches the import.
	ErrAmbiguous = errors.New("ambiguous import")
)

// ImportError describes a failed import lookup.
type ImportError struct {
	Name       string
	Kind       error // ErrNotFound or ErrAmbiguous
	Candidates []string
}

func (e *ImportError) Error() string {
	if errors.Is(e.Kind, ErrAmbiguous) {
		return fmt.Sprintf("multiple source files named %s found: %s", e.Name, strings.Join(e.Candidates, ", "))
	}
	return fmt.Sprintf("can not find import named: %s", e.Name)
}

// Unwrap lets errors.Is match the sentinel kind.
func (e *ImportError) Unwrap() error {
	return e.Kind
}

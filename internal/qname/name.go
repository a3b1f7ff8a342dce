package qname

import (
	"fmt"
	"path"
	"strings"
)

// Name identifies one compiled unit: a contract declared inside a source unit.
type Name struct {
	Source   string // unit name as passed to the compiler, slash separated
	Contract string
}

// New builds a Name from its parts.
func New(source, contract string) Name {
	return Name{Source: source, Contract: contract}
}

// Parse splits a qualified name on its last colon. Source unit names may
// themselves contain colons (e.g. URLs); contract identifiers never do.
func Parse(raw string) (Name, error) {
	if raw == "" {
		return Name{}, fmt.Errorf("qualified name cannot be empty")
	}

	idx := strings.LastIndex(raw, ":")
	if idx < 0 {
		return Name{}, fmt.Errorf("qualified name %q is missing the ':' separator", raw)
	}

	n := Name{Source: raw[:idx], Contract: raw[idx+1:]}
	if n.Source == "" {
		return Name{}, fmt.Errorf("qualified name %q has an empty source part", raw)
	}
	if !isIdentifier(n.Contract) {
		return Name{}, fmt.Errorf("qualified name %q has an invalid contract name %q", raw, n.Contract)
	}
	return n, nil
}

// String renders the canonical `source:contract` form.
func (n Name) String() string {
	return n.Source + ":" + n.Contract
}

// Dir is the directory component of the source unit, "" for a bare filename.
func (n Name) Dir() string {
	dir := path.Dir(n.Source)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// Less orders names by source then contract.
func (n Name) Less(other Name) bool {
	if n.Source != other.Source {
		return n.Source < other.Source
	}
	return n.Contract < other.Contract
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

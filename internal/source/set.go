// Package source collects contract source files into an in-memory Set keyed
// by the unit name the compiler will see.
package source

import "sort"

// Set maps unit names to raw source text. Keys are unique.
type Set map[string]string

// Names returns the unit names in lexical order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy that can be extended without touching s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

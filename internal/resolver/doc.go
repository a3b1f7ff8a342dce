// Package resolver finds the source text for imports that are not part of
// the collected source set.
//
// A Resolver searches the source tree for a uniquely named file; Expand
// applies it to every import directive of a source set until the set is
// closed under imports. Resolution failures are typed so callers can tell
// a missing import from an ambiguous one with errors.Is.
package resolver

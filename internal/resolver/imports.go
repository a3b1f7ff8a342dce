package resolver

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/specialistvlad/solforge/internal/ctxlog"
	"github.com/specialistvlad/solforge/internal/source"
)

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`(?m)^\s*//.*$`)

	// Matches `import "p";`, `import "p" as X;`, `import * as X from "p";`
	// and `import {A, B as C} from "p";`.
	importDirective = regexp.MustCompile(`(?m)^\s*import\s+(?:[^;"']*?\bfrom\s+)?["']([^"']+)["']`)
)

// Imports returns the import paths of a source unit in order of appearance.
func Imports(src string) []string {
	src = blockComment.ReplaceAllString(src, "")
	src = lineComment.ReplaceAllString(src, "")

	matches := importDirective.FindAllStringSubmatch(src, -1)
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, m[1])
	}
	return paths
}

// UnitName is the name under which the compiler looks up an import written
// in importer: relative imports are joined with the importer's directory,
// and ".." segments that climb above the root are dropped, as solc does.
// Everything else is taken verbatim.
func UnitName(importer, imp string) string {
	if strings.HasPrefix(imp, "./") || strings.HasPrefix(imp, "../") {
		return trimRelative(path.Join(path.Dir(importer), imp))
	}
	return imp
}

// Expand returns a copy of set extended with every transitively imported
// unit that set does not already contain, each looked up with resolve. The
// first resolution failure aborts the expansion.
func Expand(ctx context.Context, set source.Set, resolve ImportFunc) (source.Set, error) {
	logger := ctxlog.FromContext(ctx)

	out := set.Clone()
	queue := set.Names()
	for len(queue) > 0 {
		unit := queue[0]
		queue = queue[1:]

		for _, imp := range Imports(out[unit]) {
			name := UnitName(unit, imp)
			if _, ok := out[name]; ok {
				continue
			}
			contents, err := resolve(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("resolving import %q of %s: %w", imp, unit, err)
			}
			out[name] = contents
			queue = append(queue, name)
		}
	}

	if added := len(out) - len(set); added > 0 {
		logger.Debug("Import closure expanded source set.", "collected", len(set), "resolved", added)
	}
	return out, nil
}

package resolver

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/specialistvlad/solforge/internal/ctxlog"
	"github.com/specialistvlad/solforge/internal/fsutil"
)

// ImportFunc returns the source text for an import name.
type ImportFunc func(ctx context.Context, name string) (string, error)

// Resolver looks imports up in a source tree. Results are memoised, so a
// Resolver answers consistently for the lifetime of one pipeline run.
type Resolver struct {
	root string

	mu    sync.Mutex
	cache map[string]result
}

type result struct {
	contents string
	err      error
}

// New creates a Resolver searching below root.
func New(root string) *Resolver {
	return &Resolver{root: root, cache: make(map[string]result)}
}

// Resolve finds the single file below the root whose relative path ends with
// name (after dropping leading ./ and ../ segments) and returns its contents.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	r.mu.Lock()
	if res, ok := r.cache[name]; ok {
		r.mu.Unlock()
		return res.contents, res.err
	}
	r.mu.Unlock()

	contents, err := r.lookup(ctx, name)

	r.mu.Lock()
	r.cache[name] = result{contents: contents, err: err}
	r.mu.Unlock()
	return contents, err
}

func (r *Resolver) lookup(ctx context.Context, name string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	query := trimRelative(name)
	if query == "" {
		return "", &ImportError{Name: name, Kind: ErrNotFound}
	}

	candidates, err := fsutil.FindByPathSuffix(r.root, query)
	if err != nil {
		return "", fmt.Errorf("searching %s for import %s: %w", r.root, name, err)
	}

	switch len(candidates) {
	case 0:
		return "", &ImportError{Name: name, Kind: ErrNotFound}
	case 1:
	default:
		return "", &ImportError{Name: name, Kind: ErrAmbiguous, Candidates: candidates}
	}

	logger.Debug("Resolved import.", "import", name, "path", candidates[0])
	contents, err := os.ReadFile(candidates[0])
	if err != nil {
		return "", fmt.Errorf("reading import %s: %w", candidates[0], err)
	}
	return string(contents), nil
}

// trimRelative drops leading "./" and "../" segments.
func trimRelative(name string) string {
	for {
		switch {
		case strings.HasPrefix(name, "./"):
			name = name[2:]
		case strings.HasPrefix(name, "../"):
			name = name[3:]
		default:
			return name
		}
	}
}

package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/solforge/internal/config"
	"github.com/specialistvlad/solforge/internal/ctxlog"
	"github.com/specialistvlad/solforge/internal/fsutil"
)

// Collector reads every file matching a glob into a Set.
type Collector struct {
	// Root is the source tree root used to compute relative keys.
	Root    string
	KeyMode config.KeyMode
}

// NewCollector creates a Collector for the given source root.
func NewCollector(root string, mode config.KeyMode) *Collector {
	return &Collector{Root: root, KeyMode: mode}
}

// Collect expands pattern and reads every match. Files are visited in sorted
// order; when two files share a key the later one wins and a warning is
// logged. A pattern matching nothing yields an empty Set.
func (c *Collector) Collect(ctx context.Context, pattern string) (Set, error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := fsutil.Glob(pattern)
	if err != nil {
		return nil, err
	}
	logger.Debug("Collecting sources.", "pattern", pattern, "files", len(paths))

	set := make(Set, len(paths))
	origin := make(map[string]string, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key, err := c.key(p)
		if err != nil {
			return nil, err
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading source %q: %w", p, err)
		}

		if prev, dup := origin[key]; dup {
			logger.Warn("Source name collision, later file wins.", "key", key, "previous", prev, "current", p)
		}
		origin[key] = p
		set[key] = string(content)
	}
	return set, nil
}

func (c *Collector) key(p string) (string, error) {
	if c.KeyMode != config.KeyRelative {
		return filepath.Base(p), nil
	}
	rel, err := filepath.Rel(c.Root, p)
	if err != nil {
		return "", fmt.Errorf("source %q is not below %q: %w", p, c.Root, err)
	}
	return filepath.ToSlash(rel), nil
}

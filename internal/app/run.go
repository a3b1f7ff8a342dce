package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/solforge/internal/ctxlog"
	"github.com/specialistvlad/solforge/internal/pipeline"
	"github.com/specialistvlad/solforge/internal/watch"
)

// Compile runs one build over pattern ("" selects the whole source tree).
func (a *App) Compile(ctx context.Context, pattern string) (*pipeline.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	return a.pipeline.Run(ctx, pattern)
}

// Fetch downloads the external contracts only.
func (a *App) Fetch(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	return a.pipeline.FetchExternal(ctx)
}

// Watch builds the whole source tree and rebuilds on every change until ctx
// is cancelled.
func (a *App) Watch(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	w := watch.New(a.model.SourceDir, a.model.DefaultPattern(), func(ctx context.Context) error {
		res, err := a.pipeline.Run(ctx, "")
		if err != nil {
			return err
		}
		if !res.Success() {
			return fmt.Errorf("build finished with %d error(s)", len(res.Errors))
		}
		return nil
	}, watch.DefaultDebounce)

	a.healthCheckServer(w)
	return w.Run(ctx)
}

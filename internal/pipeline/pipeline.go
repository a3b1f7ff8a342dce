package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/solforge/internal/artifact"
	"github.com/specialistvlad/solforge/internal/compiler"
	"github.com/specialistvlad/solforge/internal/config"
	"github.com/specialistvlad/solforge/internal/ctxlog"
	"github.com/specialistvlad/solforge/internal/fetch"
	"github.com/specialistvlad/solforge/internal/notify"
	"github.com/specialistvlad/solforge/internal/resolver"
	"github.com/specialistvlad/solforge/internal/source"
)

// Options holds the optional collaborators of a Pipeline.
type Options struct {
	// Notifier receives an event after every run. Nil disables notifications.
	Notifier notify.Notifier
	// SkipExternal disables the fetching-external stage of Run.
	SkipExternal bool
}

// Pipeline runs builds for one project. Runs must not overlap.
type Pipeline struct {
	model    *config.Model
	compiler compiler.Compiler
	errW     io.Writer
	opts     Options
}

// New creates a Pipeline. Diagnostics and the final error summary are
// written to errW.
func New(model *config.Model, c compiler.Compiler, errW io.Writer, opts Options) *Pipeline {
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	return &Pipeline{model: model, compiler: c, errW: errW, opts: opts}
}

// Run builds every source matching pattern. An empty pattern selects the
// project's default pattern.
func (p *Pipeline) Run(ctx context.Context, pattern string) (*Result, error) {
	if pattern == "" {
		pattern = p.model.DefaultPattern()
	}
	runID := uuid.NewString()
	ctx = ctxlog.WithAttrs(ctx, "run_id", runID)
	logger := ctxlog.FromContext(ctx)

	started := time.Now()
	res := &Result{RunID: runID, Pattern: pattern, Stage: StageIdle}
	err := p.run(ctx, res)

	p.notify(ctx, res, err, time.Since(started))
	if err != nil {
		logger.Error("Build failed.", "stage", res.Stage, "error", err)
		return nil, &StageError{Stage: res.Stage, Err: err}
	}

	if !res.Success() {
		fmt.Fprint(p.errW, res.ErrorText())
		logger.Info("Build finished with errors.", "errors", len(res.Errors), "warnings", len(res.Warnings))
		return res, nil
	}
	logger.Info("Build finished.", "contracts", len(res.Contracts), "warnings", len(res.Warnings), "duration", time.Since(started))
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, res *Result) error {
	logger := ctxlog.FromContext(ctx)

	res.Stage = StageCollecting
	sources, err := source.NewCollector(p.model.SourceDir, p.model.KeyMode).Collect(ctx, res.Pattern)
	if err != nil {
		return err
	}
	logger.Info("Compiling sources.", "pattern", res.Pattern, "files", len(sources))

	res.Stage = StageCompiling
	out, err := p.compiler.Compile(ctx, sources, resolver.New(p.model.SourceDir).Resolve)
	if err != nil {
		return err
	}
	for _, msg := range out.Messages {
		fmt.Fprint(p.errW, msg)
	}
	res.Warnings, res.Errors = compiler.Partition(out.Messages)

	writer := artifact.NewWriter(p.model.OutDir, p.model.OnCollision)
	if p.coversTree(res.Pattern) {
		res.Stage = StageResetting
		if err := writer.Reset(ctx); err != nil {
			return err
		}
		res.Reset = true
	}

	res.Stage = StageWritingResult
	logger.Debug("Writing artifacts.", "out_dir", writer.OutDir(), "contracts", len(out.Contracts))
	if err := writer.WriteResults(ctx, out.Raw, out.Messages); err != nil {
		return err
	}

	res.Stage = StageWritingUnits
	for _, name := range out.Names() {
		if err := writer.WriteContract(ctx, name, out.Contracts[name]); err != nil {
			return err
		}
		res.Contracts = append(res.Contracts, name)
	}

	if !p.opts.SkipExternal {
		res.Stage = StageFetching
		if err := p.fetcher(writer).Fetch(ctx, p.model.ExternalContracts); err != nil {
			return err
		}
	}

	res.Stage = StageFinalizing
	return nil
}

// FetchExternal downloads the configured external contracts into the output
// directory without compiling anything.
func (p *Pipeline) FetchExternal(ctx context.Context) error {
	writer := artifact.NewWriter(p.model.OutDir, p.model.OnCollision)
	if err := p.fetcher(writer).Fetch(ctx, p.model.ExternalContracts); err != nil {
		return &StageError{Stage: StageFetching, Err: err}
	}
	return nil
}

// coversTree reports whether pattern is the project's default pattern,
// ignoring how either side spells the path.
func (p *Pipeline) coversTree(pattern string) bool {
	want, err := filepath.Abs(p.model.DefaultPattern())
	if err != nil {
		return false
	}
	got, err := filepath.Abs(pattern)
	if err != nil {
		return false
	}
	return got == want
}

func (p *Pipeline) fetcher(w *artifact.Writer) *fetch.Fetcher {
	return fetch.New(nil, w, p.model.Fetch)
}

// notify reports the run. Delivery failures never fail the build.
func (p *Pipeline) notify(ctx context.Context, res *Result, runErr error, elapsed time.Duration) {
	ev := notify.Event{
		RunID:     res.RunID,
		Pattern:   res.Pattern,
		Success:   runErr == nil && res.Success(),
		Contracts: len(res.Contracts),
		Warnings:  len(res.Warnings),
		Errors:    len(res.Errors),
		Duration:  elapsed,
	}
	if runErr != nil {
		ev.Failure = runErr.Error()
	}
	if err := p.opts.Notifier.Notify(ctx, ev); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to deliver build notification.", "error", err)
	}
}

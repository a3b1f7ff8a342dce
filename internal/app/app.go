package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/specialistvlad/solforge/internal/compiler"
	"github.com/specialistvlad/solforge/internal/config"
	"github.com/specialistvlad/solforge/internal/ctxlog"
	"github.com/specialistvlad/solforge/internal/notify"
	"github.com/specialistvlad/solforge/internal/pipeline"
)

// ErrConfig marks failures caused by the user's configuration rather than
// by a build.
var ErrConfig = errors.New("configuration error")

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	errW       io.Writer
	logger     *slog.Logger
	config     *Config
	model      *config.Model
	notifier   notify.Notifier
	pipeline   *pipeline.Pipeline
	httpServer *http.Server
}

// NewApp loads the project and wires the pipeline. Logs and compiler
// diagnostics go to errW. A nil compiler selects solc as configured by the
// project.
func NewApp(ctx context.Context, errW io.Writer, cfg *Config, loader config.Loader, c compiler.Compiler) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: project file %s does not exist", ErrConfig, cfg.ConfigPath)
		}
	}

	model, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	applyOverrides(model, cfg)
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	logger.Debug("Project loaded.", "source_dir", model.SourceDir, "out_dir", model.OutDir, "solc", model.Compiler.Path)

	if c == nil {
		c = compiler.NewSolc(model.Compiler)
	}

	a := &App{
		ctx:      ctx,
		errW:     errW,
		logger:   logger,
		config:   cfg,
		model:    model,
		notifier: newNotifier(ctx, model.Notify),
	}
	a.pipeline = pipeline.New(model, c, errW, pipeline.Options{
		Notifier:     a.notifier,
		SkipExternal: cfg.SkipExternal,
	})
	return a, nil
}

// Model returns the loaded project model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// Close releases the notifier and the health check server.
func (a *App) Close() error {
	return errors.Join(a.closeHealthCheckServer(), a.notifier.Close())
}

func applyOverrides(m *config.Model, cfg *Config) {
	if cfg.SourceDir != "" {
		m.SourceDir = cfg.SourceDir
	}
	if cfg.OutDir != "" {
		m.OutDir = cfg.OutDir
	}
	if cfg.SolcPath != "" {
		m.Compiler.Path = cfg.SolcPath
	}
}

// newNotifier dials the configured endpoint. An unreachable endpoint only
// costs the notifications, never the build.
func newNotifier(ctx context.Context, settings *config.NotifySettings) notify.Notifier {
	if settings == nil {
		return notify.Nop{}
	}
	n, err := notify.DialSocketIO(ctx, *settings)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Build notifications disabled.", "url", settings.URL, "error", err)
		return notify.Nop{}
	}
	return n
}

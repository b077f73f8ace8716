package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/tilegrid/internal/config"
	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"github.com/specialistvlad/tilegrid/internal/registry"
	"github.com/specialistvlad/tilegrid/modules"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logW     io.Writer
	planW    io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
	loader   config.Loader
}

// NewApp is the constructor for the main application. Logs go to logW; a plan
// written to "-" goes to planW. Without explicit modules the core job kinds
// are registered.
func NewApp(logW, planW io.Writer, cfg *Config, loader config.Loader, mods ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(mods) == 0 {
		mods = modules.Core
	}
	for _, mod := range mods {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(mods), "kinds", reg.Names())

	return &App{
		logW:     logW,
		planW:    planW,
		logger:   logger,
		registry: reg,
		config:   cfg,
		loader:   loader,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

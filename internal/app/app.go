package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/specialistvlad/labprotocol/internal/codegen"
	"github.com/specialistvlad/labprotocol/internal/config"
	"github.com/specialistvlad/labprotocol/internal/ctxlog"
	"github.com/specialistvlad/labprotocol/internal/protocol"
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	loader    config.Loader
	generator *codegen.Generator
}

// NewApp is the constructor for the application. Results go to outW unless
// Config.OutputPath is set; logs go to logW.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:      outW,
		logger:    logger,
		config:    appConfig,
		loader:    loader,
		generator: codegen.New(appConfig.Codegen),
	}
}

// context attaches the application logger to ctx.
func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Compile loads the protocol sources named by Config.Inputs and writes the
// generated program.
func (a *App) Compile(ctx context.Context) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)
	if len(a.config.Inputs) == 0 {
		return fmt.Errorf("compile needs at least one protocol source")
	}

	p, err := a.loader.Load(ctx, a.config.Inputs...)
	if err != nil {
		return fmt.Errorf("failed to load protocol: %w", err)
	}
	logger.Info("Protocol loaded.", "name", p.Name, "labware", len(p.Labware), "steps", len(p.Steps))

	program, err := a.generator.Compile(p)
	if err != nil {
		return fmt.Errorf("failed to compile protocol: %w", err)
	}
	if err := a.writeOutput(ctx, []byte(program)); err != nil {
		return err
	}
	logger.Info("Program generated.", "bytes", len(program), "laser", p.HasLaser())
	return nil
}

// writeOutput stores data at Config.OutputPath or writes it to the output
// writer.
func (a *App) writeOutput(ctx context.Context, data []byte) error {
	logger := ctxlog.FromContext(ctx)
	path := a.config.OutputPath
	if path == "" {
		_, err := a.outW.Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Debug("Output written.", "path", path, "bytes", len(data))
	return nil
}

// readProgram returns the content of the single program file input.
func (a *App) readProgram() (string, error) {
	if len(a.config.Inputs) != 1 {
		return "", fmt.Errorf("expected exactly one program file, got %d", len(a.config.Inputs))
	}
	data, err := os.ReadFile(a.config.Inputs[0])
	if err != nil {
		return "", fmt.Errorf("failed to read program: %w", err)
	}
	return string(data), nil
}

// summary is the set of log attributes describing p.
func summary(p *protocol.Protocol) []any {
	return []any{"name", p.Name, "labware", len(p.Labware), "steps", len(p.Steps)}
}

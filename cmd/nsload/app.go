// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/nsload/nsload/internal/app/session"
	"github.com/nsload/nsload/internal/config"
	"github.com/nsload/nsload/internal/sourcefs"
	"github.com/nsload/nsload/pkg/types"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives an App and reaches configuration and sessions through it.
	App struct {
		Config     ConfigProvider
		filesystem sourcefs.Filesystem
		stdout     io.Writer
		stderr     io.Writer
		flags      rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     ConfigProvider
		Filesystem sourcefs.Filesystem
		Stdout     io.Writer
		Stderr     io.Writer
	}

	rootFlags struct {
		configFile string
		configDir  string
		logLevel   string
		verbose    bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Filesystem == nil {
		deps.Filesystem = sourcefs.New()
	}
	return &App{
		Config:     deps.Config,
		filesystem: deps.Filesystem,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.flags.configFile),
		ConfigDirPath:  types.FilesystemPath(a.flags.configDir),
	}
}

func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	return a.Config.Load(ctx, a.loadOptions())
}

// openSession loads the configuration and wires a resolver from it. Callers
// must Shutdown the session.
func (a *App) openSession(ctx context.Context) (*session.Session, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return session.New(ctx, cfg, session.Options{
		LogLevel:    a.flags.logLevel,
		Stderr:      a.stderr,
		TraceWriter: a.stderr,
		Filesystem:  a.filesystem,
	})
}

// withSession runs fn against a fresh session and flushes it afterwards.
func (a *App) withSession(ctx context.Context, fn func(*session.Session) error) error {
	s, err := a.openSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if shutdownErr := s.Shutdown(ctx); shutdownErr != nil {
			s.Logger.Warn("failed to flush spans", "error", shutdownErr)
		}
	}()
	err = fn(s)
	if a.flags.verbose {
		renderDiagnostics(a.stderr, s.Diagnostics())
	}
	return err
}

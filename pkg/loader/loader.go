// SPDX-License-Identifier: MPL-2.0

// Package loader guards the one-time loading of unit source files.
//
// A Loader owns the LoadRecord: the set of resolved paths that have been
// loaded during its lifetime. Each path is read, decoded and executed at most
// once; later requests for the same path are no-ops. A path that does not
// exist is not recorded, so it can still be loaded once it appears.
package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nsload/nsload/internal/logging"
	"github.com/nsload/nsload/internal/sourcefs"
	"github.com/nsload/nsload/internal/tracing"
	"github.com/nsload/nsload/pkg/lazy"
	"github.com/nsload/nsload/pkg/unit"
)

// ErrLoadFailed is the sentinel error wrapped by LoadError.
var ErrLoadFailed = errors.New("load failed")

// Load stages reported by LoadError.
const (
	StageRead    Stage = "read"
	StageDecode  Stage = "decode"
	StageExecute Stage = "execute"
)

type (
	// Stage names the step of a load that failed.
	Stage string

	// Executor runs the top-level definitions of a decoded unit, typically by
	// defining them into a host runtime.
	Executor func(ctx context.Context, u *unit.Unit) error

	// Loader reads, decodes and executes unit files at most once per path.
	Loader struct {
		fs      sourcefs.Filesystem
		decoder unit.Decoder
		exec    Executor
		records *lazy.Registry[*unit.Unit]
		logger  *log.Logger
		tracer  trace.Tracer
	}

	// Option configures a Loader.
	Option func(*Loader)

	// LoadError reports a file that exists but could not be loaded.
	LoadError struct {
		Name  string
		Path  string
		Stage Stage
		Err   error
	}
)

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s from %s: %s: %v", e.Name, e.Path, e.Stage, e.Err)
}

// Unwrap returns ErrLoadFailed and the underlying cause.
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoadFailed, e.Err}
}

// WithExecutor sets the function that runs decoded units.
func WithExecutor(exec Executor) Option {
	return func(l *Loader) { l.exec = exec }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithTracer sets the tracer. The default is a no-op tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(l *Loader) { l.tracer = tracer }
}

// New creates a Loader reading through fs and decoding with decoder.
func New(fs sourcefs.Filesystem, decoder unit.Decoder, opts ...Option) *Loader {
	l := &Loader{
		fs:      fs,
		decoder: decoder,
		exec:    func(context.Context, *unit.Unit) error { return nil },
		records: lazy.New[*unit.Unit](),
		logger:  logging.Discard(),
		tracer:  tracing.Noop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Decoder returns the codec used for every load.
func (l *Loader) Decoder() unit.Decoder {
	return l.decoder
}

// Filesystem returns the filesystem boundary.
func (l *Loader) Filesystem() sourcefs.Filesystem {
	return l.fs
}

// Exists reports whether path is present on the filesystem.
func (l *Loader) Exists(ctx context.Context, path string) (bool, error) {
	return l.fs.Exists(ctx, path)
}

// LoadOnce loads the unit at path on behalf of the identifier name.
//
// It reports true only for the call that performed the load. A missing path
// and a path already loaded both yield (false, nil). A failed load is
// memoized: the same *LoadError is returned to every later caller and the
// file is never read again.
func (l *Loader) LoadOnce(ctx context.Context, name, path string) (bool, error) {
	ctx, span := l.tracer.Start(ctx, "nsload.load", trace.WithAttributes(
		attribute.String(tracing.AttrIdentifier, name),
		attribute.String(tracing.AttrPath, path),
	))
	defer span.End()

	if !l.records.Registered(path) {
		ok, err := l.fs.Exists(ctx, path)
		if err != nil {
			loadErr := &LoadError{Name: name, Path: path, Stage: StageRead, Err: err}
			tracing.RecordError(span, loadErr)
			return false, loadErr
		}
		if !ok {
			l.logger.Debug("unit source not found", "name", name, "path", path)
			span.SetAttributes(attribute.Bool(tracing.AttrLoaded, false))
			return false, nil
		}
		l.records.Register(path, func(ctx context.Context) (*unit.Unit, error) {
			return l.load(ctx, name, path)
		})
	}

	_, ran, err := l.records.Force(ctx, path)
	span.SetAttributes(attribute.Bool(tracing.AttrLoaded, ran && err == nil))
	if err != nil {
		tracing.RecordError(span, err)
		return false, err
	}
	return ran, nil
}

func (l *Loader) load(ctx context.Context, name, path string) (*unit.Unit, error) {
	data, err := l.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, &LoadError{Name: name, Path: path, Stage: StageRead, Err: err}
	}

	u, err := l.decoder.Decode(name, path, data)
	if err != nil {
		l.logger.Warn("unit decode failed", "name", name, "path", path, "error", err)
		return nil, &LoadError{Name: name, Path: path, Stage: StageDecode, Err: err}
	}

	if err := l.exec(ctx, u); err != nil {
		l.logger.Warn("unit execution failed", "name", name, "path", path, "error", err)
		return nil, &LoadError{Name: name, Path: path, Stage: StageExecute, Err: err}
	}

	l.logger.Debug("unit loaded", "name", name, "path", path, "definitions", len(u.Definitions))
	return u, nil
}

// Loaded reports whether path has been loaded successfully.
func (l *Loader) Loaded(path string) bool {
	return l.records.Succeeded(path)
}

// Unit returns the unit loaded from path, if any.
func (l *Loader) Unit(path string) (*unit.Unit, bool) {
	if !l.records.Succeeded(path) {
		return nil, false
	}
	u, _, err := l.records.Force(context.Background(), path)
	if err != nil {
		return nil, false
	}
	return u, true
}

// Records returns the LoadRecord: every successfully loaded path, sorted.
func (l *Loader) Records() []string {
	keys := l.records.Keys()
	loaded := keys[:0]
	for _, k := range keys {
		if l.records.Succeeded(k) {
			loaded = append(loaded, k)
		}
	}
	return loaded
}

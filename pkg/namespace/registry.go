// SPDX-License-Identifier: MPL-2.0

// Package namespace maps namespace prefixes to base directories and resolves
// qualified identifiers to unit files on first reference.
//
// A Registry is built once at program entry and attached to a host runtime.
// Each valid registration installs a resolution hook; when the runtime misses
// an identifier under a bound prefix, the hook derives a file path from the
// identifier's segments and loads it through the shared loader. Identifiers
// outside every bound prefix never touch the filesystem.
//
// Invalid registrations (empty prefix or directory, or a directory that does
// not exist) are inert: Register returns NoOp, logs a warning and records a
// Diagnostic, but never fails.
package namespace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nsload/nsload/internal/logging"
	"github.com/nsload/nsload/internal/tracing"
	"github.com/nsload/nsload/pkg/fspath"
	"github.com/nsload/nsload/pkg/host"
	"github.com/nsload/nsload/pkg/loader"
	"github.com/nsload/nsload/pkg/pathbuild"
	"github.com/nsload/nsload/pkg/types"
)

// DefaultSeparator separates namespace segments in identifiers.
const DefaultSeparator = "."

type (
	// Registry owns namespace bindings. It is safe for concurrent use.
	Registry struct {
		separator string
		policy    Policy
		builder   *pathbuild.Builder
		loader    *loader.Loader
		logger    *log.Logger
		tracer    trace.Tracer

		mu          sync.RWMutex
		runtime     *host.Runtime
		bindings    []*Binding
		diagnostics []Diagnostic
	}

	// Option configures a Registry.
	Option func(*Registry)
)

// WithSeparator sets the namespace separator. Empty keeps DefaultSeparator.
func WithSeparator(sep string) Option {
	return func(r *Registry) {
		if sep != "" {
			r.separator = sep
		}
	}
}

// WithPolicy sets the overlap policy.
func WithPolicy(p Policy) Option {
	return func(r *Registry) { r.policy = p }
}

// WithBuilder shares a path builder, and with it the frozen delimiter.
func WithBuilder(b *pathbuild.Builder) Option {
	return func(r *Registry) { r.builder = b }
}

// WithRuntime attaches the host runtime at construction.
func WithRuntime(rt *host.Runtime) Option {
	return func(r *Registry) { r.runtime = rt }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithTracer sets the tracer. The default is a no-op tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Registry) { r.tracer = tracer }
}

// New creates a Registry that loads units through l.
func New(l *loader.Loader, opts ...Option) *Registry {
	r := &Registry{
		separator: DefaultSeparator,
		policy:    PolicyFirstRegistered,
		loader:    l,
		logger:    logging.Discard(),
		tracer:    tracing.Noop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.builder == nil {
		r.builder = pathbuild.New(l.Decoder().Extension())
	}
	return r
}

// Separator returns the namespace separator.
func (r *Registry) Separator() string { return r.separator }

// Policy returns the overlap policy.
func (r *Registry) Policy() Policy { return r.policy }

// Builder returns the shared path builder.
func (r *Registry) Builder() *pathbuild.Builder { return r.builder }

// Loader returns the shared loader and its LoadRecord.
func (r *Registry) Loader() *loader.Loader { return r.loader }

// Logger returns the registry logger.
func (r *Registry) Logger() *log.Logger { return r.logger }

// Tracer returns the registry tracer.
func (r *Registry) Tracer() trace.Tracer { return r.tracer }

// Attach installs hooks for every active binding into rt. Bindings
// registered later are hooked as they are added. Attaching a second runtime
// is an error.
func (r *Registry) Attach(rt *host.Runtime) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.runtime != nil && r.runtime != rt {
		return errors.New("namespace registry is already attached to a runtime")
	}
	r.runtime = rt
	for _, b := range r.bindings {
		r.hookLocked(b)
	}
	return nil
}

// Register binds prefix to the base directory dir.
//
// Inputs are trimmed and dir is resolved to an absolute path. If the prefix
// or directory is empty, or the directory does not exist, the registration
// is inert and NoOp is returned. The first active registration freezes the
// path delimiter.
func (r *Registry) Register(ctx context.Context, prefix, dir string, opts ...BindingOption) Handle {
	var cfg bindingConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	p := types.NamespacePrefix(prefix).Trimmed()
	d := types.FilesystemPath(dir).Trimmed()

	if err := p.Validate(r.separator); err != nil {
		r.inactive(string(p), string(d), "invalid prefix", err)
		return NoOp
	}
	if err := d.Validate(); err != nil {
		r.inactive(string(p), string(d), "invalid directory", err)
		return NoOp
	}

	abs, err := fspath.Abs(d)
	if err != nil {
		r.inactive(string(p), string(d), "directory cannot be resolved", err)
		return NoOp
	}
	isDir, err := r.loader.Filesystem().IsDir(ctx, abs.String())
	if err != nil {
		r.inactive(string(p), abs.String(), "directory does not exist", err)
		return NoOp
	}
	if !isDir {
		r.inactive(string(p), abs.String(), "not a directory", nil)
		return NoOp
	}

	b := &Binding{
		ID:     uuid.New(),
		Prefix: string(p),
	}
	if root := types.FilesystemPath(cfg.rootFile).Trimmed(); root != "" {
		rootAbs, err := fspath.Abs(root)
		if err != nil {
			r.inactive(string(p), root.String(), "root file cannot be resolved", err)
			return NoOp
		}
		b.RootFile = rootAbs.String()
	}

	r.builder.Probe(abs.String())
	b.Directory = r.builder.Join(abs.String())

	r.mu.Lock()
	r.bindings = append(r.bindings, b)
	r.hookLocked(b)
	r.mu.Unlock()

	r.logger.Debug("namespace bound", "prefix", b.Prefix, "dir", b.Directory, "id", b.ID)
	return Handle{binding: b}
}

// Bindings returns a snapshot of the active bindings in registration order.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, len(r.bindings))
	for i, b := range r.bindings {
		out[i] = *b
	}
	return out
}

// Diagnostics returns the diagnostics recorded so far.
func (r *Registry) Diagnostics() []Diagnostic {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Diagnostic(nil), r.diagnostics...)
}

// Report records d. It is used by component members sharing the registry.
func (r *Registry) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics = append(r.diagnostics, d)
}

func (r *Registry) inactive(prefix, dir, reason string, cause error) {
	r.logger.Warn("namespace binding inactive", "prefix", prefix, "dir", dir, "reason", reason)
	msg := fmt.Sprintf("binding %q -> %q ignored: %s", prefix, dir, reason)
	r.Report(Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeBindingInactive,
		Message:  msg,
		Prefix:   prefix,
		Path:     dir,
		Cause:    cause,
	})
}

// hookLocked installs the resolution hook for b. r.mu must be held.
func (r *Registry) hookLocked(b *Binding) {
	if r.runtime == nil || b.hooked {
		return
	}
	b.hooked = true
	r.runtime.RegisterResolutionHook(
		func(id string) bool {
			sel, ok := r.Claims(id)
			return ok && sel.ID == b.ID
		},
		func(ctx context.Context, id string) (bool, error) {
			res, err := r.resolveWith(ctx, b, id)
			return res.Loaded, err
		},
	)
}

func (r *Registry) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nsload/nsload/internal/config"
	"github.com/nsload/nsload/internal/issue"
	"github.com/nsload/nsload/internal/logging"
	"github.com/nsload/nsload/internal/sourcefs"
	"github.com/nsload/nsload/internal/tracing"
	"github.com/nsload/nsload/pkg/component"
	"github.com/nsload/nsload/pkg/fspath"
	"github.com/nsload/nsload/pkg/host"
	"github.com/nsload/nsload/pkg/loader"
	"github.com/nsload/nsload/pkg/namespace"
	"github.com/nsload/nsload/pkg/types"
	"github.com/nsload/nsload/pkg/unit"
)

// ErrUnknownMember is returned by Include for a member the configuration
// does not declare.
var ErrUnknownMember = errors.New("unknown member")

type (
	// Options carries the process-level inputs a Config does not hold.
	Options struct {
		// LogLevel overrides Config.Log.Level when non-empty.
		LogLevel string
		// Stderr receives log output. Defaults to os.Stderr.
		Stderr io.Writer
		// TraceWriter receives stdout-exporter spans. Defaults to os.Stderr.
		TraceWriter io.Writer
		// Filesystem replaces the afs-backed source filesystem.
		Filesystem sourcefs.Filesystem
	}

	// Session is a fully wired resolver.
	Session struct {
		Config   *config.Config
		Logger   *log.Logger
		Runtime  *host.Runtime
		Loader   *loader.Loader
		Registry *namespace.Registry
		Members  *component.Set
		// Handles holds one handle per configured namespace, in order.
		// Inert registrations hold namespace.NoOp.
		Handles []namespace.Handle

		tracing *tracing.Provider
	}
)

// New builds a Session from cfg. Namespace entries that cannot be bound are
// recorded as diagnostics; members that cannot be created are errors.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Session, error) {
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.TraceWriter == nil {
		opts.TraceWriter = os.Stderr
	}
	if opts.Filesystem == nil {
		opts.Filesystem = sourcefs.New()
	}

	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, err := logging.New(logging.Options{
		Level:  level,
		Format: cfg.Log.Format,
		Prefix: config.AppName,
		Writer: opts.Stderr,
	})
	if err != nil {
		return nil, err
	}

	decoder, err := unit.ForExtension(cfg.Extension)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("select source codec").
			WithResource(cfg.Extension).
			WithSuggestions(`Set "extension" to ".cue", ".toml" or ".hcl"`).
			WithIssue(issue.UnsupportedExtensionId).
			Wrap(err).
			BuildError()
	}
	policy, err := namespace.ParsePolicy(cfg.PrefixPolicy)
	if err != nil {
		return nil, err
	}

	tp, err := tracing.NewProvider(tracing.Config{
		Enabled:  cfg.Tracing.Enabled,
		Exporter: cfg.Tracing.Exporter,
		Writer:   opts.TraceWriter,
	})
	if err != nil {
		return nil, err
	}

	rt := host.NewRuntime()
	l := loader.New(opts.Filesystem, decoder,
		loader.WithExecutor(rt.Execute),
		loader.WithLogger(logger),
		loader.WithTracer(tp.Tracer()),
	)
	reg := namespace.New(l,
		namespace.WithSeparator(cfg.Separator),
		namespace.WithPolicy(policy),
		namespace.WithRuntime(rt),
		namespace.WithLogger(logger),
		namespace.WithTracer(tp.Tracer()),
	)

	s := &Session{
		Config:   cfg,
		Logger:   logger,
		Runtime:  rt,
		Loader:   l,
		Registry: reg,
		Members:  component.NewSet(),
		tracing:  tp,
	}

	base := types.FilesystemPath(cfg.BaseDir)
	for _, n := range cfg.Namespaces {
		s.Handles = append(s.Handles, s.bind(ctx, base, n))
	}

	for _, m := range cfg.Members {
		dir, err := fspath.Resolve(base, types.FilesystemPath(m.Dir))
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", m.Name, err)
		}
		member, err := component.NewMember(reg, m.Name, dir.String(), component.WithSubdir(m.Subdir))
		if err != nil {
			return nil, err
		}
		if err := s.Members.Add(member); err != nil {
			return nil, err
		}
	}

	logger.Debug("session ready", "namespaces", len(reg.Bindings()), "members", len(s.Members.Names()))
	return s, nil
}

// bind registers one namespace entry. Blank directories and root files are
// passed through untouched so the registry can reject them itself.
func (s *Session) bind(ctx context.Context, base types.FilesystemPath, n config.NamespaceEntry) namespace.Handle {
	dir := n.Dir
	if strings.TrimSpace(dir) != "" {
		if abs, err := fspath.Resolve(base, types.FilesystemPath(dir)); err == nil {
			dir = abs.String()
		}
	}

	var opts []namespace.BindingOption
	if strings.TrimSpace(n.Root) != "" {
		if abs, err := fspath.Resolve(base, types.FilesystemPath(n.Root)); err == nil {
			opts = append(opts, namespace.WithRootFile(abs.String()))
		}
	}
	return s.Registry.Register(ctx, n.Prefix, dir, opts...)
}

// Resolve runs namespace resolution for id without consulting the host's
// symbol table first.
func (s *Session) Resolve(ctx context.Context, id string) (namespace.Resolution, error) {
	return s.Registry.Resolve(ctx, id)
}

// Lookup asks the host for id, triggering lazy resolution on a miss.
func (s *Session) Lookup(ctx context.Context, id string) (*unit.Unit, error) {
	return s.Runtime.Lookup(ctx, strings.TrimSpace(id))
}

// Include loads components of a configured member.
func (s *Session) Include(ctx context.Context, member string, components ...string) error {
	m, ok := s.Members.Get(strings.TrimSpace(member))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMember, member)
	}
	return m.Include(ctx, components...)
}

// Diagnostics returns everything the registry chose not to report as an error.
func (s *Session) Diagnostics() []namespace.Diagnostic {
	return s.Registry.Diagnostics()
}

// Shutdown flushes pending spans.
func (s *Session) Shutdown(ctx context.Context) error {
	return s.tracing.Shutdown(ctx)
}

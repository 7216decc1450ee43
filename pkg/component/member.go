// SPDX-License-Identifier: MPL-2.0

// Package component lets a member unit eagerly include named sub-units from
// its own component directory.
//
// A member registers itself explicitly with its qualified name and the
// directory its source lives in. Its component directory is that directory
// joined with a subdirectory, by default the member's short name:
//
//	lib/
//	    Foo.cue          member "Foo", dir "lib"
//	    Foo/
//	        Bar.cue      Include(ctx, "Bar")
//
// Includes share the registry's loader, so a component is never executed
// twice, whether it was included or lazily resolved first.
package component

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nsload/nsload/internal/tracing"
	"github.com/nsload/nsload/pkg/fspath"
	"github.com/nsload/nsload/pkg/identity"
	"github.com/nsload/nsload/pkg/namespace"
	"github.com/nsload/nsload/pkg/types"
)

type (
	// Member is a unit that owns a component directory.
	Member struct {
		name   string
		dir    string
		subdir string
		reg    *namespace.Registry
	}

	// MemberOption configures a Member.
	MemberOption func(*Member)
)

// WithSubdir overrides the component subdirectory, which defaults to the
// member's short name.
func WithSubdir(subdir string) MemberOption {
	return func(m *Member) {
		if s := strings.TrimSpace(subdir); s != "" {
			m.subdir = s
		}
	}
}

// NewMember creates a member named name whose source lives in dir. Relative
// directories are resolved against the working directory. The directory
// participates in the registry's one-time delimiter probe.
func NewMember(reg *namespace.Registry, name, dir string, opts ...MemberOption) (*Member, error) {
	qn := types.QualifiedName(strings.TrimSpace(name))
	if err := qn.Validate(); err != nil {
		return nil, err
	}
	d := types.FilesystemPath(dir)
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("member %s: %w", qn, err)
	}
	abs, err := fspath.Abs(d)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", qn, err)
	}

	m := &Member{
		name:   qn.String(),
		dir:    abs.String(),
		subdir: identity.ShortName(qn.String(), reg.Separator()),
		reg:    reg,
	}
	for _, opt := range opts {
		opt(m)
	}
	reg.Builder().Probe(m.dir)
	return m, nil
}

// Name returns the qualified member name.
func (m *Member) Name() string { return m.name }

// Dir returns the absolute directory the member registered.
func (m *Member) Dir() string { return m.dir }

// Subdir returns the component subdirectory name.
func (m *Member) Subdir() string { return m.subdir }

// ID returns the member's derived identifier, e.g. "foo.bar-baz".
func (m *Member) ID() string {
	return identity.DeriveIDWith(m.name, m.reg.Separator())
}

// ShortName returns the last segment of the member name.
func (m *Member) ShortName() string {
	return identity.ShortName(m.name, m.reg.Separator())
}

// ComponentDirectory returns the directory components are included from,
// with a trailing delimiter.
func (m *Member) ComponentDirectory() string {
	return m.reg.Builder().Join(m.dir, m.subdir)
}

// ComponentPath returns the file a component name maps to.
func (m *Member) ComponentPath(component string) string {
	b := m.reg.Builder()
	return m.ComponentDirectory() + b.Join(component+b.Extension())
}

// Include loads each named component in order. Components already loaded,
// by an earlier Include or by lazy resolution, are skipped; components whose
// file does not exist are skipped with a diagnostic. The first load failure
// stops the sequence and is returned.
func (m *Member) Include(ctx context.Context, components ...string) error {
	ctx, span := m.reg.Tracer().Start(ctx, "nsload.include", trace.WithAttributes(
		attribute.String(tracing.AttrMember, m.name),
		attribute.StringSlice("nsload.components", components),
	))
	defer span.End()

	for _, c := range components {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if err := m.include(ctx, c); err != nil {
			tracing.RecordError(span, err)
			return err
		}
	}
	return nil
}

func (m *Member) include(ctx context.Context, component string) error {
	path := m.ComponentPath(component)
	name := m.name + m.reg.Separator() + component
	l := m.reg.Loader()

	loaded, err := l.LoadOnce(ctx, name, path)
	if err != nil {
		return fmt.Errorf("include %s in %s: %w", component, m.name, err)
	}
	if loaded || l.Loaded(path) {
		return nil
	}

	m.reg.Logger().Debug("component not found", "member", m.name, "component", component, "path", path)
	m.reg.Report(namespace.Diagnostic{
		Severity: namespace.SeverityInfo,
		Code:     namespace.CodeComponentNotFound,
		Message:  fmt.Sprintf("component %q of %s not found", component, m.name),
		Path:     path,
	})
	return nil
}

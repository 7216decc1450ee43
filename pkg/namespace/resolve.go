// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/nsload/nsload/internal/tracing"
)

// Resolution describes the outcome of resolving one identifier.
type Resolution struct {
	ID string
	// Bound is false when no binding claims ID; nothing else is set then.
	Bound   bool
	Binding Binding
	// Path is the candidate file, empty for a bare prefix without root file.
	Path string
	// Found reports whether Path exists and has been loaded, now or earlier.
	Found bool
	// Loaded is true only for the call that performed the load.
	Loaded bool
}

// Claims returns the binding selected for id under the registry's policy.
// It never touches the filesystem.
func (r *Registry) Claims(id string) (Binding, bool) {
	b := r.selected(id)
	if b == nil {
		return Binding{}, false
	}
	return *b, true
}

// Candidate returns the file path id would be loaded from, without checking
// that it exists.
func (r *Registry) Candidate(id string) (string, Binding, bool) {
	b := r.selected(id)
	if b == nil {
		return "", Binding{}, false
	}
	path, ok := r.candidate(b, id)
	return path, *b, ok
}

// Resolve loads the unit for id through its selected binding, exactly as the
// runtime hook would. Unbound identifiers return a zero Resolution and no
// error. Missing files are not errors; a file that exists but fails to load
// returns the loader's *loader.LoadError.
func (r *Registry) Resolve(ctx context.Context, id string) (Resolution, error) {
	b := r.selected(id)
	if b == nil {
		return Resolution{ID: id}, nil
	}
	return r.resolveWith(ctx, b, id)
}

func (r *Registry) resolveWith(ctx context.Context, b *Binding, id string) (Resolution, error) {
	ctx, span := r.startSpan(ctx, "nsload.resolve",
		attribute.String(tracing.AttrIdentifier, id),
		attribute.String(tracing.AttrPrefix, b.Prefix),
		attribute.String(tracing.AttrBindingID, b.ID.String()),
	)
	defer span.End()

	res := Resolution{ID: id, Bound: true, Binding: *b}

	path, ok := r.candidate(b, id)
	if !ok {
		r.logger.Debug("bare prefix has no root file", "prefix", b.Prefix)
		return res, nil
	}
	res.Path = path
	span.SetAttributes(attribute.String(tracing.AttrPath, path))

	loaded, err := r.loader.LoadOnce(ctx, id, path)
	if err != nil {
		tracing.RecordError(span, err)
		r.Report(Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeLoadFailed,
			Message:  fmt.Sprintf("loading %q failed", id),
			Prefix:   b.Prefix,
			Path:     path,
			Cause:    err,
		})
		return res, err
	}

	res.Loaded = loaded
	res.Found = loaded || r.loader.Loaded(path)
	span.SetAttributes(attribute.Bool(tracing.AttrLoaded, loaded))

	if !res.Found {
		code := CodeUnitNotFound
		if id == b.Prefix {
			code = CodeRootNotFound
		}
		r.logger.Debug("unit source not found", "id", id, "path", path)
		r.Report(Diagnostic{
			Severity: SeverityInfo,
			Code:     code,
			Message:  fmt.Sprintf("no source file for %q", id),
			Prefix:   b.Prefix,
			Path:     path,
		})
	}
	return res, nil
}

// candidate maps id to a file path under b. The bare prefix maps to the root
// file; it reports false when there is none.
func (r *Registry) candidate(b *Binding, id string) (string, bool) {
	if id == b.Prefix {
		return b.RootFile, b.RootFile != ""
	}
	fragments := strings.Split(b.relative(id, r.separator), r.separator)
	fragments[len(fragments)-1] += r.builder.Extension()
	return b.Directory + r.builder.Join(fragments...), true
}

func (r *Registry) selected(id string) *Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Binding
	for _, b := range r.bindings {
		if !b.Matches(id, r.separator) {
			continue
		}
		if r.policy != PolicyLongestPrefix {
			return b
		}
		if best == nil || len(b.Prefix) > len(best.Prefix) {
			best = b
		}
	}
	return best
}

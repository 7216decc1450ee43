// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// PolicyFirstRegistered consults the earliest registered binding whose
	// prefix matches.
	PolicyFirstRegistered Policy = "first-registered"
	// PolicyLongestPrefix consults the matching binding with the longest
	// prefix; ties go to the earliest registration.
	PolicyLongestPrefix Policy = "longest-prefix"
)

// NoOp is the inert handle returned for rejected registrations.
var NoOp = Handle{}

type (
	// Policy selects one binding when several prefixes match an identifier.
	Policy string

	// Binding maps a namespace prefix to a base directory.
	Binding struct {
		ID uuid.UUID
		// Prefix is the trimmed namespace prefix.
		Prefix string
		// Directory is the absolute base directory with a trailing delimiter.
		Directory string
		// RootFile is loaded for the bare prefix itself. Optional.
		RootFile string

		hooked bool
	}

	// Handle is returned by Register. The zero value is NoOp.
	Handle struct {
		binding *Binding
	}

	// BindingOption configures a single registration.
	BindingOption func(*bindingConfig)

	bindingConfig struct {
		rootFile string
	}
)

// ParsePolicy converts a configuration string to a Policy. The empty string
// selects PolicyFirstRegistered.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.TrimSpace(strings.ToLower(s))); p {
	case "", PolicyFirstRegistered:
		return PolicyFirstRegistered, nil
	case PolicyLongestPrefix:
		return p, nil
	default:
		return "", fmt.Errorf("unknown prefix policy %q (expected %s or %s)", s, PolicyFirstRegistered, PolicyLongestPrefix)
	}
}

// String returns the policy name.
func (p Policy) String() string { return string(p) }

// WithRootFile sets the file loaded when the bare prefix itself is looked up.
func WithRootFile(path string) BindingOption {
	return func(c *bindingConfig) { c.rootFile = path }
}

// Active reports whether the registration installed a binding.
func (h Handle) Active() bool {
	return h.binding != nil
}

// ID returns the binding ID, or uuid.Nil for NoOp.
func (h Handle) ID() uuid.UUID {
	if h.binding == nil {
		return uuid.Nil
	}
	return h.binding.ID
}

// Binding returns a copy of the installed binding.
func (h Handle) Binding() (Binding, bool) {
	if h.binding == nil {
		return Binding{}, false
	}
	return *h.binding, true
}

// Matches reports whether id falls under the binding's prefix at a
// namespace-segment boundary.
func (b *Binding) Matches(id, separator string) bool {
	if !strings.HasPrefix(id, b.Prefix) {
		return false
	}
	rest := id[len(b.Prefix):]
	return rest == "" || strings.HasPrefix(rest, separator)
}

// relative strips the prefix and one separator from id.
func (b *Binding) relative(id, separator string) string {
	return strings.TrimPrefix(id[len(b.Prefix):], separator)
}

// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidNamespacePrefix is the sentinel error wrapped by InvalidNamespacePrefixError.
	ErrInvalidNamespacePrefix = errors.New("invalid namespace prefix")
	// ErrInvalidQualifiedName is the sentinel error wrapped by InvalidQualifiedNameError.
	ErrInvalidQualifiedName = errors.New("invalid qualified name")
)

type (
	// NamespacePrefix is the leading namespace a binding is responsible for,
	// e.g. "Foo" or "Acme.Billing".
	NamespacePrefix string

	// QualifiedName is a fully qualified unit identifier, e.g. "Foo.Bar.Baz".
	QualifiedName string

	// InvalidNamespacePrefixError reports a prefix that is empty after
	// trimming or that starts or ends with the namespace separator.
	InvalidNamespacePrefixError struct {
		Value  NamespacePrefix
		Reason string
	}

	// InvalidQualifiedNameError reports an empty qualified name.
	InvalidQualifiedNameError struct {
		Value QualifiedName
	}
)

// String returns the prefix unchanged.
func (p NamespacePrefix) String() string { return string(p) }

// Trimmed returns the prefix without surrounding whitespace.
func (p NamespacePrefix) Trimmed() NamespacePrefix {
	return NamespacePrefix(strings.TrimSpace(string(p)))
}

// Validate checks the trimmed prefix against separator.
func (p NamespacePrefix) Validate(separator string) error {
	t := string(p.Trimmed())
	switch {
	case t == "":
		return &InvalidNamespacePrefixError{Value: p, Reason: "must be non-empty"}
	case separator != "" && strings.HasPrefix(t, separator):
		return &InvalidNamespacePrefixError{Value: p, Reason: fmt.Sprintf("must not start with %q", separator)}
	case separator != "" && strings.HasSuffix(t, separator):
		return &InvalidNamespacePrefixError{Value: p, Reason: fmt.Sprintf("must not end with %q", separator)}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidNamespacePrefixError) Error() string {
	return fmt.Sprintf("invalid namespace prefix %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidNamespacePrefix for errors.Is() compatibility.
func (e *InvalidNamespacePrefixError) Unwrap() error { return ErrInvalidNamespacePrefix }

// String returns the name unchanged.
func (n QualifiedName) String() string { return string(n) }

// Validate rejects empty and whitespace-only names.
func (n QualifiedName) Validate() error {
	if strings.TrimSpace(string(n)) == "" {
		return &InvalidQualifiedNameError{Value: n}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidQualifiedNameError) Error() string {
	return fmt.Sprintf("invalid qualified name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidQualifiedName for errors.Is() compatibility.
func (e *InvalidQualifiedNameError) Unwrap() error { return ErrInvalidQualifiedName }

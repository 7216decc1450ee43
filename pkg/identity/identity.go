// SPDX-License-Identifier: MPL-2.0

// Package identity derives stable string IDs from qualified member names.
//
// IDs are dotted, lower-kebab strings suitable as registry keys and event
// names: Foo\BarBaz becomes foo.bar-baz.
package identity

import (
	"regexp"
	"strings"
)

// NamespaceSeparator is the hierarchical delimiter of fully qualified names
// understood by DeriveID.
const NamespaceSeparator = `\`

// camelBoundary matches a lowercase letter immediately followed by an
// uppercase one. Matches cannot overlap: each ends on an uppercase letter and
// the next must start on a lowercase one.
var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// DeriveID converts a backslash-qualified name into its dotted lower-kebab ID.
//
//	DeriveID(`Foo\BarBaz`) == "foo.bar-baz"
func DeriveID(qualifiedName string) string {
	return DeriveIDWith(qualifiedName, NamespaceSeparator)
}

// DeriveIDWith is DeriveID for names whose segments are joined by separator.
// Backslashes are always treated as separators as well.
func DeriveIDWith(qualifiedName, separator string) string {
	id := qualifiedName
	if separator != "" && separator != "." {
		id = strings.ReplaceAll(id, separator, ".")
	}
	id = strings.ReplaceAll(id, NamespaceSeparator, ".")
	id = camelBoundary.ReplaceAllString(id, "${1}-${2}")
	return strings.ToLower(id)
}

// ShortName returns the last segment of a qualified name.
func ShortName(qualifiedName, separator string) string {
	if separator == "" {
		return qualifiedName
	}
	if i := strings.LastIndex(qualifiedName, separator); i >= 0 {
		return qualifiedName[i+len(separator):]
	}
	return qualifiedName
}

// Segments splits a qualified name on separator. An empty name has no segments.
func Segments(qualifiedName, separator string) []string {
	if qualifiedName == "" {
		return nil
	}
	if separator == "" {
		return []string{qualifiedName}
	}
	return strings.Split(qualifiedName, separator)
}

// SPDX-License-Identifier: MPL-2.0

package namespace

const (
	// SeverityWarning indicates a registration or resolution that was
	// silently skipped.
	SeverityWarning Severity = "warning"
	// SeverityInfo indicates an expected miss, such as a unit file that does
	// not exist.
	SeverityInfo Severity = "info"
)

// Diagnostic codes.
const (
	CodeBindingInactive   = "binding_inactive"
	CodeUnitNotFound      = "unit_not_found"
	CodeRootNotFound      = "root_not_found"
	CodeComponentNotFound = "component_not_found"
	CodeLoadFailed        = "load_failed"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic records a non-fatal event the registry chose not to turn
	// into an error. Diagnostics are collected on the Registry so callers can
	// render them without parsing logs.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier (e.g. "binding_inactive").
		Code    string
		Message string
		// Prefix is the namespace prefix involved, if any.
		Prefix string
		// Path is the file or directory involved, if any.
		Path  string
		Cause error
	}
)

// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath is a base directory, root file or unit source path as
	// supplied by a caller. Surrounding whitespace is not significant.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath is empty
	// after trimming.
	InvalidFilesystemPathError struct {
		Value FilesystemPath
	}
)

// String returns the path unchanged.
func (p FilesystemPath) String() string { return string(p) }

// Trimmed returns the path without surrounding whitespace.
func (p FilesystemPath) Trimmed() FilesystemPath {
	return FilesystemPath(strings.TrimSpace(string(p)))
}

// Validate rejects empty and whitespace-only paths.
func (p FilesystemPath) Validate() error {
	if p.Trimmed() == "" {
		return &InvalidFilesystemPathError{Value: p}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }

// SPDX-License-Identifier: MPL-2.0

// Package fspath wraps the path/filepath functions the resolver needs so they
// accept and return types.FilesystemPath.
package fspath

import (
	"fmt"
	"path/filepath"

	"github.com/nsload/nsload/pkg/types"
)

// JoinStr joins a typed base path with raw segments.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir returns the parent directory of p.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Abs trims p and resolves it against the working directory.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p.Trimmed()))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// IsAbs reports whether p is absolute.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

// Resolve makes p absolute, interpreting relative paths against base rather
// than the working directory. An empty base falls back to Abs.
func Resolve(base, p types.FilesystemPath) (types.FilesystemPath, error) {
	p = p.Trimmed()
	if IsAbs(p) || base == "" {
		return Abs(p)
	}
	return Abs(JoinStr(base, string(p)))
}

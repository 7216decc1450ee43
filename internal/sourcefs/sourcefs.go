// SPDX-License-Identifier: MPL-2.0

// Package sourcefs is the read-only filesystem boundary used to probe and read
// unit source files.
package sourcefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// ErrNotExist is returned by ReadFile and IsDir when the path is absent.
var ErrNotExist = errors.New("path does not exist")

type (
	// Filesystem answers the three questions resolution needs.
	Filesystem interface {
		Exists(ctx context.Context, path string) (bool, error)
		IsDir(ctx context.Context, path string) (bool, error)
		ReadFile(ctx context.Context, path string) ([]byte, error)
	}

	// AFS is a Filesystem backed by github.com/viant/afs. Plain local paths
	// and afs URLs (file://, mem://) are both accepted.
	AFS struct {
		fs      afs.Service
		options []storage.Option
	}
)

// New creates an afs-backed Filesystem.
func New(options ...storage.Option) *AFS {
	return &AFS{fs: afs.New(), options: options}
}

// Exists reports whether path names an existing file or directory.
func (a *AFS) Exists(ctx context.Context, path string) (bool, error) {
	ok, err := a.fs.Exists(ctx, path, a.options...)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return ok, nil
}

// IsDir reports whether path is an existing directory.
func (a *AFS) IsDir(ctx context.Context, path string) (bool, error) {
	ok, err := a.Exists(ctx, path)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotExist, path)
	}
	obj, err := a.fs.Object(ctx, path, a.options...)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return obj.IsDir(), nil
}

// ReadFile returns the full content of the file at path.
func (a *AFS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	ok, err := a.Exists(ctx, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
	}
	data, err := a.fs.DownloadWithURL(ctx, path, a.options...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

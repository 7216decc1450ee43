// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/nsload/nsload/internal/sourcefs"
)

// MustChdir changes the current working directory to dir.
// It returns a cleanup function that restores the original directory.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	return func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Errorf("failed to restore directory to %s: %v", originalWd, err)
		}
	}
}

// MustMkdirAll creates a directory along with any necessary parents.
func MustMkdirAll(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// WriteTree writes files (slash-separated paths relative to root) and returns
// root. Directories implied by the paths are created.
//
//	root := testutil.WriteTree(t, t.TempDir(), map[string]string{
//		"Foo/Bar.cue": `greeting: "hi"`,
//	})
func WriteTree(t testing.TB, root string, files map[string]string) string {
	t.Helper()
	for rel, content := range files {
		MustWriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
	}
	return root
}

// CountingFS wraps a sourcefs.Filesystem and records every path it is asked
// about.
type CountingFS struct {
	sourcefs.Filesystem

	mu    sync.Mutex
	calls []string
	reads map[string]int
}

// NewCountingFS wraps fs. A nil fs wraps sourcefs.New().
func NewCountingFS(fs sourcefs.Filesystem) *CountingFS {
	if fs == nil {
		fs = sourcefs.New()
	}
	return &CountingFS{Filesystem: fs, reads: make(map[string]int)}
}

// Exists implements sourcefs.Filesystem.
func (c *CountingFS) Exists(ctx context.Context, path string) (bool, error) {
	c.record(path)
	return c.Filesystem.Exists(ctx, path)
}

// IsDir implements sourcefs.Filesystem.
func (c *CountingFS) IsDir(ctx context.Context, path string) (bool, error) {
	c.record(path)
	return c.Filesystem.IsDir(ctx, path)
}

// ReadFile implements sourcefs.Filesystem.
func (c *CountingFS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	c.record(path)
	c.mu.Lock()
	c.reads[path]++
	c.mu.Unlock()
	return c.Filesystem.ReadFile(ctx, path)
}

// Calls returns every path touched, in call order.
func (c *CountingFS) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// Reads returns how many times path was read.
func (c *CountingFS) Reads(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads[path]
}

// Reset forgets all recorded calls.
func (c *CountingFS) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
	c.reads = make(map[string]int)
}

func (c *CountingFS) record(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, path)
}

// SPDX-License-Identifier: MPL-2.0

// Package pathbuild joins path fragments with a single, frozen delimiter.
//
// The delimiter is chosen once per Builder from the first directory handed to
// Probe: a directory string containing a forward slash selects "/", anything
// else selects "\". Once chosen it never changes, so every path produced by a
// Builder uses the same convention even if later directories were written in
// the other style.
//
// Joined paths are either file-shaped (they end with the recognized source
// extension and are returned as-is) or directory-shaped (a trailing delimiter
// is appended).
package pathbuild

import (
	"path/filepath"
	"strings"
	"sync"
)

const (
	// Slash is the forward-slash delimiter used by Unix-style directories.
	Slash Delimiter = "/"
	// Backslash is the delimiter used by Windows-style directories.
	Backslash Delimiter = `\`
)

type (
	// Delimiter is the directory separator a Builder joins fragments with.
	Delimiter string

	// Builder constructs directory and file paths from ordered fragments.
	// The zero value is not usable; create instances with New.
	Builder struct {
		ext string

		mu        sync.Mutex
		delimiter Delimiter
		frozen    bool
	}
)

// String returns the delimiter as a plain string.
func (d Delimiter) String() string { return string(d) }

// DetectDelimiter reports the delimiter convention used by dir.
func DetectDelimiter(dir string) Delimiter {
	if strings.Contains(dir, "/") {
		return Slash
	}
	return Backslash
}

// New creates a Builder that treats paths ending in ext as files.
func New(ext string) *Builder {
	return &Builder{ext: ext}
}

// Extension returns the recognized source-file extension.
func (b *Builder) Extension() string {
	return b.ext
}

// Probe freezes the delimiter from dir if no delimiter was chosen yet.
// It reports the delimiter in effect after the call.
func (b *Builder) Probe(dir string) Delimiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.frozen {
		b.delimiter = DetectDelimiter(dir)
		b.frozen = true
	}
	return b.delimiter
}

// Delimiter returns the frozen delimiter. A Builder that was never probed
// freezes to the host OS separator on first use.
func (b *Builder) Delimiter() Delimiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.delimiterLocked()
}

// Frozen reports whether a delimiter has already been chosen.
func (b *Builder) Frozen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.frozen
}

// Join concatenates fragments with the frozen delimiter. Results that do not
// end with the source extension get exactly one trailing delimiter appended.
func (b *Builder) Join(fragments ...string) string {
	d := b.Delimiter()

	path := strings.Join(fragments, string(d))
	if b.IsFile(path) {
		return path
	}
	return path + string(d)
}

// IsFile reports whether path is file-shaped, i.e. ends in the source extension.
func (b *Builder) IsFile(path string) bool {
	return b.ext != "" && strings.HasSuffix(path, b.ext)
}

func (b *Builder) delimiterLocked() Delimiter {
	if !b.frozen {
		b.delimiter = Delimiter(filepath.Separator)
		b.frozen = true
	}
	return b.delimiter
}

// SPDX-License-Identifier: MPL-2.0

// Package unit defines the in-memory form of a loaded source file and the
// codecs that decode source files into it.
//
// A Unit is what "executing" a source file produces: the ordered list of its
// top-level definitions, tagged with the qualified name that caused the load
// and the path it was read from.
package unit

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

const (
	// ExtCUE is the extension of CUE source files, the default format.
	ExtCUE = ".cue"
	// ExtTOML is the extension of TOML source files.
	ExtTOML = ".toml"
	// ExtHCL is the extension of HCL source files.
	ExtHCL = ".hcl"
)

// ErrUnsupportedExtension is returned by ForExtension for unknown extensions.
var ErrUnsupportedExtension = errors.New("unsupported source extension")

type (
	// Unit is a decoded source file.
	Unit struct {
		// Name is the qualified identifier the unit was loaded for.
		Name string
		// Path is the resolved file the unit was read from.
		Path string
		// Definitions are the file's top-level definitions in a stable order.
		Definitions []Definition
	}

	// Definition is a single top-level name/value pair of a unit.
	Definition struct {
		Name  string
		Value any
	}

	// Decoder turns source bytes into a Unit.
	Decoder interface {
		// Extension returns the source extension the decoder handles, with
		// the leading dot.
		Extension() string
		// Decode parses data read from path into a unit named name.
		Decode(name, path string, data []byte) (*Unit, error)
	}
)

// Lookup returns the value of the top-level definition called name.
func (u *Unit) Lookup(name string) (any, bool) {
	i := slices.IndexFunc(u.Definitions, func(d Definition) bool { return d.Name == name })
	if i < 0 {
		return nil, false
	}
	return u.Definitions[i].Value, true
}

// Names returns the definition names in unit order.
func (u *Unit) Names() []string {
	names := make([]string, len(u.Definitions))
	for i, d := range u.Definitions {
		names[i] = d.Name
	}
	return names
}

// Decoders returns the built-in codecs.
func Decoders() []Decoder {
	return []Decoder{CUE{}, TOML{}, HCL{}}
}

// ForExtension picks the built-in codec for ext. The leading dot is optional
// and matching is case-insensitive.
func ForExtension(ext string) (Decoder, error) {
	norm := NormalizeExtension(ext)
	for _, d := range Decoders() {
		if d.Extension() == norm {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
}

// NormalizeExtension lowercases ext and ensures it starts with a dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// SPDX-License-Identifier: MPL-2.0

package unit

import (
	"github.com/nsload/nsload/pkg/cueutil"
)

// CUE decodes .cue files. Every regular top-level field becomes a definition,
// in source order; CUE definitions (#Name) and hidden fields are skipped.
type CUE struct {
	// MaxFileSize overrides cueutil.DefaultMaxFileSize when positive.
	MaxFileSize int64
}

// Extension implements Decoder.
func (CUE) Extension() string { return ExtCUE }

// Decode implements Decoder.
func (c CUE) Decode(name, path string, data []byte) (*Unit, error) {
	opts := []cueutil.Option{cueutil.WithFilename(path)}
	if c.MaxFileSize > 0 {
		opts = append(opts, cueutil.WithMaxFileSize(c.MaxFileSize))
	}

	v, err := cueutil.Compile(data, opts...)
	if err != nil {
		return nil, err
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, cueutil.FormatError(err, path)
	}

	u := &Unit{Name: name, Path: path}
	for iter.Next() {
		var val any
		if err := iter.Value().Decode(&val); err != nil {
			return nil, cueutil.FormatError(err, path)
		}
		u.Definitions = append(u.Definitions, Definition{
			Name:  iter.Selector().Unquoted(),
			Value: val,
		})
	}
	return u, nil
}

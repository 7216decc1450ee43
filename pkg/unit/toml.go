// SPDX-License-Identifier: MPL-2.0

package unit

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/slices"
)

// TOML decodes .toml files. Top-level keys become definitions sorted by name,
// since TOML tables carry no meaningful order once decoded.
type TOML struct{}

// Extension implements Decoder.
func (TOML) Extension() string { return ExtTOML }

// Decode implements Decoder.
func (TOML) Decode(name, path string, data []byte) (*Unit, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	u := &Unit{Name: name, Path: path, Definitions: make([]Definition, 0, len(keys))}
	for _, k := range keys {
		u.Definitions = append(u.Definitions, Definition{Name: k, Value: doc[k]})
	}
	return u, nil
}

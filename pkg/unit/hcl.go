// SPDX-License-Identifier: MPL-2.0

package unit

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"golang.org/x/exp/slices"
)

// HCL decodes .hcl files. Only top-level attributes are allowed; they are
// evaluated without variables or functions and kept in source order.
type HCL struct{}

// Extension implements Decoder.
func (HCL) Extension() string { return ExtHCL }

// Decode implements Decoder.
func (HCL) Decode(name, path string, data []byte) (*Unit, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", path, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %w", path, diags)
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	slices.SortFunc(ordered, func(a, b *hcl.Attribute) int {
		return a.Range.Start.Byte - b.Range.Start.Byte
	})

	u := &Unit{Name: name, Path: path, Definitions: make([]Definition, 0, len(ordered))}
	for _, attr := range ordered {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluate %s in %s: %w", attr.Name, path, diags)
		}
		goVal, err := ctyToGo(val)
		if err != nil {
			return nil, fmt.Errorf("convert %s in %s: %w", attr.Name, path, err)
		}
		u.Definitions = append(u.Definitions, Definition{Name: attr.Name, Value: goVal})
	}
	return u, nil
}

// ctyToGo converts a known cty value to plain Go values through its JSON form.
func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	raw, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

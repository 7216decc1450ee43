// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult is the outcome of ParseAndDecode.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T
	// Unified is the schema-unified CUE value.
	Unified cue.Value
}

// Compile compiles a standalone CUE document, enforcing the size limit and
// formatting compile errors with the document name.
func Compile(data []byte, opts ...Option) (cue.Value, error) {
	o := applyOptions(opts)

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	v := cuecontext.New().CompileBytes(data, cue.Filename(o.filename))
	if v.Err() != nil {
		return cue.Value{}, FormatError(v.Err(), o.filename)
	}
	if o.concrete {
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return cue.Value{}, FormatError(err, o.filename)
		}
	}
	return v, nil
}

// ParseAndDecode compiles schema and data, unifies data with the schema
// definition at schemaPath, validates the result and decodes it into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := applyOptions(opts)

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: compile schema: %w", schemaValue.Err())
	}
	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if root.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, root.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), o.filename)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}

	return &ParseResult[T]{Value: &out, Unified: unified}, nil
}

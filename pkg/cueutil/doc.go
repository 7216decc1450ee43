// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE helpers shared by unit decoding and
// configuration loading: size guards, schema-unified decoding and error
// formatting with field paths.
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[Config](schema, data, "#Config",
//	    cueutil.WithFilename("nsload.cue"),
//	    cueutil.WithConcrete(false),
//	)
package cueutil

// SPDX-License-Identifier: MPL-2.0

package unit_test

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/nsload/nsload/pkg/unit"
)

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext     string
		want    string
		wantErr bool
	}{
		{".cue", unit.ExtCUE, false},
		{"cue", unit.ExtCUE, false},
		{".TOML", unit.ExtTOML, false},
		{" .hcl ", unit.ExtHCL, false},
		{".php", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			d, err := unit.ForExtension(tt.ext)
			if tt.wantErr {
				if !errors.Is(err, unit.ErrUnsupportedExtension) {
					t.Fatalf("ForExtension(%q) error = %v, want ErrUnsupportedExtension", tt.ext, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ForExtension(%q) error = %v", tt.ext, err)
			}
			if d.Extension() != tt.want {
				t.Errorf("ForExtension(%q).Extension() = %q, want %q", tt.ext, d.Extension(), tt.want)
			}
		})
	}
}

func TestDecoders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		decoder unit.Decoder
		src     string
		names   []string
		values  map[string]string
	}{
		{
			name:    "cue keeps source order",
			decoder: unit.CUE{},
			src: `package foo

zeta: "last-declared-first"
alpha: 2
#Hidden: {x: int}
_private: true
list: [1, 2]
`,
			names:  []string{"zeta", "alpha", "list"},
			values: map[string]string{"zeta": "last-declared-first", "alpha": "2", "list": "[1 2]"},
		},
		{
			name:    "toml sorted by key",
			decoder: unit.TOML{},
			src: `zeta = "z"
alpha = 2

[table]
key = "v"
`,
			names:  []string{"alpha", "table", "zeta"},
			values: map[string]string{"zeta": "z", "alpha": "2", "table": "map[key:v]"},
		},
		{
			name:    "hcl keeps source order",
			decoder: unit.HCL{},
			src: `zeta  = "z"
alpha = 1 + 1
flags = ["a", "b"]
`,
			names:  []string{"zeta", "alpha", "flags"},
			values: map[string]string{"zeta": "z", "alpha": "2", "flags": "[a b]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u, err := tt.decoder.Decode("Foo.Bar", "/srv/Foo/Bar"+tt.decoder.Extension(), []byte(tt.src))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if u.Name != "Foo.Bar" {
				t.Errorf("Name = %q", u.Name)
			}
			if !slices.Equal(u.Names(), tt.names) {
				t.Errorf("Names() = %q, want %q", u.Names(), tt.names)
			}
			for k, want := range tt.values {
				v, ok := u.Lookup(k)
				if !ok {
					t.Errorf("Lookup(%q) missing", k)
					continue
				}
				if got := fmt.Sprint(v); got != want {
					t.Errorf("Lookup(%q) = %s, want %s", k, got, want)
				}
			}
		})
	}
}

func TestDecoders_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		decoder unit.Decoder
		src     string
	}{
		{"cue syntax", unit.CUE{}, `a: {`},
		{"cue conflict", unit.CUE{}, `a: 1 & 2`},
		{"cue size", unit.CUE{MaxFileSize: 3}, `a: 1`},
		{"toml syntax", unit.TOML{}, `a = `},
		{"hcl syntax", unit.HCL{}, `a = `},
		{"hcl block not allowed", unit.HCL{}, "block {\n  a = 1\n}\n"},
		{"hcl variables not available", unit.HCL{}, `a = var.x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.decoder.Decode("X", "X"+tt.decoder.Extension(), []byte(tt.src))
			if err == nil {
				t.Fatal("Decode() error = nil, want error")
			}
			if !strings.Contains(err.Error(), "X"+tt.decoder.Extension()) {
				t.Errorf("Decode() error %q should name the file", err)
			}
		})
	}
}

func TestUnitLookup_Missing(t *testing.T) {
	t.Parallel()

	u := &unit.Unit{Definitions: []unit.Definition{{Name: "a", Value: 1}}}
	if _, ok := u.Lookup("b"); ok {
		t.Error("Lookup(b) should miss")
	}
}

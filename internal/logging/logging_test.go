// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr bool
	}{
		{name: "default level drops info", opts: Options{}, want: ""},
		{name: "json", opts: Options{Level: "info", Format: "json"}, want: `"msg":"hello"`},
		{name: "logfmt", opts: Options{Level: "INFO", Format: "logfmt"}, want: "msg=hello"},
		{name: "text with prefix", opts: Options{Level: "info", Prefix: "nsload"}, want: "nsload"},
		{name: "bad level", opts: Options{Level: "loud"}, wantErr: true},
		{name: "bad format", opts: Options{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.opts.Writer = &buf
			logger, err := New(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			logger.Info("hello", "key", "value")
			if tt.want == "" {
				if buf.Len() != 0 {
					t.Errorf("output = %q, want nothing", buf.String())
				}
				return
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	Discard().Error("dropped")
}

// SPDX-License-Identifier: MPL-2.0

package session

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsload/nsload/internal/config"
	"github.com/nsload/nsload/internal/issue"
	"github.com/nsload/nsload/internal/testutil"
	"github.com/nsload/nsload/pkg/host"
	"github.com/nsload/nsload/pkg/namespace"
)

func newSession(t *testing.T, cfg *config.Config, files map[string]string) (*Session, *testutil.CountingFS) {
	t.Helper()
	cfg.BaseDir = testutil.WriteTree(t, t.TempDir(), files)
	fs := testutil.NewCountingFS(nil)
	var stderr bytes.Buffer
	s, err := New(context.Background(), cfg, Options{Stderr: &stderr, Filesystem: fs})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s, fs
}

func TestNew_BindsRelativeToBaseDir(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Namespaces = []config.NamespaceEntry{
		{Prefix: "Acme", Dir: "src/acme", Root: "src/acme.cue"},
		{Prefix: "Ghost", Dir: "does/not/exist"},
		{Prefix: "", Dir: "src"},
	}
	s, _ := newSession(t, cfg, map[string]string{
		"src/acme.cue":       `root: true`,
		"src/acme/Greet.cue": `greeting: "hello"`,
	})

	require.Len(t, s.Handles, 3)
	assert.True(t, s.Handles[0].Active())
	assert.False(t, s.Handles[1].Active())
	assert.False(t, s.Handles[2].Active())

	b, ok := s.Handles[0].Binding()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(cfg.BaseDir, "src", "acme")+string(filepath.Separator), b.Directory)
	assert.Equal(t, filepath.Join(cfg.BaseDir, "src", "acme.cue"), b.RootFile)

	var inactive int
	for _, d := range s.Diagnostics() {
		if d.Code == namespace.CodeBindingInactive {
			inactive++
		}
	}
	assert.Equal(t, 2, inactive)
}

func TestSession_Lookup(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Namespaces = []config.NamespaceEntry{{Prefix: "Acme", Dir: "lib"}}
	s, fs := newSession(t, cfg, map[string]string{
		"lib/Greet.cue": `greeting: "hello"`,
	})
	ctx := context.Background()

	u, err := s.Lookup(ctx, " Acme.Greet ")
	require.NoError(t, err)
	assert.Equal(t, "Acme.Greet", u.Name)
	v, ok := u.Lookup("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	_, err = s.Lookup(ctx, "Acme.Greet")
	require.NoError(t, err)
	assert.Equal(t, 1, fs.Reads(filepath.Join(cfg.BaseDir, "lib", "Greet.cue")))

	_, err = s.Lookup(ctx, "Acme.Missing")
	require.ErrorIs(t, err, host.ErrUndefined)

	_, err = s.Lookup(ctx, "Other.Greet")
	var undef *host.UndefinedError
	require.True(t, errors.As(err, &undef))
	assert.False(t, undef.Claimed)
}

func TestSession_Include(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Namespaces = []config.NamespaceEntry{{Prefix: "Blog", Dir: "blog"}}
	cfg.Members = []config.MemberEntry{{Name: "Blog.Post", Dir: "blog", Subdir: "parts"}}
	s, fs := newSession(t, cfg, map[string]string{
		"blog/parts/Title.cue": `title: "first"`,
	})
	ctx := context.Background()

	require.NoError(t, s.Include(ctx, "Blog.Post", "Title", "Absent"))
	assert.True(t, s.Runtime.Defined("Blog.Post.Title"))
	assert.Equal(t, 1, fs.Reads(filepath.Join(cfg.BaseDir, "blog", "parts", "Title.cue")))

	err := s.Include(ctx, "Blog.Comment", "Body")
	require.ErrorIs(t, err, ErrUnknownMember)
}

func TestNew_MemberErrors(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Members = []config.MemberEntry{{Name: "Blog", Dir: "a"}, {Name: "Blog", Dir: "b"}}
	cfg.BaseDir = t.TempDir()

	_, err := New(context.Background(), cfg, Options{Stderr: &bytes.Buffer{}})
	require.Error(t, err)
}

func TestNew_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Extension = ".php"

	_, err := New(context.Background(), cfg, Options{Stderr: &bytes.Buffer{}})
	var ae *issue.ActionableError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, issue.UnsupportedExtensionId, ae.Issue)
}

func TestNew_TracingToWriter(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Namespaces = []config.NamespaceEntry{{Prefix: "Acme", Dir: "lib"}}
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "stdout"
	cfg.BaseDir = testutil.WriteTree(t, t.TempDir(), map[string]string{"lib/Greet.cue": `a: 1`})

	var spans bytes.Buffer
	s, err := New(context.Background(), cfg, Options{Stderr: &bytes.Buffer{}, TraceWriter: &spans})
	require.NoError(t, err)

	_, err = s.Resolve(context.Background(), "Acme.Greet")
	require.NoError(t, err)
	require.NoError(t, s.Shutdown(context.Background()))

	assert.Contains(t, spans.String(), "nsload.resolve")
	assert.Contains(t, spans.String(), "nsload.load")
}

func TestNew_LogLevelOverride(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.BaseDir = t.TempDir()
	cfg.Namespaces = []config.NamespaceEntry{{Prefix: "Ghost", Dir: "missing"}}

	var stderr bytes.Buffer
	s, err := New(context.Background(), cfg, Options{Stderr: &stderr, LogLevel: "debug"})
	require.NoError(t, err)
	require.NoError(t, s.Shutdown(context.Background()))

	assert.Contains(t, stderr.String(), "session ready")
}

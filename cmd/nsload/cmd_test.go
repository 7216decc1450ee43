// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nsload/nsload/internal/issue"
	"github.com/nsload/nsload/internal/testutil"
	"github.com/nsload/nsload/pkg/host"
	"github.com/nsload/nsload/pkg/loader"
	"github.com/nsload/nsload/pkg/types"
)

const projectConfig = `
namespaces: [
	{prefix: "Acme", dir: "lib", root: "Acme.cue"},
	{prefix: "Ghost", dir: "missing"},
]
members: [{name: "Acme.Blog", dir: "lib"}]
`

func newProject(t *testing.T) string {
	t.Helper()
	return testutil.WriteTree(t, t.TempDir(), map[string]string{
		"nsload.cue":         projectConfig,
		"Acme.cue":           `vendor: "acme"`,
		"lib/Greet.cue":      `greeting: "hello"`,
		"lib/Broken.cue":     `a: {`,
		"lib/Blog/Title.cue": `title: "first"`,
	})
}

func runCLI(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Stdout: &stdout, Stderr: &stderr})
	root := NewRootCommand(app)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config-dir", dir}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestResolveCommand(t *testing.T) {
	t.Parallel()

	dir := newProject(t)

	out, _, err := runCLI(t, dir, "resolve", "Acme.Greet", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "lib", "Greet.cue"))
	assert.Contains(t, out, filepath.Join(dir, "Acme.cue"))
	assert.Equal(t, 2, strings.Count(out, "loaded"))

	out, _, err = runCLI(t, dir, "resolve", "Acme.Greet", "Acme.Nope", "Other.Thing")
	assert.Equal(t, types.ExitUnresolved, exitCodeFor(err))
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, "unbound")
	assert.ErrorContains(t, err, "2 of 3 identifiers unresolved")

	_, _, err = runCLI(t, dir, "resolve", "Acme.Broken")
	assert.Equal(t, types.ExitLoadFailed, exitCodeFor(err))
}

func TestDescribeCommand(t *testing.T) {
	t.Parallel()

	dir := newProject(t)

	out, _, err := runCLI(t, dir, "describe", "Acme.Greet")
	require.NoError(t, err)

	var view unitView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, "Acme.Greet", view.Name)
	assert.Equal(t, filepath.Join(dir, "lib", "Greet.cue"), view.Path)
	require.Len(t, view.Definitions, 1)
	assert.Equal(t, "greeting", view.Definitions[0].Name)
	assert.Equal(t, "hello", view.Definitions[0].Value)

	_, _, err = runCLI(t, dir, "describe", "Other.Thing")
	require.ErrorIs(t, err, host.ErrUndefined)
	assert.Equal(t, types.ExitUnresolved, exitCodeFor(err))

	_, _, err = runCLI(t, dir, "describe", "Acme.Broken")
	require.ErrorIs(t, err, loader.ErrLoadFailed)
	assert.Equal(t, types.ExitLoadFailed, exitCodeFor(err))
}

func TestIncludeCommand(t *testing.T) {
	t.Parallel()

	dir := newProject(t)

	out, _, err := runCLI(t, dir, "include", "Acme.Blog", "Title", "Sidebar")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Acme.Blog.Title")
	assert.Contains(t, lines[0], "loaded")
	assert.Contains(t, lines[1], "Acme.Blog.Sidebar")
	assert.Contains(t, lines[1], "not found")

	_, _, err = runCLI(t, dir, "include", "Acme.Shop", "Cart")
	assert.Equal(t, types.ExitUsage, exitCodeFor(err))
}

func TestBindingsCommand(t *testing.T) {
	t.Parallel()

	dir := newProject(t)

	out, _, err := runCLI(t, dir, "bindings", "-o", "yaml")
	require.NoError(t, err)

	var view bindingsView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, "first-registered", view.Policy)
	assert.Equal(t, ".", view.Separator)
	assert.Equal(t, string(filepath.Separator), view.Delimiter)
	require.Len(t, view.Bindings, 1, "the Ghost binding points at a missing directory")
	assert.Equal(t, "Acme", view.Bindings[0].Prefix)
	assert.Equal(t, filepath.Join(dir, "Acme.cue"), view.Bindings[0].RootFile)
	_, err = uuid.Parse(view.Bindings[0].ID)
	require.NoError(t, err)
	require.Len(t, view.Members, 1)
	assert.Equal(t, "acme.blog", view.Members[0].ID)

	out, _, err = runCLI(t, dir, "bindings")
	require.NoError(t, err)
	assert.Contains(t, out, "Bindings")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Members")

	_, _, err = runCLI(t, dir, "bindings", "-o", "json")
	assert.Equal(t, types.ExitUsage, exitCodeFor(err))
}

func TestBindingsCommand_VerboseDiagnostics(t *testing.T) {
	t.Parallel()

	dir := newProject(t)

	_, stderr, err := runCLI(t, dir, "bindings", "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Diagnostics")
	assert.Contains(t, stderr, "binding_inactive")
}

func TestIDCommand(t *testing.T) {
	t.Parallel()

	dir := newProject(t)

	out, _, err := runCLI(t, dir, "id", "Acme.HttpServer", "Acme.Blog")
	require.NoError(t, err)
	assert.Equal(t, "acme.http-server\nacme.blog\n", out)

	out, _, err = runCLI(t, dir, "id", "--separator", "::", "Acme::XmlParser")
	require.NoError(t, err)
	assert.Equal(t, "acme.xml-parser\n", out)

	out, _, err = runCLI(t, dir, "id", "--short", "Acme.Http.Router")
	require.NoError(t, err)
	assert.Equal(t, "Router\n", out)
}

func TestPathCommand(t *testing.T) {
	t.Parallel()

	dir := newProject(t)

	out, _, err := runCLI(t, dir, "path", "Acme.Deep.Nested", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "lib", "Deep", "Nested.cue"))
	assert.Contains(t, out, filepath.Join(dir, "Acme.cue"))

	_, _, err = runCLI(t, dir, "path", "Ghost.Thing")
	assert.Equal(t, types.ExitUnresolved, exitCodeFor(err))
}

func TestConfigCommands(t *testing.T) {
	t.Parallel()

	dir := newProject(t)

	out, _, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `separator:     "."`)
	assert.Contains(t, out, `{prefix: "Acme", dir: "lib", root: "Acme.cue"}`)

	out, _, err = runCLI(t, dir, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "nsload.cue"))

	_, _, err = runCLI(t, t.TempDir(), "--config", filepath.Join(dir, "nope.cue"), "config", "show")
	var ae *issue.ActionableError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, issue.ConfigLoadFailedId, ae.Issue)
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	loadErr := &loader.LoadError{Name: "A.B", Path: "/x/B.cue", Stage: loader.StageDecode, Err: errors.New("bad")}

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"nil", nil, types.ExitSuccess},
		{"exit error", &ExitError{Code: types.ExitUsage}, types.ExitUsage},
		{"load failure", fmt.Errorf("include: %w", loadErr), types.ExitLoadFailed},
		{"undefined", &host.UndefinedError{ID: "A.B"}, types.ExitUnresolved},
		{"other", errors.New("boom"), types.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "exit status 3", (&ExitError{Code: types.ExitUnresolved}).Error())
	inner := errors.New("inner")
	wrapped := &ExitError{Code: types.ExitFailure, Err: inner}
	assert.Equal(t, "inner", wrapped.Error())
	assert.ErrorIs(t, wrapped, inner)
}

func TestIssueRendering(t *testing.T) {
	t.Parallel()

	id, ok := issueFor(&host.UndefinedError{ID: "A.B"})
	require.True(t, ok)
	assert.Equal(t, issue.UndefinedIdentifierId, id)

	_, ok = issueFor(errors.New("plain"))
	assert.False(t, ok)

	var buf bytes.Buffer
	renderIssueFor(&buf, &loader.LoadError{Name: "A", Path: "A.cue", Stage: loader.StageRead, Err: errors.New("x")})
	assert.NotEmpty(t, buf.String())

	ae := issue.NewErrorContext().WithOperation("load configuration").WithSuggestion("fix it").Build()
	assert.Contains(t, formatErrorForDisplay(ae, false), "fix it")
	assert.Equal(t, "plain", formatErrorForDisplay(errors.New("plain"), true))
}

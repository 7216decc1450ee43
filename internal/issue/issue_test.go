// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	ids := []Id{
		BindingInactiveId,
		UndefinedIdentifierId,
		UnitLoadFailedId,
		ComponentNotFoundId,
		ConfigLoadFailedId,
		UnsupportedExtensionId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}

	if BindingInactiveId != 1 {
		t.Errorf("BindingInactiveId = %d, want 1", BindingInactiveId)
	}
}

func TestValues_Sorted(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not sorted at %d", i)
		}
	}
}

func TestAllIssuesHaveContent(t *testing.T) {
	for _, i := range Values() {
		if strings.TrimSpace(string(i.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no markdown", i.Id())
		}
		if !strings.Contains(string(i.MarkdownMsg()), "# ") {
			t.Errorf("issue %d has no heading", i.Id())
		}
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotStyle string
	render = func(in string, stylePath string) (string, error) {
		gotStyle = stylePath
		return "RENDERED:" + in, nil
	}

	out, err := Get(UnitLoadFailedId).Render("dark")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q, want dark", gotStyle)
	}
	if !strings.HasPrefix(out, "RENDERED:") || !strings.Contains(out, "Unit failed to load") {
		t.Errorf("Render() = %q", out)
	}
	if strings.Contains(out, "See also") {
		t.Error("Render() should omit See also without links")
	}
}

func TestIssue_RenderWithLinks(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()
	render = func(in string, _ string) (string, error) { return in, nil }

	i := &Issue{id: 99, mdMsg: "# Title", docLinks: []HttpLink{"https://example.com/docs"}}
	out, err := i.Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "## See also") || !strings.Contains(out, "https://example.com/docs") {
		t.Errorf("Render() = %q", out)
	}

	links := i.DocLinks()
	links[0] = "mutated"
	if i.DocLinks()[0] == "mutated" {
		t.Error("DocLinks() should return a copy")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	for _, i := range Values() {
		if _, err := i.Render("notty"); err != nil {
			t.Errorf("issue %d failed to render: %v", i.Id(), err)
		}
	}
}

// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	BindingInactiveId Id = iota + 1
	UndefinedIdentifierId
	UnitLoadFailedId
	ComponentNotFoundId
	ConfigLoadFailedId
	UnsupportedExtensionId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the issue page with the glamour style at stylePath
// ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	bindingInactiveIssue = &Issue{
		id: BindingInactiveId,
		mdMsg: `
# Namespace binding ignored

A namespace was registered but never activated, so identifiers under it
will not resolve.

## Common causes:
- The prefix is empty or starts/ends with the namespace separator
- The base directory is empty, does not exist, or is a file

## Things you can try:
- List the active bindings and the diagnostics for inactive ones:
~~~
$ nsload bindings
~~~

- Check the ` + "`namespaces`" + ` entries in your configuration:
~~~cue
namespaces: [{prefix: "Acme", dir: "./lib/Acme"}]
~~~`,
	}

	undefinedIdentifierIssue = &Issue{
		id: UndefinedIdentifierId,
		mdMsg: `
# Identifier not defined

No bound namespace could produce a unit for this identifier.

## Things you can try:
- Show which file the identifier maps to:
~~~
$ nsload path Acme.Billing.Invoice
~~~

- Check that the file exists and is named after the last segment, with the
  configured extension (` + "`.cue`" + ` by default)
- Identifiers are case-sensitive and match prefixes segment by segment`,
	}

	unitLoadFailedIssue = &Issue{
		id: UnitLoadFailedId,
		mdMsg: `
# Unit failed to load

The source file exists but could not be read, decoded or defined. The
failure is remembered: the file will not be retried in this process.

## Things you can try:
- Fix the syntax error reported above and run the command again
- Make sure two files do not define the same identifier
- Run with debug logging for more detail:
~~~
$ nsload --log-level debug resolve Acme.Billing.Invoice
~~~`,
	}

	componentNotFoundIssue = &Issue{
		id: ComponentNotFoundId,
		mdMsg: `
# Component not found

A member included a component that has no source file. Missing components
are skipped, so any later reference to it will be undefined.

## Things you can try:
- Check the member's component directory:
~~~
$ nsload describe Acme
~~~

- Set ` + "`subdir`" + ` on the member if its components live elsewhere`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file could not be read or does not match the schema.

## Things you can try:
- Print the effective configuration:
~~~
$ nsload config show
~~~

- Point at a specific file:
~~~
$ nsload --config ./nsload.cue bindings
~~~

## Example configuration:
~~~cue
separator: "."
extension: ".cue"
prefix_policy: "first-registered"
namespaces: [
	{prefix: "Acme", dir: "./lib/Acme", root: "./lib/Acme.cue"},
]
members: [
	{name: "Acme", dir: "./lib"},
]
~~~`,
	}

	unsupportedExtensionIssue = &Issue{
		id: UnsupportedExtensionId,
		mdMsg: `
# Unsupported source extension

Units can be written in CUE, TOML or HCL.

## Things you can try:
- Set ` + "`extension`" + ` to one of ` + "`.cue`, `.toml` or `.hcl`",
	}

	issues = map[Id]*Issue{
		bindingInactiveIssue.Id():      bindingInactiveIssue,
		undefinedIdentifierIssue.Id():  undefinedIdentifierIssue,
		unitLoadFailedIssue.Id():       unitLoadFailedIssue,
		componentNotFoundIssue.Id():    componentNotFoundIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		unsupportedExtensionIssue.Id(): unsupportedExtensionIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	CatalogNotFoundId Id = iota + 1
	CatalogParseErrorId
	DuplicateEntryId
	NodeNotFoundId
	DanglingReferenceId
	DependencyCycleId
	NoEligibleOptionId
	PlatformNotSupportedId
	ConfigLoadFailedId
	TuiServerStartFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation pages covering this issue type
	extLinks []HttpLink  // external links that might be useful for the user
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

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	catalogNotFoundIssue = &Issue{
		id: CatalogNotFoundId,
		mdMsg: `
# No catalog found!

We searched for a mod catalog but couldn't find one in the expected locations.

## Search locations (in order of precedence):
1. The --catalog flag
2. The catalog path in your config file
3. catalog.toml in the current directory

## Things you can try:
- Point modsmith at your build's catalog:
~~~
$ modsmith --catalog /path/to/catalog.toml list
~~~

- Or set it once in your config file:
~~~toml
[catalog]
path = "/path/to/catalog.toml"
~~~`,
	}

	catalogParseErrorIssue = &Issue{
		id: CatalogParseErrorId,
		mdMsg: `
# Failed to parse catalog!

Your catalog contains syntax errors or invalid entries.

## Common issues:
- Invalid TOML syntax (missing quotes, brackets, etc.)
- A component or option without an id or name
- An option declared outside any component
- A tier reference that no [[tiers]] entry declares

## Things you can try:
- Check the error message above for the offending entry
- Run the structural checks on their own:
~~~
$ modsmith validate
~~~

## Example of a valid component entry:
~~~toml
[[components]]
id = "hq-skyboxes"
name = "High Quality Skyboxes"
tier = "recommended"
dependencies = ["widescreen-patch"]
restrictions = ["hq-skyboxes-legacy"]
~~~`,
	}

	duplicateEntryIssue = &Issue{
		id: DuplicateEntryId,
		mdMsg: `
# Duplicate catalog entry!

Two entries in your catalog share the same id. Components and options live
in one namespace, so every id must be unique across both.

## Things you can try:
- Search the catalog for the reported id and rename one of the entries
- Remember to update any dependencies or restrictions that reference the
  renamed entry`,
	}

	nodeNotFoundIssue = &Issue{
		id: NodeNotFoundId,
		mdMsg: `
# Entry not found!

The id you specified does not match any component or option in the catalog.

## Things you can try:
- List every entry and its id:
~~~
$ modsmith list
~~~

- Check for typos in the id
- Make sure you loaded the catalog you meant to`,
	}

	danglingReferenceIssue = &Issue{
		id: DanglingReferenceId,
		mdMsg: `
# Dangling reference!

A dependency or restriction points at an id that no catalog entry declares.
Selection treats such references as satisfied, so this is a warning, not a
failure, but it usually means a typo or a removed entry.

## Things you can try:
- Run the catalog linter to see every dangling reference:
~~~
$ modsmith validate
~~~

- Fix the typo, or remove the stale reference`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Some entries in your catalog depend on each other in a loop. Selection
handles cycles gracefully (the whole group is selected or deselected
together), but no linear installation order exists for them.

## Example of a cycle:
~~~toml
[[components]]
id = "a"
dependencies = ["b"]

[[components]]
id = "b"
dependencies = ["a"]   # Cycle: a -> b -> a
~~~

## Things you can try:
- Review the dependencies of the entries listed above
- If two mods genuinely require each other, consider merging them into one
  component with options`,
	}

	noEligibleOptionIssue = &Issue{
		id: NoEligibleOptionId,
		mdMsg: `
# No option can be chosen!

This component requires one of its options to be selected, but every option
is unavailable (excluded on this platform or disabled by a restriction). The
component cannot stay selected without one.

## Things you can try:
- Deselect the conflicting component that disabled the options
- Check the options' platform exclusions in the catalog`,
	}

	platformNotSupportedIssue = &Issue{
		id: PlatformNotSupportedId,
		mdMsg: `
# Not available on this platform!

This entry is excluded on your operating system, so it cannot be selected.

## Things you can try:
- Check the entry's 'exclude_platforms' setting in the catalog
- Build the mod list on a supported operating system`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the modsmith configuration file.

## Configuration file locations:
- Linux: ~/.config/modsmith/config.toml
- macOS: ~/Library/Application Support/modsmith/config.toml
- Windows: %APPDATA%\modsmith\config.toml

## Things you can try:
- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/modsmith/config.toml
~~~

## Example configuration:
~~~toml
[catalog]
path = "/home/user/builds/full.toml"

[ui]
verbose = false
theme = "auto"

[serve]
host = "localhost"
port = 23234
~~~`,
	}

	tuiServerStartFailedIssue = &Issue{
		id: TuiServerStartFailedId,
		mdMsg: `
# Could not start the picker server!

The SSH server that serves the interactive picker failed to start.

## Common causes:
- The configured port is already in use
- No permission to bind the configured address

## Things you can try:
- Pick a different port:
~~~
$ modsmith serve --port 23240
~~~

- Check what is holding the port:
~~~
$ ss -tlnp | grep 23234
~~~`,
	}

	issues = map[Id]*Issue{
		catalogNotFoundIssue.Id():      catalogNotFoundIssue,
		catalogParseErrorIssue.Id():    catalogParseErrorIssue,
		duplicateEntryIssue.Id():       duplicateEntryIssue,
		nodeNotFoundIssue.Id():         nodeNotFoundIssue,
		danglingReferenceIssue.Id():    danglingReferenceIssue,
		dependencyCycleIssue.Id():      dependencyCycleIssue,
		noEligibleOptionIssue.Id():     noEligibleOptionIssue,
		platformNotSupportedIssue.Id(): platformNotSupportedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		tuiServerStartFailedIssue.Id(): tuiServerStartFailedIssue,
	}
)

func Values() []*Issue {
	return slices.Collect(maps.Values(issues))
}

func Get(id Id) *Issue {
	return issues[id]
}

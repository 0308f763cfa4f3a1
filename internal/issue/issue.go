// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	ConfigLoadFailedId Id = iota + 1
	SourceUnresolvableId
	ManifestUnavailableId
	CloneFailedId
	ToolNotFoundId
	ScaffoldInitFailedId
	BuildFailedId
	ScriptNotFoundId
	DataDirUnavailableId
	PermissionDeniedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

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

// Render renders the issue's markdown with the glamour style at stylePath
// (a built-in style name such as "dark", "light" or "notty").
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

kura could not read or validate its configuration file.

## Things you can try:
- Check the file for CUE syntax errors
- Print the location kura reads from:
~~~
$ kura config path
~~~

- Compare with the effective defaults:
~~~
$ kura config show
~~~

## Example config.cue:
~~~cue
toolchain: "cargo +nightly"
remote_prefixes: ["https://github.com/", "https://codeberg.org/"]
ui: verbose: true
~~~`,
	}

	sourceUnresolvableIssue = &Issue{
		id: SourceUnresolvableId,
		mdMsg: `
# Package source not recognized!

A source must be either a repository URL starting with a known remote prefix
or a path to an existing directory containing a Cargo.toml.

## Things you can try:
- Check the path for typos; relative paths are resolved from the current directory
- Use the full https URL of the repository:
~~~
$ kura install https://github.com/owner/koto-package
~~~

- Add your git host to 'remote_prefixes' in the config file`,
	}

	manifestUnavailableIssue = &Issue{
		id: ManifestUnavailableId,
		mdMsg: `
# Package manifest unavailable!

kura reads the package name from the package's Cargo.toml before installing it.

## Things you can try:
- For remote packages, make sure the repository is public and has a 'main' branch
  with Cargo.toml at its root
- For local packages, make sure the directory contains a Cargo.toml
- Make sure the manifest declares a name:
~~~toml
[package]
name = "koto-example"
~~~`,
	}

	cloneFailedIssue = &Issue{
		id: CloneFailedId,
		mdMsg: `
# Failed to clone the package!

The version-control tool reported an error while cloning the repository.

## Things you can try:
- Check your network connection and repository URL
- If a leftover directory blocks the clone, remove it and retry:
~~~
$ kura remove <name> --purge
~~~`,
	}

	toolNotFoundIssue = &Issue{
		id:       ToolNotFoundId,
		extLinks: []HttpLink{"https://rustup.rs", "https://git-scm.com/downloads"},
		mdMsg: `
# Required tool not found!

kura drives external tools: 'cargo' to build and 'git' to clone.

## Things you can try:
- Install the Rust toolchain from https://rustup.rs
- Install git from your package manager
- Point kura at a different command in the config file:
~~~cue
toolchain: "/opt/rust/bin/cargo"
vcs: "git"
~~~`,
	}

	scaffoldInitFailedIssue = &Issue{
		id: ScaffoldInitFailedId,
		mdMsg: `
# Failed to initialize the host project!

kura creates the host project with 'cargo init' and 'cargo add koto'.

## Things you can try:
- Check that cargo can reach the crates.io index
- Remove any leftover project and retry:
~~~
$ kura clean
$ kura build
~~~`,
	}

	buildFailedIssue = &Issue{
		id:       BuildFailedId,
		extLinks: []HttpLink{"https://koto.dev/docs"},
		mdMsg: `
# Build failed!

The toolchain could not compile the host project with the installed packages.

## Things you can try:
- Read the compiler output above; the failing package is usually named there
- Remove the package that fails to compile:
~~~
$ kura list
$ kura remove <name>
~~~

- Start over from a fresh host project:
~~~
$ kura clean
~~~`,
	}

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# Script not found!

The script file passed to 'kura run' does not exist.

## Things you can try:
- Check the path for typos
- Run from the directory that contains the script`,
	}

	dataDirUnavailableIssue = &Issue{
		id: DataDirUnavailableId,
		mdMsg: `
# Data directory unavailable!

kura could not determine where to keep its registry and host project.

## Things you can try:
- Set XDG_DATA_HOME or HOME
- Set the directory explicitly:
~~~
$ export KURA_DATA_DIR=$HOME/.local/share
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Things you can try:
- Check permissions of the kura data directory
- Check permissions of the local package directory
- Run kura as the user who installed the packages`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		sourceUnresolvableIssue.Id():  sourceUnresolvableIssue,
		manifestUnavailableIssue.Id(): manifestUnavailableIssue,
		cloneFailedIssue.Id():         cloneFailedIssue,
		toolNotFoundIssue.Id():        toolNotFoundIssue,
		scaffoldInitFailedIssue.Id():  scaffoldInitFailedIssue,
		buildFailedIssue.Id():         buildFailedIssue,
		scriptNotFoundIssue.Id():      scriptNotFoundIssue,
		dataDirUnavailableIssue.Id():  dataDirUnavailableIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
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

// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	DescriptionNotFoundId Id = iota + 1
	DescriptionInvalidId
	InvalidAppIdId
	UnknownEngineId
	NoSourcesId
	MissingSourceId
	BuilderNotFoundId
	BuildFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
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
		extraMd += "## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	descriptionNotFoundIssue = &Issue{
		id: DescriptionNotFoundId,
		mdMsg: `
# Description not found!

flatpaker could not read the game description you passed.

## Things you can try:
- Check the path; relative paths are resolved from the current directory
- Descriptions are TOML (` + "`.toml`" + ` or no extension) or CUE (` + "`.cue`" + `)

## Minimal description:
~~~toml
[common]
reverse_url = "com.example"
name = "My Game"
categories = ["AdventureGame"]
engine = "renpy"

[appdata]
summary = "A short adventure"
~~~`,
	}

	descriptionInvalidIssue = &Issue{
		id: DescriptionInvalidId,
		mdMsg: `
# Description is invalid!

The description does not match the expected schema.

## Things you can try:
- ` + "`common`" + ` needs reverse_url, name, categories and engine
- ` + "`engine`" + ` must be "renpy" or "rpgmaker"
- ` + "`appdata`" + ` needs a summary
- content_rating values are none, mild, moderate or intense
- release keys are versions and values are YYYY-MM-DD dates`,
		extLinks: []HttpLink{"https://hughsie.github.io/oars/"},
	}

	invalidAppIdIssue = &Issue{
		id: InvalidAppIdId,
		mdMsg: `
# Invalid application ID!

The ID is built from ` + "`common.reverse_url`" + ` and the sanitized game name.

## Rules:
- At least three dot-separated elements, e.g. com.example.MyGame
- Elements contain only letters, digits, underscores and hyphens
- Elements must not start with a digit
- At most 255 characters`,
		extLinks: []HttpLink{"https://docs.flatpak.org/en/latest/conventions.html#application-ids"},
	}

	unknownEngineIssue = &Issue{
		id: UnknownEngineId,
		mdMsg: `
# Unknown engine!

flatpaker knows how to package Ren'Py and RPGMaker MV/MZ games.

## Things you can try:
- Set ` + "`common.engine`" + ` to "renpy" or "rpgmaker"`,
	}

	noSourcesIssue = &Issue{
		id: NoSourcesId,
		mdMsg: `
# No sources!

The description has no ` + "`[sources]`" + ` table and no archive was passed.

## Things you can try:
- Add the game archive to the description:
~~~toml
[sources]
archives = ["MyGame-1.0-pc.zip"]
~~~
- Or pass it on the command line:
~~~
$ flatpaker build game.toml --archive MyGame-1.0-pc.zip
~~~`,
	}

	missingSourceIssue = &Issue{
		id: MissingSourceId,
		mdMsg: `
# Source file missing!

A file listed in ` + "`[sources]`" + ` could not be read to compute its checksum.

## Things you can try:
- Relative source paths are resolved from the description's directory
- Check the file name, including the archive extension`,
	}

	builderNotFoundIssue = &Issue{
		id: BuilderNotFoundId,
		mdMsg: `
# flatpak-builder not found!

Building, exporting and installing need ` + "`flatpak`" + ` and ` + "`flatpak-builder`" + ` on your PATH.

## Things you can try:
- Install them with your distribution's package manager
- Use ` + "`flatpaker generate`" + ` to write the manifest without building`,
		extLinks: []HttpLink{"https://docs.flatpak.org/en/latest/flatpak-builder.html"},
	}

	buildFailedIssue = &Issue{
		id: BuildFailedId,
		mdMsg: `
# Build failed!

flatpak-builder exited with an error.

## Things you can try:
- Read the captured output in the log directory (` + "`flatpaker config show`" + ` prints it)
- Re-run with ` + "`--verbose`" + ` to stream builder output
- Re-run with ` + "`--no-cleanup`" + ` to keep the workspace and generated manifest
- Run ` + "`flatpaker install-deps`" + ` if the SDK is missing`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be parsed or does not match the schema.

## Things you can try:
- Write a fresh default file:
~~~
$ flatpaker config init
~~~
- Print the active file location:
~~~
$ flatpaker config path
~~~`,
	}

	issues = map[Id]*Issue{
		descriptionNotFoundIssue.Id(): descriptionNotFoundIssue,
		descriptionInvalidIssue.Id():  descriptionInvalidIssue,
		invalidAppIdIssue.Id():        invalidAppIdIssue,
		unknownEngineIssue.Id():       unknownEngineIssue,
		noSourcesIssue.Id():           noSourcesIssue,
		missingSourceIssue.Id():       missingSourceIssue,
		builderNotFoundIssue.Id():     builderNotFoundIssue,
		buildFailedIssue.Id():         buildFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}

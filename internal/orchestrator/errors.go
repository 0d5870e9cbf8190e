// SPDX-License-Identifier: MPL-2.0

package orchestrator

import (
	"errors"

	"github.com/flatpaker/flatpaker/internal/builder"
	"github.com/flatpaker/flatpaker/internal/engine"
	"github.com/flatpaker/flatpaker/internal/issue"
	"github.com/flatpaker/flatpaker/internal/metadata"
	"github.com/flatpaker/flatpaker/internal/source"
	"github.com/flatpaker/flatpaker/pkg/appid"
	"github.com/flatpaker/flatpaker/pkg/description"
)

// IssueFor maps an error from a batch to its catalog entry, or 0 when none
// applies.
func IssueFor(err error) issue.Id {
	if id := issue.IssueOf(err); id != 0 {
		return id
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, description.ErrDescriptionNotFound), errors.Is(err, description.ErrUnsupportedFormat):
		return issue.DescriptionNotFoundId
	case errors.Is(err, description.ErrInvalidDescription):
		return issue.DescriptionInvalidId
	case errors.Is(err, appid.ErrInvalidAppID):
		return issue.InvalidAppIdId
	case errors.Is(err, engine.ErrUnknownEngine):
		return issue.UnknownEngineId
	case errors.Is(err, source.ErrNoSources):
		return issue.NoSourcesId
	case errors.Is(err, source.ErrMissingSource):
		return issue.MissingSourceId
	case errors.Is(err, builder.ErrBuilderNotFound):
		return issue.BuilderNotFoundId
	case errors.Is(err, builder.ErrBuildFailed):
		return issue.BuildFailedId
	default:
		return 0
	}
}

// wrap attaches the description path, the failed stage and remediation hints.
func wrap(path, label string, err error) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	op := "build " + label
	if label == "" {
		op = "load description"
	}
	id := IssueFor(err)
	ctx := issue.NewErrorContext().
		WithOperation(op).
		WithResource(path).
		WithIssue(id)

	switch id {
	case issue.DescriptionNotFoundId:
		ctx.WithSuggestion("Check the description path; .toml, .cue and extension-less files are accepted")
	case issue.DescriptionInvalidId:
		ctx.WithSuggestion("Fix the listed fields; common and appdata.summary are required")
	case issue.InvalidAppIdId:
		ctx.WithSuggestion("Use a reverse_url with at least two elements, e.g. com.example")
	case issue.UnknownEngineId:
		ctx.WithSuggestion("Set common.engine to \"renpy\" or \"rpgmaker\"")
	case issue.NoSourcesId:
		ctx.WithSuggestion("Add a [sources] table or pass --archive")
	case issue.MissingSourceId:
		ctx.WithSuggestion("Source paths are relative to the description file")
	case issue.BuilderNotFoundId:
		ctx.WithSuggestion("Install flatpak-builder, or use 'flatpaker generate' to only write the manifest")
	case issue.BuildFailedId:
		ctx.WithSuggestion("Read the builder logs or re-run with --verbose")
		ctx.WithSuggestion("Re-run with --no-cleanup to inspect the generated manifest")
	}
	if errors.Is(err, metadata.ErrUnsupportedIcon) {
		ctx.WithSuggestion("common.icon must be a PNG, JPEG or WebP image")
	}

	return ctx.Wrap(err).BuildError()
}

func wrapDeltas(repo string, err error) error {
	return issue.NewErrorContext().
		WithOperation("generate static deltas").
		WithResource(repo).
		WithIssue(IssueFor(err)).
		WithSuggestion("Check that the repository exists and was exported with --export").
		Wrap(err).
		BuildError()
}

func wrapRuntime(version string, err error) error {
	return issue.NewErrorContext().
		WithOperation("install runtime " + builder.PlatformRef + "//" + version).
		WithIssue(IssueFor(err)).
		WithSuggestion("Make sure the flathub remote is configured for your user: flatpak remote-add --user --if-not-exists flathub https://dl.flathub.org/repo/flathub.flatpakrepo").
		Wrap(err).
		BuildError()
}

// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flatpaker/flatpaker/internal/engine"
	"github.com/flatpaker/flatpaker/internal/metadata"
	"github.com/flatpaker/flatpaker/internal/source"
	"github.com/flatpaker/flatpaker/pkg/appid"
	"github.com/flatpaker/flatpaker/pkg/description"
	"github.com/flatpaker/flatpaker/pkg/manifest"
)

type (
	// Options configure a Compiler.
	Options struct {
		Runtime Runtime
		Format  manifest.Format
	}

	// Compiler runs the description-to-manifest pipeline.
	Compiler struct {
		opts Options
	}

	// Result describes a compiled description.
	Result struct {
		AppID        appid.AppID
		ManifestPath string
		Manifest     manifest.Manifest
	}
)

// New creates a Compiler. Zero-valued options fall back to the flatpaker
// runtime and JSON output.
func New(opts Options) *Compiler {
	def := DefaultRuntimeIDs()
	if opts.Runtime.SDK == "" {
		opts.Runtime.SDK = def.SDK
	}
	if opts.Runtime.Runtime == "" {
		opts.Runtime.Runtime = def.Runtime
	}
	if opts.Runtime.Version == "" {
		opts.Runtime.Version = def.Version
	}
	if opts.Format == "" {
		opts.Format = manifest.FormatJSON
	}
	return &Compiler{opts: opts}
}

// Compile generates every file for desc inside workdir and returns the
// manifest. archives are the positional inputs used when the description has
// no sources table.
func (c *Compiler) Compile(ctx context.Context, desc *description.Description, workdir string, archives []string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, err := appid.New(desc.Common.ReverseURL, desc.Common.Name)
	if err != nil {
		return nil, err
	}

	gen, err := engine.For(desc.Common.Engine)
	if err != nil {
		return nil, err
	}

	resolved, err := source.Resolve(desc.Sources, archives, gen.DefaultFileDest())
	if err != nil {
		return nil, err
	}

	in := engine.Input{Description: desc, Sources: resolved, AppID: id}
	if desc.Common.Icon != "" && desc.Workarounds.IconEnabled() {
		icon, err := metadata.NormalizeIcon(desc.Common.Icon, workdir, id)
		if err != nil {
			return nil, err
		}
		src := icon.Source()
		in.Icon = &src
	}

	rules, err := gen.Generate(in)
	if err != nil {
		return nil, err
	}

	desktop, err := metadata.WriteDesktop(desc, id, workdir)
	if err != nil {
		return nil, err
	}
	appdata, err := metadata.WriteAppData(desc, id, workdir)
	if err != nil {
		return nil, err
	}

	m := Assemble(c.opts.Runtime, id, rules, metadata.DesktopModule(desktop), metadata.AppDataModule(appdata))
	data, err := manifest.Encode(m, c.opts.Format)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(workdir, manifest.Filename(id.String(), c.opts.Format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	slog.Debug("compiled manifest", "appid", id, "engine", gen.Engine(), "path", path, "modules", len(m.Modules))
	return &Result{AppID: id, ManifestPath: path, Manifest: m}, nil
}

// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/flatpaker/flatpaker/internal/source"
	"github.com/flatpaker/flatpaker/pkg/appid"
	"github.com/flatpaker/flatpaker/pkg/manifest"
)

// profile is the per-engine data the shared generator is parameterized by.
type profile struct {
	x11Default bool
	// patch rewrites the hard-coded save directory to honor XDG_DATA_HOME.
	patch string
	// compile recompiles game bytecode; empty when the engine has none.
	compile string
	cleanup []string
	// iconProbe, when set, runs before the icon install and assigns $icon.
	iconProbe string
	iconPath  string
	launcher  func(x11 bool) string
}

// generate builds the rules shared by every engine from p.
func generate(p profile, in Input) (*Rules, error) {
	desc := in.Description
	x11 := desc.Workarounds.X11(p.x11Default)

	primary, err := primaryModule(p, in)
	if err != nil {
		return nil, err
	}

	launcher, err := launcherModule(p.launcher(x11))
	if err != nil {
		return nil, err
	}

	rules := &Rules{
		Primary:  []manifest.Module{primary},
		Launcher: launcher,
		X11:      x11,
	}

	if desc.Workarounds.IconEnabled() {
		icon, err := iconModule(p, in)
		if err != nil {
			return nil, err
		}
		rules.Icon = &icon
	}
	return rules, nil
}

func primaryModule(p profile, in Input) (manifest.Module, error) {
	name := appid.Sanitize(in.Description.Common.Name)

	cmds := []string{
		"mkdir -p " + GameDir,
		fmt.Sprintf(`find . -mindepth 1 -maxdepth 1 ! -name %s -exec cp -R {} %s/ \;`, source.ExtraDir, GameDir),
		p.patch,
	}
	if p.compile != "" {
		cmds = append(cmds, p.compile)
	}

	extras := source.Files(in.Sources)
	for _, dest := range extras {
		target := path.Join(GameDir, dest)
		staged := path.Join(source.ExtraDir, dest)
		cmds = append(cmds,
			"mkdir -p "+quote(target),
			fmt.Sprintf("cp -R %s/. %s/", quote(staged), quote(target)),
		)
	}
	if p.compile != "" && len(extras) > 0 {
		cmds = append(cmds, p.compile)
	}

	mod := manifest.NewModule(name, source.ToManifestAll(in.Sources), cmds...)
	mod.Cleanup = append([]string(nil), p.cleanup...)
	return mod, validate(mod)
}

func launcherModule(body string) (manifest.Module, error) {
	if err := parse(LauncherModuleName, body); err != nil {
		return manifest.Module{}, err
	}
	mod := manifest.NewModule(LauncherModuleName, nil,
		"mkdir -p "+path.Dir(LauncherPath),
		fmt.Sprintf("printf '%%s\\n' '#!/bin/sh' %s > %s", quote(body), LauncherPath),
		"chmod +x "+LauncherPath,
	)
	return mod, validate(mod)
}

func iconModule(p profile, in Input) (manifest.Module, error) {
	dst := path.Join(IconDir, in.AppID.String()+".png")

	if in.Icon != nil {
		mod := manifest.NewModule(IconModuleName, []manifest.Source{*in.Icon},
			fmt.Sprintf("install -Dm644 %s %s", quote(path.Base(in.Icon.Path)), quote(dst)),
		)
		return mod, validate(mod)
	}

	src := quote(p.iconPath)
	var install string
	switch webp, set := in.Description.Workarounds.IconWebP(); {
	case set && webp:
		install = fmt.Sprintf("dwebp %s -o %s", src, dst)
	case set:
		install = fmt.Sprintf("cp %s %s", src, dst)
	default:
		install = fmt.Sprintf(`if [ "$(file --brief --mime-type %s)" = image/webp ]; then dwebp %s -o %s; else cp %s %s; fi`,
			src, src, dst, src, dst)
	}
	if p.iconProbe != "" {
		install = p.iconProbe + "; " + install
	}

	mod := manifest.NewModule(IconModuleName, nil, "mkdir -p "+IconDir, install)
	return mod, validate(mod)
}

// displayBackend names the backend for SDL_VIDEODRIVER and --ozone-platform.
func displayBackend(x11 bool) string {
	if x11 {
		return "x11"
	}
	return "wayland"
}

// plainWord matches strings that need no shell quoting.
var plainWord = regexp.MustCompile(`^[A-Za-z0-9_./+-]+$`)

// quote shell-quotes s. Values starting with '$' are shell expressions and
// are double-quoted instead.
func quote(s string) string {
	switch {
	case plainWord.MatchString(s):
		return s
	case strings.HasPrefix(s, "$"):
		return `"` + s + `"`
	}
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		// Only strings with NUL or invalid UTF-8 cannot be quoted; the
		// resulting command then fails validation.
		return s
	}
	return q
}

func validate(mod manifest.Module) error {
	for _, cmd := range mod.BuildCommands {
		if err := parse(mod.Name, cmd); err != nil {
			return err
		}
	}
	return nil
}

func parse(module, cmd string) error {
	_, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(strings.NewReader(cmd), module)
	if err != nil {
		return &InvalidCommandError{Module: module, Command: cmd, Err: err}
	}
	return nil
}

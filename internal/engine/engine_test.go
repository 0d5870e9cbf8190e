// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/flatpaker/flatpaker/internal/source"
	"github.com/flatpaker/flatpaker/pkg/description"
	"github.com/flatpaker/flatpaker/pkg/manifest"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func newInput(engine description.Engine, w *description.Workarounds, sources ...source.Resolved) Input {
	if sources == nil {
		sources = []source.Resolved{{Kind: source.KindArchive, Path: "/g/game.zip", SHA256: "abc", StripComponents: intPtr(1)}}
	}
	return Input{
		Description: &description.Description{
			Common: description.Common{
				ReverseURL: "com.example",
				Name:       "My Game",
				Categories: []string{"RolePlaying"},
				Engine:     engine,
			},
			AppData:     description.AppData{Summary: "A game"},
			Workarounds: w,
		},
		Sources: sources,
		AppID:   "com.example.My_Game",
	}
}

func commands(m manifest.Module) string { return strings.Join(m.BuildCommands, "\n") }

func TestFor(t *testing.T) {
	t.Parallel()

	for _, e := range []description.Engine{description.EngineRenPy, description.EngineRPGMaker} {
		g, err := For(e)
		if err != nil {
			t.Fatalf("For(%q) error = %v", e, err)
		}
		if g.Engine() != e {
			t.Errorf("For(%q).Engine() = %q", e, g.Engine())
		}
	}
	if _, err := For("godot"); !errors.Is(err, ErrUnknownEngine) {
		t.Errorf("For(godot) error = %v, want ErrUnknownEngine", err)
	}
}

func TestRenPy_Generate(t *testing.T) {
	t.Parallel()

	rules, err := RenPy{}.Generate(newInput(description.EngineRenPy, nil))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !rules.X11 {
		t.Error("Ren'Py should default to X11")
	}
	if len(rules.Primary) != 1 || rules.Primary[0].Name != "My_Game" {
		t.Fatalf("primary = %+v", rules.Primary)
	}

	primary := rules.Primary[0]
	cmds := commands(primary)
	for _, want := range []string{
		"mkdir -p /app/lib/game",
		`os.environ.get("XDG_DATA_HOME", "~/.local/share")`,
		"sh ./*.sh . compile --keep-orphan-rpyc",
	} {
		if !strings.Contains(cmds, want) {
			t.Errorf("primary commands missing %q:\n%s", want, cmds)
		}
	}
	if strings.Count(cmds, "compile --keep-orphan-rpyc") != 1 {
		t.Error("compile should run once without extra files")
	}
	if len(primary.Sources) != 1 || primary.Sources[0].Type != manifest.SourceArchive {
		t.Errorf("primary sources = %+v", primary.Sources)
	}
	for _, glob := range []string{"*.exe", "*.app", "*.rpyc.bak", "/lib/game/lib/*-i686"} {
		if !slices.Contains(primary.Cleanup, glob) {
			t.Errorf("cleanup missing %q: %v", glob, primary.Cleanup)
		}
	}

	launcher := commands(rules.Launcher)
	if rules.Launcher.Name != LauncherModuleName {
		t.Errorf("launcher name = %q", rules.Launcher.Name)
	}
	for _, want := range []string{"SDL_VIDEODRIVER=x11", "RENPY_PERFORMANCE_TEST=0", "chmod +x /app/bin/game.sh"} {
		if !strings.Contains(launcher, want) {
			t.Errorf("launcher missing %q:\n%s", want, launcher)
		}
	}

	if rules.Icon == nil {
		t.Fatal("icon module should be present by default")
	}
	icon := commands(*rules.Icon)
	if !strings.Contains(icon, "/app/lib/game/game/gui/window_icon.png") {
		t.Errorf("icon should come from window_icon.png:\n%s", icon)
	}
	if !strings.Contains(icon, "file --brief --mime-type") {
		t.Errorf("unset icon_is_webp should probe at build time:\n%s", icon)
	}
	if !strings.Contains(icon, "/app/share/icons/hicolor/256x256/apps/com.example.My_Game.png") {
		t.Errorf("icon destination wrong:\n%s", icon)
	}
}

func TestRenPy_Wayland(t *testing.T) {
	t.Parallel()

	rules, err := RenPy{}.Generate(newInput(description.EngineRenPy, &description.Workarounds{UseX11: boolPtr(false)}))
	if err != nil {
		t.Fatal(err)
	}
	if rules.X11 {
		t.Error("use_x11=false should select Wayland")
	}
	if !strings.Contains(commands(rules.Launcher), "SDL_VIDEODRIVER=wayland") {
		t.Errorf("launcher should select wayland:\n%s", commands(rules.Launcher))
	}
}

func TestRenPy_ExtraFilesRecompile(t *testing.T) {
	t.Parallel()

	in := newInput(description.EngineRenPy, nil,
		source.Resolved{Kind: source.KindArchive, Path: "/g/game.zip", SHA256: "a", StripComponents: intPtr(1)},
		source.Resolved{Kind: source.KindFile, Path: "/g/extra.rpy", SHA256: "b", Dest: "game"},
	)
	rules, err := RenPy{}.Generate(in)
	if err != nil {
		t.Fatal(err)
	}
	cmds := rules.Primary[0].BuildCommands

	copyIdx, lastCompile := -1, -1
	for i, c := range cmds {
		if strings.HasPrefix(c, "cp -R _flatpaker_extra/game/. /app/lib/game/game/") {
			copyIdx = i
		}
		if strings.Contains(c, "compile --keep-orphan-rpyc") {
			lastCompile = i
		}
	}
	if copyIdx < 0 {
		t.Fatalf("extra file copy missing:\n%s", strings.Join(cmds, "\n"))
	}
	if lastCompile < copyIdx {
		t.Errorf("compile must re-run after extra files are copied:\n%s", strings.Join(cmds, "\n"))
	}
	if rules.Primary[0].Sources[1].Dest != "_flatpaker_extra/game" {
		t.Errorf("file source dest = %q", rules.Primary[0].Sources[1].Dest)
	}
}

func TestRPGMaker_Generate(t *testing.T) {
	t.Parallel()

	rules, err := RPGMaker{}.Generate(newInput(description.EngineRPGMaker, nil))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if rules.X11 {
		t.Error("RPGMaker should default to Wayland")
	}

	cmds := commands(rules.Primary[0])
	if !strings.Contains(cmds, "-name '*_managers.js'") || !strings.Contains(cmds, "process.env.XDG_DATA_HOME") {
		t.Errorf("save path patch missing:\n%s", cmds)
	}
	if strings.Contains(cmds, "compile") {
		t.Errorf("RPGMaker has no recompile step:\n%s", cmds)
	}
	if !slices.Contains(rules.Primary[0].Cleanup, "/lib/game/www/save") {
		t.Errorf("cleanup = %v", rules.Primary[0].Cleanup)
	}

	launcher := commands(rules.Launcher)
	if !strings.Contains(launcher, "exec /usr/lib/nwjs/nw /app/lib/game/ --enable-features=UseOzonePlatform --ozone-platform=wayland") {
		t.Errorf("launcher = %s", launcher)
	}

	icon := commands(*rules.Icon)
	for _, want := range []string{"/app/lib/game/www/icon", "/app/lib/game/icon/icon.png", `"$icon"`} {
		if !strings.Contains(icon, want) {
			t.Errorf("icon probe missing %q:\n%s", want, icon)
		}
	}
}

func TestRPGMaker_NoWaylandAlias(t *testing.T) {
	t.Parallel()

	rules, err := RPGMaker{}.Generate(newInput(description.EngineRPGMaker, &description.Workarounds{NoWayland: boolPtr(true)}))
	if err != nil {
		t.Fatal(err)
	}
	if !rules.X11 || !strings.Contains(commands(rules.Launcher), "--ozone-platform=x11") {
		t.Errorf("no_wayland=true should select x11: %s", commands(rules.Launcher))
	}
}

func TestGenerate_IconPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		w         *description.Workarounds
		wantIcon  bool
		contains  string
		forbidden string
	}{
		{"icon disabled", &description.Workarounds{Icon: boolPtr(false)}, false, "", ""},
		{"webp flag true", &description.Workarounds{IconIsWebP: boolPtr(true)}, true, "dwebp", "file --brief"},
		{"webp flag false", &description.Workarounds{IconIsWebP: boolPtr(false)}, true, "cp /app/lib/game/game/gui/window_icon.png", "dwebp"},
		{"webp unset", nil, true, "file --brief --mime-type", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rules, err := RenPy{}.Generate(newInput(description.EngineRenPy, tt.w))
			if err != nil {
				t.Fatal(err)
			}
			if (rules.Icon != nil) != tt.wantIcon {
				t.Fatalf("icon present = %v, want %v", rules.Icon != nil, tt.wantIcon)
			}
			if !tt.wantIcon {
				return
			}
			cmds := commands(*rules.Icon)
			if !strings.Contains(cmds, tt.contains) {
				t.Errorf("icon commands missing %q:\n%s", tt.contains, cmds)
			}
			if tt.forbidden != "" && strings.Contains(cmds, tt.forbidden) {
				t.Errorf("icon commands should not contain %q:\n%s", tt.forbidden, cmds)
			}
		})
	}
}

func TestGenerate_ExternalIcon(t *testing.T) {
	t.Parallel()

	in := newInput(description.EngineRPGMaker, nil)
	in.Icon = &manifest.Source{Type: manifest.SourceFile, Path: "/tmp/ws/com.example.My_Game.png", SHA256: "d"}
	rules, err := RPGMaker{}.Generate(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules.Icon.Sources) != 1 {
		t.Fatalf("external icon should be a module source: %+v", rules.Icon)
	}
	cmds := commands(*rules.Icon)
	if !strings.Contains(cmds, "install -Dm644 com.example.My_Game.png /app/share/icons/hicolor/256x256/apps/com.example.My_Game.png") {
		t.Errorf("icon commands:\n%s", cmds)
	}
	if strings.Contains(cmds, "$icon") {
		t.Error("external icon should not probe the game tree")
	}
}

func TestParse_InvalidCommand(t *testing.T) {
	t.Parallel()

	err := parse("broken", `if [ -d x ]; then echo`)
	var cmdErr *InvalidCommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *InvalidCommandError, got %v", err)
	}
	if !errors.Is(err, ErrInvalidCommand) || cmdErr.Module != "broken" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	if got := quote("/app/lib/game/js"); got != "/app/lib/game/js" {
		t.Errorf("plain path quoted: %q", got)
	}
	if got := quote("$icon"); got != `"$icon"` {
		t.Errorf("variable quote = %q", got)
	}
	if got := quote("my dir"); got == "my dir" {
		t.Error("string with a space must be quoted")
	}
	if err := parse("q", "mkdir -p "+quote("/app/lib/game/it's here")); err != nil {
		t.Errorf("quoted apostrophe does not parse: %v", err)
	}
}

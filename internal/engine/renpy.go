// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"fmt"

	"github.com/flatpaker/flatpaker/pkg/description"
)

const renpyCompile = "cd " + GameDir + " && sh ./*.sh . compile --keep-orphan-rpyc"

// RenPy generates modules for Ren'Py games.
//
// Ren'Py writes saves to ~/.renpy; the primary module patches that to
// $XDG_DATA_HOME so the game needs no home directory access. Extra script
// files are compiled together with the game, and the plaintext scripts are
// removed afterwards.
type RenPy struct{}

// Engine returns description.EngineRenPy.
func (RenPy) Engine() description.Engine { return description.EngineRenPy }

// DefaultFileDest places loose files in the game/ script directory.
func (RenPy) DefaultFileDest() string { return "game" }

// Generate implements Generator.
func (RenPy) Generate(in Input) (*Rules, error) {
	return generate(renpyProfile, in)
}

var renpyProfile = profile{
	x11Default: true,
	patch:      `sed -i 's@"~/.renpy/"@os.environ.get("XDG_DATA_HOME", "~/.local/share") + "/"@g' ` + GameDir + `/*.py`,
	compile:    renpyCompile,
	cleanup: []string{
		"*.exe",
		"*.app",
		"*.rpyc.bak",
		"/lib/game/game/*.rpy",
		"/lib/game/lib/*darwin-*",
		"/lib/game/lib/*windows-*",
		"/lib/game/lib/*-i686",
	},
	iconPath: GameDir + "/game/gui/window_icon.png",
	launcher: func(x11 bool) string {
		return fmt.Sprintf(`cd %s && export SDL_VIDEODRIVER=%s && export RENPY_PERFORMANCE_TEST=0 && exec sh ./*.sh "$@"`,
			GameDir, displayBackend(x11))
	},
}

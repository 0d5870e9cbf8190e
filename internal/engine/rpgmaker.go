// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"fmt"

	"github.com/flatpaker/flatpaker/pkg/description"
)

// RPGMaker generates modules for RPGMaker MV and MZ games, which run on the
// nwjs runtime shipped by the flatpaker SDK.
type RPGMaker struct{}

// Engine returns description.EngineRPGMaker.
func (RPGMaker) Engine() description.Engine { return description.EngineRPGMaker }

// DefaultFileDest places loose files in the game root.
func (RPGMaker) DefaultFileDest() string { return "" }

// Generate implements Generator.
func (RPGMaker) Generate(in Input) (*Rules, error) {
	return generate(rpgmakerProfile, in)
}

var rpgmakerProfile = profile{
	x11Default: false,
	// MV ships rpg_managers.js, MZ rmmz_managers.js.
	patch: `find ` + GameDir + ` -name '*_managers.js' -exec sed -i 's@path.dirname(process.mainModule.filename)@process.env.XDG_DATA_HOME@g' {} +`,
	cleanup: []string{
		"*.exe",
		"*.dll",
		"*.desktop",
		"/lib/game/www/save",
		"/lib/game/save",
	},
	// MV keeps the customized icon in www/icon, MZ in icon/.
	iconProbe: `if [ -d ` + GameDir + `/www/icon ]; then icon=` + GameDir + `/www/icon/icon.png; else icon=` + GameDir + `/icon/icon.png; fi`,
	iconPath:  "$icon",
	launcher: func(x11 bool) string {
		return fmt.Sprintf(`exec /usr/lib/nwjs/nw %s/ --enable-features=UseOzonePlatform --ozone-platform=%s "$@"`,
			GameDir, displayBackend(x11))
	},
}

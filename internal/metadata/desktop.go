// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/flatpaker/flatpaker/pkg/appid"
	"github.com/flatpaker/flatpaker/pkg/description"
)

const desktopSection = "Desktop Entry"

// entryEscaper applies the Desktop Entry escapes for string values.
var entryEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

// Desktop renders the desktop entry for desc.
func Desktop(desc *description.Description, id appid.AppID) ([]byte, error) {
	// Categories end in ';', which ini would otherwise treat as a comment.
	cfg := ini.Empty(ini.LoadOptions{IgnoreInlineComment: true})
	sec, err := cfg.NewSection(desktopSection)
	if err != nil {
		return nil, fmt.Errorf("desktop entry: %w", err)
	}

	keys := [][2]string{
		{"Name", entryEscaper.Replace(strings.TrimSpace(desc.Common.Name))},
		{"Exec", "game.sh"},
		{"Type", "Application"},
		{"Categories", categoryList(desc.Common.Categories)},
	}
	if desc.Workarounds.IconEnabled() {
		keys = append(keys, [2]string{"Icon", id.String()})
	}
	for _, kv := range keys {
		if _, err := sec.NewKey(kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("desktop entry key %s: %w", kv[0], err)
		}
	}

	return encodeEntry(sec), nil
}

// encodeEntry writes sec as bare "Key=value" lines. ini's own writer pads
// the '=' and quotes values holding backticks or edge spaces, and desktop
// parsers would keep those quotes literally.
func encodeEntry(sec *ini.Section) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[%s]\n", sec.Name())
	for _, key := range sec.Keys() {
		fmt.Fprintf(&buf, "%s=%s\n", key.Name(), key.Value())
	}
	return buf.Bytes()
}

// WriteDesktop writes <appid>.desktop into dir.
func WriteDesktop(desc *description.Description, id appid.AppID, dir string) (File, error) {
	data, err := Desktop(desc, id)
	if err != nil {
		return File{}, err
	}
	return writeFile(dir, id.String()+".desktop", data)
}

// categoryList returns "Game;<c1>;...;".
func categoryList(categories []string) string {
	return strings.Join(append([]string{"Game"}, categories...), ";") + ";"
}

// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/webp"

	"github.com/flatpaker/flatpaker/pkg/appid"
)

// ErrUnsupportedIcon is returned when an external icon is not a PNG, JPEG or WebP image.
var ErrUnsupportedIcon = errors.New("unsupported icon format")

// NormalizeIcon converts the external icon at src to PNG and writes it to
// dir as <appid>.png. PNG input is copied byte for byte; anything else the
// registered decoders understand (WebP mislabeled as .png included) is
// re-encoded.
func NormalizeIcon(src, dir string, id appid.AppID) (File, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return File{}, fmt.Errorf("read icon: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return File{}, fmt.Errorf("%w: %s: %v", ErrUnsupportedIcon, src, err)
	}

	if format != "png" {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return File{}, fmt.Errorf("encode icon %s as png: %w", src, err)
		}
		data = buf.Bytes()
	}

	return writeFile(dir, id.String()+".png", data)
}

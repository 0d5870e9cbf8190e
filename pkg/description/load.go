// SPDX-License-Identifier: MPL-2.0

package description

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/flatpaker/flatpaker/pkg/cueutil"
)

const schemaDefinition = "#Description"

//go:embed description_schema.cue
var schemaBytes []byte

// dateLayout is the release date format AppStream expects.
const dateLayout = "2006-01-02"

// Load reads, validates and path-normalizes the description at path.
// The format is chosen by extension: ".cue" for CUE, anything else is TOML.
func Load(path string) (*Description, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve description path %s: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDescriptionNotFound, abs)
		}
		return nil, fmt.Errorf("read description %s: %w", abs, err)
	}

	return Parse(data, abs)
}

// Parse decodes description data that was read from path. Relative paths
// inside the description are resolved against filepath.Dir(path), which
// should therefore be absolute.
func Parse(data []byte, path string) (*Description, error) {
	var (
		result *cueutil.ParseResult[Description]
		err    error
	)
	name := filepath.Base(path)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		result, err = cueutil.ParseAndDecode[Description](schemaBytes, data, schemaDefinition, cueutil.WithFilename(name))
	case ".toml", "":
		result, err = parseTOML(data, name)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, &InvalidDescriptionError{Path: path, FieldErrors: []error{err}}
	}

	desc := result.Value
	desc.Path = path
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	desc.absolutize(filepath.Dir(path))
	return desc, nil
}

func parseTOML(data []byte, name string) (*cueutil.ParseResult[Description], error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, name); err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %s", name, row, col, derr.Error())
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return cueutil.DecodeValue[Description](schemaBytes, normalizeDates(raw), schemaDefinition, cueutil.WithFilename(name))
}

// normalizeDates rewrites TOML date and datetime literals to YYYY-MM-DD
// strings so that unquoted release dates validate like quoted ones.
func normalizeDates(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeDates(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalizeDates(e)
		}
		return x
	case toml.LocalDate:
		return x.String()
	case toml.LocalDateTime:
		return x.LocalDate.String()
	case time.Time:
		return x.Format(dateLayout)
	default:
		return v
	}
}

func (d *Description) absolutize(dir string) {
	if d.Common.Icon != "" {
		d.Common.Icon = absPath(dir, d.Common.Icon)
	}
	if d.Sources == nil {
		return
	}
	for _, entries := range [][]SourceEntry{d.Sources.Archives, d.Sources.Files, d.Sources.Patches} {
		for i := range entries {
			entries[i].Path = absPath(dir, entries[i].Path)
		}
	}
}

func absPath(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

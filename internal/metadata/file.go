// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flatpaker/flatpaker/pkg/checksum"
	"github.com/flatpaker/flatpaker/pkg/manifest"
)

const (
	DesktopModuleName = "desktop_file"
	AppDataModuleName = "appdata_file"

	applicationsDir = "/app/share/applications"
	metainfoDir     = "/app/share/metainfo"
)

// File is a generated file in the workspace together with its digest.
type File struct {
	Path   string
	Digest checksum.Digest
}

// Source returns the manifest file source for f.
func (f File) Source() manifest.Source {
	return manifest.Source{
		Type:   manifest.SourceFile,
		Path:   f.Path,
		SHA256: f.Digest.String(),
	}
}

// DesktopModule installs the desktop entry.
func DesktopModule(f File) manifest.Module {
	return installModule(DesktopModuleName, f, applicationsDir)
}

// AppDataModule installs the metainfo file.
func AppDataModule(f File) manifest.Module {
	return installModule(AppDataModuleName, f, metainfoDir)
}

func installModule(name string, f File, dir string) manifest.Module {
	base := filepath.Base(f.Path)
	return manifest.NewModule(name, []manifest.Source{f.Source()},
		fmt.Sprintf("install -Dm644 %s %s/%s", base, dir, base),
	)
}

func writeFile(dir, name string, data []byte) (File, error) {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return File{}, fmt.Errorf("write %s: %w", p, err)
	}
	return File{Path: p, Digest: checksum.Bytes(data)}, nil
}

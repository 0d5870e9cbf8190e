// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"github.com/flatpaker/flatpaker/internal/engine"
	"github.com/flatpaker/flatpaker/pkg/appid"
	"github.com/flatpaker/flatpaker/pkg/manifest"
)

const (
	DefaultSDK            = "com.github.dcbaker.flatpaker.Sdk//master"
	DefaultRuntime        = "com.github.dcbaker.flatpaker.Platform"
	DefaultRuntimeVersion = "master"

	launchCommand = "game.sh"
)

// Runtime identifies the SDK and runtime the manifest builds against.
type Runtime struct {
	SDK     string
	Runtime string
	Version string
}

// DefaultRuntimeIDs returns the flatpaker SDK and platform.
func DefaultRuntimeIDs() Runtime {
	return Runtime{SDK: DefaultSDK, Runtime: DefaultRuntime, Version: DefaultRuntimeVersion}
}

// Assemble builds the manifest. Module order is fixed: primary modules,
// icon, launcher, desktop entry, metainfo.
func Assemble(rt Runtime, id appid.AppID, rules *engine.Rules, desktop, appdata manifest.Module) manifest.Manifest {
	modules := make([]manifest.Module, 0, len(rules.Primary)+4)
	modules = append(modules, rules.Primary...)
	if rules.Icon != nil {
		modules = append(modules, *rules.Icon)
	}
	modules = append(modules, rules.Launcher, desktop, appdata)

	return manifest.Manifest{
		SDK:            rt.SDK,
		Runtime:        rt.Runtime,
		RuntimeVersion: rt.Version,
		ID:             id.String(),
		BuildOptions:   manifest.BuildOptions{NoDebuginfo: true, Strip: false},
		Command:        launchCommand,
		FinishArgs:     FinishArgs(rules.X11),
		Modules:        modules,
	}
}

// FinishArgs returns the sandbox permissions: audio always, the display
// sockets for the chosen backend, and GPU access last.
func FinishArgs(x11 bool) []string {
	args := []string{"--socket=pulseaudio"}
	if x11 {
		args = append(args, "--socket=x11")
	} else {
		args = append(args, "--socket=wayland", "--socket=fallback-x11")
	}
	return append(args, "--device=dri")
}

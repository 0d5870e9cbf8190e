// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"fmt"

	"github.com/flatpaker/flatpaker/internal/source"
	"github.com/flatpaker/flatpaker/pkg/appid"
	"github.com/flatpaker/flatpaker/pkg/description"
	"github.com/flatpaker/flatpaker/pkg/manifest"
)

const (
	// GameDir is where the game is installed inside the sandbox.
	GameDir = "/app/lib/game"
	// LauncherPath is the launch script the manifest's command runs.
	LauncherPath = "/app/bin/game.sh"
	// IconDir is the hicolor directory the exported icon is installed to.
	IconDir = "/app/share/icons/hicolor/256x256/apps"

	LauncherModuleName = "game_sh"
	IconModuleName     = "icon"
)

var (
	// ErrUnknownEngine is returned by For for engines without a generator.
	ErrUnknownEngine = errors.New("unknown engine")

	// ErrInvalidCommand is the sentinel error wrapped by InvalidCommandError.
	ErrInvalidCommand = errors.New("generated build command does not parse")
)

type (
	// Generator produces the engine-specific modules for one description.
	Generator interface {
		// Engine returns the engine this generator handles.
		Engine() description.Engine
		// DefaultFileDest is the destination of loose files that declare none,
		// relative to GameDir.
		DefaultFileDest() string
		// Generate builds the modules. It performs no I/O.
		Generate(in Input) (*Rules, error)
	}

	// Input is everything a Generator consumes.
	Input struct {
		Description *description.Description
		Sources     []source.Resolved
		AppID       appid.AppID
		// Icon is the normalized external icon, when the description names one.
		Icon *manifest.Source
	}

	// Rules are the generated modules plus the display decision the
	// assembler needs for finish-args.
	Rules struct {
		Primary  []manifest.Module
		Icon     *manifest.Module
		Launcher manifest.Module
		X11      bool
	}

	// InvalidCommandError is returned when a generated command is not valid shell.
	InvalidCommandError struct {
		Module  string
		Command string
		Err     error
	}
)

// For returns the generator for e.
func For(e description.Engine) (Generator, error) {
	switch e {
	case description.EngineRenPy:
		return RenPy{}, nil
	case description.EngineRPGMaker:
		return RPGMaker{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, e)
	}
}

// Error implements the error interface for InvalidCommandError.
func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("module %s: command %q: %v", e.Module, e.Command, e.Err)
}

// Unwrap returns ErrInvalidCommand for errors.Is() compatibility.
func (e *InvalidCommandError) Unwrap() error { return ErrInvalidCommand }

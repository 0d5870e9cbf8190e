// SPDX-License-Identifier: MPL-2.0

// Package workspace manages the per-description temporary directory that
// generated files and the flatpak-builder build directory live in.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/flatpaker/flatpaker/pkg/appid"
)

var (
	// ErrEmptyName is returned when a workspace is requested for an empty name.
	ErrEmptyName = errors.New("workspace name is empty")
	// ErrOutsideRoot is returned when a name would place the workspace
	// anywhere other than directly below the manager's root.
	ErrOutsideRoot = errors.New("workspace escapes its root")
)

type (
	// Workspace is a directory scoped to one description.
	Workspace struct {
		dir  string
		keep bool
	}

	// Manager creates workspaces under a common root.
	Manager struct {
		root string
		keep bool
	}
)

// NewManager returns a Manager rooted at root. When keep is true workspaces
// survive Close for debugging.
func NewManager(root string, keep bool) *Manager {
	return &Manager{root: root, keep: keep}
}

// Acquire creates (or reuses) the workspace for the game called name. The
// directory is <root>/<token>, where the token is the sanitized name with
// every character outside [A-Za-z0-9_-] replaced by '_'.
func (m *Manager) Acquire(name string) (*Workspace, error) {
	token := dirToken(name)
	if token == "" {
		return nil, ErrEmptyName
	}
	dir, err := m.child(token)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", dir, err)
	}
	return &Workspace{dir: dir, keep: m.keep}, nil
}

// child joins token onto the root and verifies the result is a direct child.
func (m *Manager) child(token string) (string, error) {
	root := filepath.Clean(m.root)
	dir := filepath.Join(root, token)
	if filepath.Dir(dir) != root || filepath.Base(dir) != token {
		return "", fmt.Errorf("%w: %q under %s", ErrOutsideRoot, token, root)
	}
	return dir, nil
}

func dirToken(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, appid.Sanitize(name))
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string { return w.dir }

// BuildDir is the flatpak-builder build directory inside the workspace.
func (w *Workspace) BuildDir() string { return filepath.Join(w.dir, "build") }

// Close removes the workspace unless it was acquired with keep.
func (w *Workspace) Close() error {
	if w.keep {
		slog.Info("keeping workspace", "dir", w.dir)
		return nil
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("remove workspace %s: %w", w.dir, err)
	}
	return nil
}

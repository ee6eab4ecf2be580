//go:build !windows
// +build !windows

package locate

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

var errNoRegistry = errors.New("no registry on " + runtime.GOOS)

func registrySteamPath() (string, error) {
	return "", errNoRegistry
}

func defaultRoots() []string {
	home := os.Getenv("HOME")
	if home == "" {
		return nil
	}

	switch runtime.GOOS {
	case "darwin":
		return []string{filepath.Join(home, "Library", "Application Support", "Steam")}
	default:
		var roots []string
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			roots = append(roots, filepath.Join(xdgData, "Steam"))
		}
		return append(roots,
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".local", "share", "Steam"),
		)
	}
}

//go:build windows
// +build windows

package locate

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

// registrySteamPath reads HKCU\Software\Valve\Steam\SteamPath.
func registrySteamPath() (string, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, `Software\Valve\Steam`, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer key.Close()

	value, _, err := key.GetStringValue("SteamPath")
	if err != nil {
		return "", err
	}
	// Steam stores the path with forward slashes.
	return filepath.FromSlash(value), nil
}

func defaultRoots() []string {
	var roots []string
	for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
		if dir := os.Getenv(env); dir != "" {
			roots = append(roots, filepath.Join(dir, "Steam"))
		}
	}
	return roots
}

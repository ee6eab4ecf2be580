// Package locate finds the Steam installation and the patch target inside it
package locate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// SteamPathEnv overrides every other Steam root source except an explicit path.
const SteamPathEnv = "ROBEPATCH_STEAM_PATH"

var (
	ErrInstallNotFound = errors.New("❌ Steam installation not found")
	ErrTargetMissing   = errors.New("❌ target file not found")
)

// lookupRegistry is replaced in tests.
var lookupRegistry = registrySteamPath

// SteamRoot returns the Steam installation directory.
//
// Sources are tried in order: explicit, $ROBEPATCH_STEAM_PATH, the Windows
// registry, then the platform's usual install directories. An explicit or
// environment path that does not exist is an error rather than a fallthrough.
func SteamRoot(explicit string, logger hclog.Logger) (string, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if explicit != "" {
		return requireDir(explicit, "flag")
	}
	if env := os.Getenv(SteamPathEnv); env != "" {
		return requireDir(env, SteamPathEnv)
	}

	if path, err := lookupRegistry(); err == nil && path != "" {
		if isDir(path) {
			logger.Debug("🔍 Steam root from registry", "path", path)
			return filepath.Clean(path), nil
		}
		logger.Warn("Registry Steam path does not exist", "path", path)
	} else if err != nil {
		logger.Trace("Registry lookup unavailable", "error", err)
	}

	for _, candidate := range defaultRoots() {
		if isDir(candidate) {
			logger.Debug("🔍 Steam root from default location", "path", candidate)
			return candidate, nil
		}
	}
	return "", ErrInstallNotFound
}

// ResolveTarget joins a slash-separated suffix onto root and checks that the
// result is an existing regular file.
func ResolveTarget(root, suffix string) (string, error) {
	return CheckTarget(filepath.Join(root, filepath.FromSlash(suffix)))
}

// CheckTarget verifies that path names an existing file.
func CheckTarget(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrTargetMissing, path)
		}
		return "", fmt.Errorf("%w: %s: %w", ErrTargetMissing, path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrTargetMissing, path)
	}
	return path, nil
}

func requireDir(path, source string) (string, error) {
	if !isDir(path) {
		return "", fmt.Errorf("%w: %s path %q is not a directory", ErrInstallNotFound, source, path)
	}
	return filepath.Clean(path), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

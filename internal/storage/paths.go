// Package storage persists perft results so repeated runs of deep counts
// are answered from disk.
package storage

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "rook"

// dataBase names, per OS, the environment variable that overrides the base
// data directory and the path under the home directory used otherwise.
func dataBase(goos string) (env string, fallback []string) {
	switch goos {
	case "darwin":
		return "", []string{"Library", "Application Support"}
	case "windows":
		return "APPDATA", []string{"AppData", "Roaming"}
	default:
		return "XDG_DATA_HOME", []string{".local", "share"}
	}
}

// GetDataDir creates and returns the per-user directory for rook's files:
// ~/Library/Application Support/rook on macOS, %APPDATA%\rook on Windows
// and $XDG_DATA_HOME/rook (default ~/.local/share/rook) elsewhere.
func GetDataDir() (string, error) {
	env, fallback := dataBase(runtime.GOOS)
	base := ""
	if env != "" {
		base = os.Getenv(env)
	}
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	return mkdir(filepath.Join(base, appName))
}

// GetCacheDir creates and returns the badger directory for perft results.
func GetCacheDir() (string, error) {
	data, err := GetDataDir()
	if err != nil {
		return "", err
	}
	dir, err := mkdir(filepath.Join(data, "perft"))
	if err == nil {
		log.Printf("Perft cache directory: %s", dir)
	}
	return dir, err
}

func mkdir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

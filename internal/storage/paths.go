package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "shadowchess"

// DataDir returns the platform data directory for the application:
//   - macOS: ~/Library/Application Support/shadowchess/
//   - Linux: $XDG_DATA_HOME/shadowchess/ or ~/.local/share/shadowchess/
//   - Windows: %APPDATA%/shadowchess/
//
// The directory is not created.
func DataDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, "Library", "Application Support")
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, "AppData", "Roaming")
		}
	default:
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".local", "share")
		}
	}
	return filepath.Join(base, appName), nil
}

// DatabaseDir is DataDir()/db, created if missing.
func DatabaseDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	dbDir := filepath.Join(dir, "db")
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return "", err
	}
	return dbDir, nil
}

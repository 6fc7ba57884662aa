// Package storage provides the persistent evaluation cache.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessadvisor"

// DataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/chessadvisor/
// - Linux: ~/.local/share/chessadvisor/
// - Windows: %APPDATA%/chessadvisor/
func DataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// Linux and other Unix-like: XDG_DATA_HOME, else ~/.local/share/
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// CacheDir returns the directory holding the BadgerDB evaluation cache.
func CacheDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	cacheDir := filepath.Join(dataDir, "cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", err
	}
	return cacheDir, nil
}

// Package storage keeps preferences, statistics and games across runs in
// an embedded BadgerDB database.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "satranc"

// GetDataDir returns the platform-specific data directory, creating it
// if needed.
// - macOS: ~/Library/Application Support/satranc/
// - Linux: $XDG_DATA_HOME/satranc/ or ~/.local/share/satranc/
// - Windows: %APPDATA%/satranc/
func GetDataDir() (string, error) {
	baseDir, err := platformDataHome(runtime.GOOS)
	if err != nil {
		return "", fmt.Errorf("locate data directory: %w", err)
	}

	dataDir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dataDir, nil
}

// platformDataHome returns the per-user application data root for goos.
func platformDataHome(goos string) (string, error) {
	switch goos {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, "Library", "Application Support"), nil

	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, "AppData", "Roaming"), nil

	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, ".local", "share"), nil
	}
}

// DatabaseDirIn returns the database directory below dataDir, creating it
// if needed.
func DatabaseDirIn(dataDir string) (string, error) {
	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return "", fmt.Errorf("create database directory: %w", err)
	}
	return dbDir, nil
}

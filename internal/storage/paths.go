// Package storage provides persistent storage for user preferences and game results.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "minichess"

// DataDirEnv names the environment variable that overrides the data
// directory.
const DataDirEnv = "MINICHESS_DATA"

// GetDataDir returns the data directory for the application, creating it
// when missing. $MINICHESS_DATA wins; otherwise the platform default is used:
//
//	macOS:   ~/Library/Application Support/minichess
//	Linux:   $XDG_DATA_HOME/minichess or ~/.local/share/minichess
//	Windows: %APPDATA%/minichess
func GetDataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return ensureDir(dir)
	}
	base, err := platformBase()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(base, appName))
}

// GetDatabaseDir returns the directory holding the badger database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dataDir, "db"))
}

func platformBase() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return homeJoin("Library", "Application Support")
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		return homeJoin("AppData", "Roaming")
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		return homeJoin(".local", "share")
	}
}

func homeJoin(elem ...string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, elem...)...), nil
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appDirName = "fieldlog"

// DefaultDBPath returns the per-OS location of the diary database.
func DefaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return appDirName + ".db"
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming", appDirName, appDirName+".db")
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", appDirName, appDirName+".db")
	default:
		return filepath.Join(homeDir, ".local", "share", appDirName, appDirName+".db")
	}
}

// ResolveDSN turns a user supplied --db value into something db.Open accepts.
// PostgreSQL URLs and in-memory SQLite are returned untouched; file paths are
// expanded, made absolute, and their parent directory is created.
func ResolveDSN(provided string) (string, error) {
	if strings.HasPrefix(provided, "postgres://") || strings.HasPrefix(provided, "postgresql://") ||
		strings.HasPrefix(provided, ":memory:") || strings.HasPrefix(provided, "file:") {
		return provided, nil
	}

	targetPath := provided
	if targetPath == "" {
		targetPath = DefaultDBPath()
	}

	if strings.HasPrefix(targetPath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory to expand path '%s': %w", targetPath, err)
		}
		targetPath = filepath.Join(homeDir, targetPath[2:])
	}

	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", targetPath, err)
	}

	dbDir := filepath.Dir(absPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory '%s' for database: %w", dbDir, err)
	}

	return absPath, nil
}

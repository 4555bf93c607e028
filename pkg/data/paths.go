package data

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetConfigSearchPaths returns possible configuration file locations
func GetConfigSearchPaths(filename string) []string {
	paths := []string{filename}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "arenarank", filename))
		paths = append(paths, filepath.Join(homeDir, ".arenarank", filename))
	}

	paths = append(paths, filepath.Join("/etc", "arenarank", filename))

	return paths
}

// FindConfig returns the first existing configuration file on the search
// path, or "" when none exists.
func FindConfig(filename string) string {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename
		}
		return ""
	}
	for _, path := range GetConfigSearchPaths(filename) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// CreateDefaultConfig creates a default configuration file at the specified path
func CreateDefaultConfig(filePath string) error {
	config := DefaultAppConfig()

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.SaveToFile(filePath); err != nil {
		return fmt.Errorf("failed to create default config: %w", err)
	}

	return nil
}

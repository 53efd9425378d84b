package config

import (
	"os"
	"path/filepath"
)

// DefaultConfigPath is the configuration file used when none is given.
const DefaultConfigPath = ".mrgen.yaml"

// alternateConfigNames are tried, in order, by FindConfigPath.
var alternateConfigNames = []string{".mrgen.yaml", ".mrgen.yml", ".mrgen.json"}

// FindConfigPath returns the first existing configuration file in dir,
// or dir/.mrgen.yaml when none exists.
func FindConfigPath(dir string) string {
	for _, name := range alternateConfigNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return filepath.Join(dir, DefaultConfigPath)
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

package main

import (
	"os"
	"path/filepath"

	"github.com/tokf/tokf/internal/discovery"
)

// appName is the single source of truth for the application name.
const appName = "tokf"

// builtinLibraryDir locates the shipped library/ filter definitions:
// $TOKF_LIBRARY_DIR when set, otherwise "library" resolved against the
// current working directory (not against the binary's location).
func builtinLibraryDir() string {
	if v := os.Getenv("TOKF_LIBRARY_DIR"); v != "" {
		return v
	}
	return "library"
}

func gainDBPath() (string, error) {
	dir, err := discovery.ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "gain.db"), nil
}

func projectDir() (string, error) {
	return os.Getwd()
}

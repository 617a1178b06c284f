// Package discovery resolves which filter definition file, if any, applies
// to a wrapped command (§6 "filter discovery and priority resolution on
// disk"). The engine itself treats this as an external collaborator's
// concern; this package is the collaborator.
package discovery

import (
	"os"
	"path/filepath"
	"strings"
)

// appName is the single source of truth for the application name.
const appName = "tokf"

var envConfigDir = strings.ToUpper(appName) + "_CONFIG_DIR"

// ConfigDir returns the base config directory: $TOKF_CONFIG_DIR >
// $XDG_CONFIG_HOME/tokf > ~/.config/tokf (config.go's resolveConfigDir,
// ported verbatim).
func ConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Source identifies where a resolved filter definition file came from, for
// `tokf which`/`tokf show` to report.
type Source int

const (
	SourceProjectLocal Source = iota
	SourceUserLevel
	SourceBuiltIn
)

func (s Source) String() string {
	switch s {
	case SourceProjectLocal:
		return "project-local"
	case SourceUserLevel:
		return "user-level"
	case SourceBuiltIn:
		return "built-in"
	default:
		return "unknown"
	}
}

// Resolved is one candidate filter file plus where it was found.
type Resolved struct {
	Path   string
	Source Source
}

// Resolve finds the filter definition for command name, trying
// project-local overrides, then user-level overrides, then the built-in
// library, in that order. First match wins; there is no merging (§6).
//
// projectDir is the current working directory (or its nearest ancestor
// holding a .tokf/ directory — left to the caller to resolve, since
// ancestor-walk policy is not specified); builtinDir is where the
// library/ filters are installed.
func Resolve(command string, projectDir, builtinDir string) (*Resolved, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	candidates := []Resolved{
		{filepath.Join(projectDir, ".tokf", "filters", command+".toml"), SourceProjectLocal},
		{filepath.Join(configDir, "filters", command+".toml"), SourceUserLevel},
		{filepath.Join(builtinDir, command+".toml"), SourceBuiltIn},
	}
	for _, c := range candidates {
		if fileExists(c.Path) {
			r := c
			return &r, nil
		}
	}
	return nil, nil
}

// List enumerates every filter name available across all three tiers,
// project-local entries shadowing user-level and built-in ones of the same
// name (used by `tokf ls`).
func List(projectDir, builtinDir string) ([]Resolved, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	dirs := []struct {
		path   string
		source Source
	}{
		{filepath.Join(projectDir, ".tokf", "filters"), SourceProjectLocal},
		{filepath.Join(configDir, "filters"), SourceUserLevel},
		{builtinDir, SourceBuiltIn},
	}

	seen := make(map[string]bool)
	var out []Resolved
	for _, d := range dirs {
		entries, err := os.ReadDir(d.path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
				continue
			}
			name := strings.TrimSuffix(e.Name(), ".toml")
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, Resolved{Path: filepath.Join(d.path, e.Name()), Source: d.source})
		}
	}
	return out, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

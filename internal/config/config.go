// Package config reads and writes the persistent user settings stored in
// $XDG_CONFIG_HOME/dictaphone/config as key=value lines.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Config keys.
const (
	KeyProvider  = "provider"
	KeyModel     = "model"
	KeyTheme     = "theme"
	KeyOutputDir = "output-dir"
)

// Environment variable fallbacks.
const (
	EnvProvider  = "DICTAPHONE_PROVIDER"
	EnvModel     = "DICTAPHONE_MODEL"
	EnvTheme     = "DICTAPHONE_THEME"
	EnvOutputDir = "DICTAPHONE_OUTPUT_DIR"
)

const appDir = "dictaphone"

// keys is the canonical key order used by List and help text.
var keys = []string{KeyProvider, KeyModel, KeyTheme, KeyOutputDir}

var envByKey = map[string]string{
	KeyProvider:  EnvProvider,
	KeyModel:     EnvModel,
	KeyTheme:     EnvTheme,
	KeyOutputDir: EnvOutputDir,
}

// Config holds user configuration. Values are raw strings; callers parse
// provider and theme at the CLI boundary.
type Config struct {
	Provider  string
	Model     string
	Theme     string
	OutputDir string
}

// Keys returns the supported keys in canonical order.
func Keys() []string {
	return slices.Clone(keys)
}

// IsKey reports whether key is a supported config key.
func IsKey(key string) bool {
	return slices.Contains(keys, key)
}

// EnvVar returns the environment fallback for key, or "" if none.
func EnvVar(key string) string {
	return envByKey[key]
}

// Value returns the field for key. Unknown keys return "".
func (c Config) Value(key string) string {
	switch key {
	case KeyProvider:
		return c.Provider
	case KeyModel:
		return c.Model
	case KeyTheme:
		return c.Theme
	case KeyOutputDir:
		return c.OutputDir
	}
	return ""
}

func (c *Config) set(key, value string) {
	switch key {
	case KeyProvider:
		c.Provider = value
	case KeyModel:
		c.Model = value
	case KeyTheme:
		c.Theme = value
	case KeyOutputDir:
		c.OutputDir = value
	}
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/dictaphone.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks.
// A missing file is not an error.
func Load() (Config, error) {
	var cfg Config

	p, err := Path()
	if err != nil {
		return cfg, err
	}

	data, err := parseFile(p)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	for _, key := range keys {
		v := data[key]
		if v == "" {
			v = os.Getenv(envByKey[key])
		}
		cfg.set(key, v)
	}

	return cfg, nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid syntax at line %d: %q", lineNum, line)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// Save writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	p, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}
	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the config map to a file with keys sorted, so the file
// diffs cleanly between saves.
func writeFile(p string, data map[string]string) error {
	// #nosec G302 G304 -- config file with standard permissions, path from home dir
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	names := make([]string, 0, len(data))
	for k := range data {
		names = append(names, k)
	}
	slices.Sort(names)

	for _, key := range names {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, data[key]); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	p, err := Path()
	if err != nil {
		return "", err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	return data[key], nil
}

// List returns all values stored in the config file.
func List() (map[string]string, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	return data, nil
}

// ResolveOutputPath resolves the final output path:
//  1. If output is absolute, use it as-is
//  2. If output is relative and outputDir is set, join them
//  3. If output is empty, use defaultName in outputDir (or cwd if no outputDir)
func ResolveOutputPath(output, outputDir, defaultName string) string {
	if output != "" && filepath.IsAbs(output) {
		return filepath.Clean(output)
	}

	if output != "" {
		if outputDir != "" {
			return filepath.Clean(filepath.Join(outputDir, output))
		}
		return filepath.Clean(output)
	}

	if outputDir != "" {
		return filepath.Clean(filepath.Join(outputDir, defaultName))
	}
	return filepath.Clean(defaultName)
}

// EnsureOutputDir checks that d can be used as output-dir, creating it if
// needed.
func EnsureOutputDir(d string) error {
	if d == "" {
		return fmt.Errorf("output-dir cannot be empty")
	}
	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user output dir
				return fmt.Errorf("cannot create directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", d)
	}

	// Probe writability with a throwaway file.
	probe := filepath.Join(d, ".dictaphone-write-test")
	f, err := os.Create(probe) // #nosec G304 -- path is constructed from validated dir
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(probe)
		return fmt.Errorf("directory is not writable: %w", err)
	}
	_ = os.Remove(probe)

	return nil
}

// ExpandPath expands "~" or a leading "~/" to the user's home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Backend is where persisted (non-secret, non-env) settings live. Values are
// keyed by dotted names such as "server.port".
type Backend interface {
	Get(key string) (any, bool)
	Set(key string, val any) error
	Delete(key string) error
}

func xdgDir(env, fallback string) string {
	dir := os.Getenv(env)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "culturelens")
		}
		dir = filepath.Join(home, fallback)
	}
	return filepath.Join(dir, "culturelens")
}

func defaultDataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// ConfigFilePath is $XDG_CONFIG_HOME/culturelens/config.yaml.
func ConfigFilePath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "config.yaml")
}

// yamlFile keeps settings as a flat YAML mapping:
//
//	server.port: 4200
//	catalog.cache_ttl: 90s
type yamlFile struct {
	path   string
	values map[string]any
}

// openYAMLFile reads path. A missing file is an empty config; an unreadable
// or malformed one is logged and treated as empty so defaults still apply.
func openYAMLFile(path string) *yamlFile {
	f := &yamlFile{path: path, values: map[string]any{}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f
	case err != nil:
		slog.Warn("could not read config file, using defaults", "path", path, "error", err)
		return f
	}
	if err := yaml.Unmarshal(data, &f.values); err != nil {
		slog.Warn("could not parse config file, using defaults", "path", path, "error", err)
		f.values = map[string]any{}
	}
	return f
}

func (f *yamlFile) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *yamlFile) Set(key string, val any) error {
	f.values[key] = val
	return f.flush()
}

func (f *yamlFile) Delete(key string) error {
	delete(f.values, key)
	return f.flush()
}

func (f *yamlFile) flush() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(f.path, data, 0o600)
}

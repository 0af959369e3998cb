package worldmap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a single map from a YAML file. The filename (without
// extension) overrides any name in the document.
func LoadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}

	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse map file %s: %w", path, err)
	}

	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if err := m.Validate(nil); err != nil {
		return nil, fmt.Errorf("invalid map in %s: %w", path, err)
	}
	return &m, nil
}

// LoadDir reads every map under dir, keyed by name.
func LoadDir(dir string) (map[string]*Map, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read maps directory: %w", err)
	}

	maps := make(map[string]*Map)
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		m, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		maps[m.Name] = m
	}
	return maps, nil
}

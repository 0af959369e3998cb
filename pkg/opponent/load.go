package opponent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a single opponent definition from a YAML file. The
// filename (without extension) overrides any id in the document.
func LoadFile(path string) (*Opponent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read opponent file: %w", err)
	}

	var o Opponent
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse opponent file %s: %w", path, err)
	}

	o.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if o.QuestionSource == "" {
		o.QuestionSource = SourceMixed
	}

	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid opponent in %s: %w", path, err)
	}
	return &o, nil
}

// LoadDir reads every opponent definition under dir, keyed by id.
func LoadDir(dir string) (map[string]*Opponent, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read opponents directory: %w", err)
	}

	opponents := make(map[string]*Opponent)
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		o, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		opponents[o.ID] = o
	}
	return opponents, nil
}

func isYAML(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

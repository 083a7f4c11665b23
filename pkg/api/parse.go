package api

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadManifest reads a .tick.yaml file, sets Dir/FilePath, and validates it.
func LoadManifest(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading manifest file: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest file: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}
	m.FilePath = absPath
	m.Dir = filepath.Dir(absPath)

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validating manifest %s: %w", filename, err)
	}

	return &m, nil
}

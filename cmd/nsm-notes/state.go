package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// notesState is the document saved under the session path.
type notesState struct {
	Label     string   `yaml:"label,omitempty"`
	Notes     []string `yaml:"notes"`
	Resources []string `yaml:"resources,omitempty"`
}

// loadState returns an empty state when path does not exist yet.
func loadState(path string) (notesState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return notesState{}, nil
		}
		return notesState{}, fmt.Errorf("read state: %w", err)
	}
	var st notesState
	if err := yaml.Unmarshal(data, &st); err != nil {
		return notesState{}, fmt.Errorf("parse state %s: %w", path, err)
	}
	return st, nil
}

// saveState writes through a temp file so a crash never leaves half a file.
func saveState(path string, st notesState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return os.Rename(tmp, path)
}

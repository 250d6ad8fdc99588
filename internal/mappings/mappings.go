// Package mappings persists manual author mappings as a YAML file of
// source name to target name pairs.
package mappings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileMode = 0o644

// ErrEmptyName indicates a mapping with a blank source or target.
var ErrEmptyName = errors.New("mapping names must not be empty")

// Store reads and writes a manual mapping file.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the mapping file. A missing file yields an empty map.
func (s *Store) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}

		return nil, fmt.Errorf("reading mappings %s: %w", s.path, err)
	}

	mapping := map[string]string{}

	err = yaml.Unmarshal(data, &mapping)
	if err != nil {
		return nil, fmt.Errorf("parsing mappings %s: %w", s.path, err)
	}

	return mapping, nil
}

// Save writes the mapping file, creating parent directories as needed.
// yaml.Marshal emits map keys in sorted order, so output is stable.
func (s *Store) Save(mapping map[string]string) error {
	data, err := yaml.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("encoding mappings: %w", err)
	}

	dir := filepath.Dir(s.path)

	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	err = os.WriteFile(s.path, data, fileMode)
	if err != nil {
		return fmt.Errorf("writing mappings %s: %w", s.path, err)
	}

	return nil
}

// Set records source as an alias of target and persists the file.
func (s *Store) Set(source, target string) error {
	if source == "" || target == "" {
		return ErrEmptyName
	}

	mapping, err := s.Load()
	if err != nil {
		return err
	}

	mapping[source] = target

	return s.Save(mapping)
}

// Delete removes a mapping by source name and persists the file. It
// reports whether the mapping existed.
func (s *Store) Delete(source string) (bool, error) {
	mapping, err := s.Load()
	if err != nil {
		return false, err
	}

	_, ok := mapping[source]
	if !ok {
		return false, nil
	}

	delete(mapping, source)

	return true, s.Save(mapping)
}

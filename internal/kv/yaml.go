package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// YAMLFile keeps values as a flat mapping in a YAML file, rewritten on
// every change.
type YAMLFile struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// OpenYAML loads path. A missing file is an empty store.
func OpenYAML(path string) (*YAMLFile, error) {
	store := &YAMLFile{path: path, values: make(map[string]string)}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	if err := yaml.Unmarshal(rawData, &store.values); err != nil {
		return nil, fmt.Errorf("parse state yaml: %w", err)
	}
	if store.values == nil {
		store.values = make(map[string]string)
	}
	return store, nil
}

func (f *YAMLFile) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	return value, ok, nil
}

func (f *YAMLFile) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	previous, had := f.values[key]
	f.values[key] = value
	if err := f.saveLocked(); err != nil {
		if had {
			f.values[key] = previous
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

func (f *YAMLFile) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	previous, had := f.values[key]
	if !had {
		return nil
	}
	delete(f.values, key)
	if err := f.saveLocked(); err != nil {
		f.values[key] = previous
		return err
	}
	return nil
}

func (f *YAMLFile) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	serialized, err := yaml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("marshal state yaml: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, serialized, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

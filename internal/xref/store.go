package xref

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists the mirror id -> social post id map as a JSON object
type Store struct {
	path    string
	entries map[string]string
}

// Load reads the map at path; a missing file yields an empty store
func Load(path string) (*Store, error) {
	s := &Store{path: path, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read cross-reference map: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		return &Store{path: path, entries: make(map[string]string)}, fmt.Errorf("failed to parse cross-reference map: %w", err)
	}
	if s.entries == nil {
		s.entries = make(map[string]string)
	}
	return s, nil
}

// NewMemoryStore returns a store that never touches disk
func NewMemoryStore() *Store {
	return &Store{entries: make(map[string]string)}
}

// Get returns the post id recorded for a mirror id
func (s *Store) Get(mirrorID string) (string, bool) {
	v, ok := s.entries[mirrorID]
	return v, ok
}

// Len returns the number of entries
func (s *Store) Len() int {
	return len(s.entries)
}

// Record sets the post id for a mirror id and rewrites the file
func (s *Store) Record(mirrorID, postID string) error {
	s.entries[mirrorID] = postID
	return s.Save()
}

// Save writes the whole map back to disk
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cross-reference map: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create cross-reference dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write cross-reference map: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace cross-reference map: %w", err)
	}
	return nil
}

package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const (
	DefaultStorageFileName = ".symbiosis-swap-tracked.json"
)

// Storage handles persistence of tracked transactions
type Storage struct {
	filePath string
	mu       sync.RWMutex
	entries  map[string]*Entry
}

// entryStorage represents the JSON structure for storage
type entryStorage struct {
	Entries map[string]*Entry `json:"entries"`
}

// NewStorage creates a new storage instance
func NewStorage(filePath string) (*Storage, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultStorageFileName)
	}

	s := &Storage{
		filePath: filePath,
		entries:  make(map[string]*Entry),
	}

	if err := s.load(); err != nil {
		// A missing file is created on first save
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load tracked transactions: %w", err)
		}
	}

	return s, nil
}

func (s *Storage) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var stored entryStorage
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to unmarshal tracked transactions: %w", err)
	}

	s.entries = stored.Entries
	if s.entries == nil {
		s.entries = make(map[string]*Entry)
	}
	return nil
}

// saveLocked writes all entries to disk. The caller must hold s.mu.
func (s *Storage) saveLocked() error {
	data, err := json.MarshalIndent(entryStorage{Entries: s.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tracked transactions: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to temporary file first, then rename for atomic write
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write tracked transactions: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Create adds a new entry
func (s *Storage) Create(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[e.ID]; exists {
		return fmt.Errorf("entry '%s' already exists", e.ID)
	}
	s.entries[e.ID] = &e
	return s.saveLocked()
}

// Get retrieves an entry by id
func (s *Storage) Get(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[id]
	if !exists {
		return Entry{}, fmt.Errorf("entry '%s' not found", id)
	}
	return *e, nil
}

// UpdateAll replaces the given entries and saves once. Unknown ids are an error and
// nothing is written.
func (s *Storage) UpdateAll(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if _, exists := s.entries[e.ID]; !exists {
			return fmt.Errorf("entry '%s' not found", e.ID)
		}
	}
	for _, e := range entries {
		e := e
		s.entries[e.ID] = &e
	}
	return s.saveLocked()
}

// Delete removes an entry
func (s *Storage) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; !exists {
		return fmt.Errorf("entry '%s' not found", id)
	}
	delete(s.entries, id)
	return s.saveLocked()
}

// List returns copies of all entries, oldest first
func (s *Storage) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Added.Equal(out[j].Added) {
			return out[i].ID < out[j].ID
		}
		return out[i].Added.Before(out[j].Added)
	})
	return out
}

// Count returns the number of entries
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// FilePath returns the storage file path
func (s *Storage) FilePath() string {
	return s.filePath
}

package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileStore keeps the name history in a small JSON file. The file is read
// once at process start and written once at process end; the engine assumes
// one run per calendar day and no concurrent writers.
type FileStore struct {
	*MemoryStore
	path string
}

// LoadFile opens the history file at path. A missing file yields an empty
// store, so first runs need no setup.
func LoadFile(path string) (*FileStore, error) {
	store := &FileStore{MemoryStore: NewMemoryStore(), path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.WithField("path", path).Info("No name history file found, starting empty")
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read name history %s: %w", path, err)
	}

	names := make(map[string]string)
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("name history %s is not a valid JSON object: %w", path, err)
	}
	store.replace(names)
	logrus.WithFields(logrus.Fields{
		"path":    path,
		"entries": len(names),
	}).Info("Loaded name history")
	return store, nil
}

// Persist writes the current mapping back to disk. The write goes through a
// temporary file and a rename so a crash cannot leave a truncated history.
func (s *FileStore) Persist() error {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode name history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write name history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace name history: %w", err)
	}
	return nil
}

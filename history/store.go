// Package history persists the display names assigned in earlier runs, so
// an IPO flagged as partially or not entered keeps its flagged name on later
// calendars. It is the engine's only cross-run memory.
package history

// Store is the mapping from instrument code to the last assigned display
// name. The record builder receives it as an injected dependency and
// mutates it in place; loading and persisting are the caller's concern.
type Store interface {
	Get(code string) (string, bool)
	Set(code, name string)
}

// MemoryStore is a plain in-memory Store, used directly in tests and as the
// backing map of the persisted implementations.
type MemoryStore struct {
	names map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{names: make(map[string]string)}
}

func (s *MemoryStore) Get(code string) (string, bool) {
	name, ok := s.names[code]
	return name, ok
}

func (s *MemoryStore) Set(code, name string) {
	s.names[code] = name
}

// Snapshot returns a copy of the mapping for persistence.
func (s *MemoryStore) Snapshot() map[string]string {
	out := make(map[string]string, len(s.names))
	for k, v := range s.names {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) replace(names map[string]string) {
	s.names = names
}

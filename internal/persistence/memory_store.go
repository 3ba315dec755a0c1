package persistence

import (
	"context"
	"sync"

	"github.com/petrijr/aslflow/pkg/api"
)

// InMemoryStore is a simple, goroutine-safe DefinitionStore backed by maps.
type InMemoryStore struct {
	mu          sync.RWMutex
	definitions map[string][]api.StoredDefinition
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		definitions: make(map[string][]api.StoredDefinition),
	}
}

// Ensure InMemoryStore implements DefinitionStore.
var _ DefinitionStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) SaveDefinition(ctx context.Context, def api.StoredDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.definitions[def.Name] {
		if existing.Revision == def.Revision {
			return ErrRevisionExists
		}
	}
	s.definitions[def.Name] = append(s.definitions[def.Name], def)
	return nil
}

func (s *InMemoryStore) GetDefinition(ctx context.Context, name, revision string) (api.StoredDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, def := range s.definitions[name] {
		if def.Revision == revision {
			return def, nil
		}
	}
	return api.StoredDefinition{}, ErrDefinitionNotFound
}

func (s *InMemoryStore) GetLatestDefinition(ctx context.Context, name string) (api.StoredDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	revs := s.definitions[name]
	if len(revs) == 0 {
		return api.StoredDefinition{}, ErrDefinitionNotFound
	}
	return revs[len(revs)-1], nil
}

func (s *InMemoryStore) ListRevisions(ctx context.Context, name string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	revs := s.definitions[name]
	out := make([]string, len(revs))
	for i, def := range revs {
		out[i] = def.Revision
	}
	return out, nil
}

package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/ports"
)

// Store implements ports.GraphStore in memory.
// Safe for concurrent use. Graphs are immutable, so they are stored and
// returned without copying.
type Store struct {
	data map[string]*graph.Graph
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*graph.Graph),
	}
}

// Save keeps g under name.
func (s *Store) Save(ctx context.Context, name string, g *graph.Graph) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = g
	return nil
}

// Load retrieves the graph stored under name.
func (s *Store) Load(ctx context.Context, name string) (*graph.Graph, error) {
	if err := ports.ValidateName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.data[name]
	if !ok {
		return nil, ports.ErrGraphNotFound
	}
	return g, nil
}

// Delete removes the graph.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

package ports

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/aretw0/minibmg/pkg/graph"
)

var (
	// ErrGraphNotFound is returned when no graph is stored under a name.
	ErrGraphNotFound = errors.New("graph not found")
	// ErrInvalidName is returned for names that cannot be used as keys.
	ErrInvalidName = errors.New("invalid graph name")
)

// GraphStore defines the interface for persisting named graphs.
// Graphs are immutable, so implementations may share them between callers.
type GraphStore interface {
	// Save stores g under name, replacing any previous graph.
	Save(ctx context.Context, name string, g *graph.Graph) error

	// Load retrieves the graph stored under name.
	// Returns ErrGraphNotFound if there is none.
	Load(ctx context.Context, name string) (*graph.Graph, error)

	// Delete removes the graph stored under name. Deleting a missing graph
	// is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored graphs.
	List(ctx context.Context) ([]string, error)
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateName checks that name is usable as a key by every store: it
// must start with a letter or digit and contain only letters, digits, '_',
// '.' and '-'.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

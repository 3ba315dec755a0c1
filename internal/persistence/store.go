package persistence

import (
	"context"
	"errors"

	"github.com/petrijr/aslflow/pkg/api"
)

var (
	// ErrDefinitionNotFound is returned when no revision matches a lookup.
	ErrDefinitionNotFound = errors.New("definition not found")

	// ErrRevisionExists is returned when a revision ID is saved twice for
	// the same definition name.
	ErrRevisionExists = errors.New("revision already exists")
)

// DefinitionStore keeps rendered state machine documents by name and
// revision. Revisions are append-only and ordered by insertion.
type DefinitionStore interface {
	// SaveDefinition appends def as a new revision of def.Name.
	SaveDefinition(ctx context.Context, def api.StoredDefinition) error
	// GetDefinition returns a specific revision.
	GetDefinition(ctx context.Context, name, revision string) (api.StoredDefinition, error)
	// GetLatestDefinition returns the most recently saved revision.
	GetLatestDefinition(ctx context.Context, name string) (api.StoredDefinition, error)
	// ListRevisions returns the revision IDs of name, oldest first.
	ListRevisions(ctx context.Context, name string) ([]string, error)
}

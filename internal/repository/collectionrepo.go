package repository

import (
	"context"

	"github.com/avk-dev/librarium/internal/model"
	"github.com/gofrs/uuid/v5"
)

// CollectionRepository provides access to uploaded collections and their
// author relation.
type CollectionRepository interface {
	// Create inserts a new collection; the record starts unapproved.
	Create(ctx context.Context, c *model.Collection) error

	// GetByID returns a single collection with its author populated.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Collection, error)

	// List returns all collections, newest first, with authors populated.
	List(ctx context.Context) ([]model.Collection, error)

	// Recent returns the n newest collections with authors populated.
	Recent(ctx context.Context, n int) ([]model.Collection, error)

	// Count returns the total number of collections.
	Count(ctx context.Context) (int64, error)

	// CountPending returns the number of collections awaiting approval.
	CountPending(ctx context.Context) (int64, error)
}

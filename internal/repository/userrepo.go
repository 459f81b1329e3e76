// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/avk-dev/librarium/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepository provides CRUD access for user accounts.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// First returns the oldest user (by created_at, id as tiebreak),
	// used as the upload-author fallback for anonymous uploads.
	First(ctx context.Context) (*model.User, error)
	// Count returns the total number of users.
	Count(ctx context.Context) (int64, error)
}

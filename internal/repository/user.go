package repository

import (
	"context"

	"tawseel/internal/domain"
)

// UserRepository reads user profiles owned by the identity provider.
type UserRepository interface {
	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByIDs retrieves the users that exist among ids, keyed by ID.
	// Unknown IDs are left out of the result.
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
}

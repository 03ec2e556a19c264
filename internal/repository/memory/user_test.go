package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tawseel/internal/domain"
	"tawseel/internal/repository"
)

func TestUserRepository_GetByIDs_OmitsUnknown(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(
		&domain.User{ID: "u1", Name: "Mona", Role: domain.RolePassenger},
		&domain.User{ID: "u2", Name: "Karim", Role: domain.RoleDriver},
	)

	users, err := repo.GetByIDs(context.Background(), []string{"u1", "ghost"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Mona", users["u1"].Name)

	_, err = repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

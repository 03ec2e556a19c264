package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tawseel/internal/domain"
	"tawseel/internal/repository"
)

func seedTrip(t *testing.T, repo *TripRepository, id string, status domain.TripStatus, createdAt time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &domain.Trip{
		ID:              id,
		PassengerID:     "passenger-1",
		CurrentLocation: "Nasr City",
		Destination:     "Heliopolis",
		TripTime:        domain.DefaultTripTime,
		ContactPhone:    "0100",
		Status:          status,
		CreatedAt:       createdAt,
	}))
}

func TestTripRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	_, err := NewTripRepository().GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTripRepository_FindPending_CaseInsensitiveAndPendingOnly(t *testing.T) {
	t.Parallel()

	repo := NewTripRepository()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	seedTrip(t, repo, "t-late", domain.TripStatusPending, base.Add(time.Minute))
	seedTrip(t, repo, "t-early", domain.TripStatusPending, base)
	seedTrip(t, repo, "t-accepted", domain.TripStatusAccepted, base)

	trips, err := repo.FindPending(context.Background(), domain.TripFilter{StartLocation: "nasr", Destination: "HELIO"})
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, "t-early", trips[0].ID)
	assert.Equal(t, "t-late", trips[1].ID)

	none, err := repo.FindPending(context.Background(), domain.TripFilter{StartLocation: "Zamalek"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTripRepository_ListByPassenger_NewestFirst(t *testing.T) {
	t.Parallel()

	repo := NewTripRepository()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	seedTrip(t, repo, "t1", domain.TripStatusPending, base)
	seedTrip(t, repo, "t3", domain.TripStatusPending, base.Add(2*time.Hour))
	seedTrip(t, repo, "t2", domain.TripStatusPending, base.Add(time.Hour))

	trips, err := repo.ListByPassenger(context.Background(), "passenger-1")
	require.NoError(t, err)
	require.Len(t, trips, 3)
	assert.Equal(t, []string{"t3", "t2", "t1"}, []string{trips[0].ID, trips[1].ID, trips[2].ID})

	other, err := repo.ListByPassenger(context.Background(), "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestTripRepository_AcceptThenListByDriver(t *testing.T) {
	t.Parallel()

	repo := NewTripRepository()
	seedTrip(t, repo, "t1", domain.TripStatusPending, time.Now())

	trip, err := repo.Accept(context.Background(), "t1", "driver-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusAccepted, trip.Status)
	assert.Equal(t, "driver-1", trip.DriverID)

	trips, err := repo.ListByDriver(context.Background(), "driver-1")
	require.NoError(t, err)
	require.Len(t, trips, 1)

	empty, err := repo.ListByDriver(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTripRepository_Cancel(t *testing.T) {
	t.Parallel()

	repo := NewTripRepository()
	seedTrip(t, repo, "pending", domain.TripStatusPending, time.Now())
	seedTrip(t, repo, "done", domain.TripStatusCompleted, time.Now())

	trip, err := repo.Cancel(context.Background(), "pending")
	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusCancelled, trip.Status)

	_, err = repo.Cancel(context.Background(), "done")
	assert.ErrorIs(t, err, repository.ErrConflict)

	stored, err := repo.GetByID(context.Background(), "done")
	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusCompleted, stored.Status)

	_, err = repo.Cancel(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTripRepository_SetRating_OverwritesAndIsolatesCopies(t *testing.T) {
	t.Parallel()

	repo := NewTripRepository()
	seedTrip(t, repo, "t1", domain.TripStatusCompleted, time.Now())

	_, err := repo.SetRating(context.Background(), "t1", domain.RaterDriver, 3, "late")
	require.NoError(t, err)
	trip, err := repo.SetRating(context.Background(), "t1", domain.RaterDriver, 5, "")
	require.NoError(t, err)

	require.NotNil(t, trip.Rating.PassengerRating)
	assert.Equal(t, 5, *trip.Rating.PassengerRating)
	assert.Nil(t, trip.Rating.DriverRating)

	*trip.Rating.PassengerRating = 1
	stored, err := repo.GetByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 5, *stored.Rating.PassengerRating)
}

// Package memory holds in-process store implementations used for local
// runs without PostgreSQL and as fixtures in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tawseel/internal/domain"
	"tawseel/internal/repository"
)

// TripRepository is an in-memory implementation of repository.TripRepository.
type TripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip
}

// NewTripRepository creates an empty in-memory trip repository.
func NewTripRepository() *TripRepository {
	return &TripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trips[trip.ID] = copyTrip(trip)
	return nil
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	trip, ok := r.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTrip(trip), nil
}

// FindPending retrieves pending trips matching the filter, oldest first.
func (r *TripRepository) FindPending(ctx context.Context, filter domain.TripFilter) ([]*domain.Trip, error) {
	start := strings.ToLower(filter.StartLocation)
	dest := strings.ToLower(filter.Destination)

	trips := r.collect(func(t *domain.Trip) bool {
		return t.Status == domain.TripStatusPending &&
			strings.Contains(strings.ToLower(t.CurrentLocation), start) &&
			strings.Contains(strings.ToLower(t.Destination), dest)
	})
	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].CreatedAt.Before(trips[j].CreatedAt)
	})
	return trips, nil
}

// ListByPassenger retrieves a passenger's trips, newest first.
func (r *TripRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Trip, error) {
	return newestFirst(r.collect(func(t *domain.Trip) bool {
		return t.PassengerID == passengerID
	})), nil
}

// ListByDriver retrieves a driver's trips, newest first.
func (r *TripRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	return newestFirst(r.collect(func(t *domain.Trip) bool {
		return driverID != "" && t.DriverID == driverID
	})), nil
}

// Accept marks the trip accepted by driverID.
func (r *TripRepository) Accept(ctx context.Context, id, driverID string) (*domain.Trip, error) {
	return r.update(id, func(t *domain.Trip) error {
		t.Status = domain.TripStatusAccepted
		t.DriverID = driverID
		return nil
	})
}

// Complete marks the trip completed at the given time.
func (r *TripRepository) Complete(ctx context.Context, id string, at time.Time) (*domain.Trip, error) {
	return r.update(id, func(t *domain.Trip) error {
		t.Status = domain.TripStatusCompleted
		t.CompletedAt = at
		return nil
	})
}

// Cancel marks a pending trip cancelled.
func (r *TripRepository) Cancel(ctx context.Context, id string) (*domain.Trip, error) {
	return r.update(id, func(t *domain.Trip) error {
		if t.Status != domain.TripStatusPending {
			return repository.ErrConflict
		}
		t.Status = domain.TripStatusCancelled
		return nil
	})
}

// SetRating stores one side's rating, replacing any earlier value.
func (r *TripRepository) SetRating(ctx context.Context, id string, role domain.RaterRole, score int, comment string) (*domain.Trip, error) {
	return r.update(id, func(t *domain.Trip) error {
		s := score
		switch role {
		case domain.RaterPassenger:
			t.Rating.DriverRating = &s
			t.Rating.DriverComment = comment
		case domain.RaterDriver:
			t.Rating.PassengerRating = &s
			t.Rating.PassengerComment = comment
		}
		return nil
	})
}

// Count returns the number of stored trips.
func (r *TripRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trips)
}

func (r *TripRepository) update(id string, apply func(t *domain.Trip) error) (*domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip, ok := r.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	updated := copyTrip(trip)
	if err := apply(updated); err != nil {
		return nil, err
	}
	r.trips[id] = updated
	return copyTrip(updated), nil
}

func (r *TripRepository) collect(match func(t *domain.Trip) bool) []*domain.Trip {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Trip, 0)
	for _, t := range r.trips {
		if match(t) {
			result = append(result, copyTrip(t))
		}
	}
	return result
}

func newestFirst(trips []*domain.Trip) []*domain.Trip {
	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})
	return trips
}

// copyTrip returns a deep copy so callers never share rating pointers with the store.
func copyTrip(t *domain.Trip) *domain.Trip {
	c := *t
	if t.Rating.PassengerRating != nil {
		v := *t.Rating.PassengerRating
		c.Rating.PassengerRating = &v
	}
	if t.Rating.DriverRating != nil {
		v := *t.Rating.DriverRating
		c.Rating.DriverRating = &v
	}
	return &c
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)

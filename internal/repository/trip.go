package repository

import (
	"context"
	"time"

	"tawseel/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// FindPending retrieves pending trips whose locations contain the
	// filter's substrings, ignoring case. Governorate is not applied here.
	FindPending(ctx context.Context, filter domain.TripFilter) ([]*domain.Trip, error)

	// ListByPassenger retrieves a passenger's trips, newest first.
	ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Trip, error)

	// ListByDriver retrieves a driver's trips, newest first.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Trip, error)

	// Accept sets the trip to accepted and records the driver in one update.
	// The prior status is not checked.
	Accept(ctx context.Context, id, driverID string) (*domain.Trip, error)

	// Complete sets the trip to completed and records the completion time.
	// The prior status is not checked.
	Complete(ctx context.Context, id string, at time.Time) (*domain.Trip, error)

	// Cancel sets a pending trip to cancelled.
	// Returns ErrConflict if the trip exists but is not pending.
	Cancel(ctx context.Context, id string) (*domain.Trip, error)

	// SetRating stores one side's rating, replacing any earlier value.
	SetRating(ctx context.Context, id string, role domain.RaterRole, score int, comment string) (*domain.Trip, error)
}

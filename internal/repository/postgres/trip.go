package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tawseel/internal/domain"
	"tawseel/internal/repository"
)

const tripColumns = `id, passenger_id, driver_id, current_location, destination, trip_time, contact_phone,
		status, fare, passenger_rating, driver_rating, passenger_rating_comment, driver_rating_comment,
		created_at, completed_at`

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, passenger_id, driver_id, current_location, destination, trip_time, contact_phone, status, fare, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.PassengerID,
		nullString(trip.DriverID),
		trip.CurrentLocation,
		trip.Destination,
		trip.TripTime,
		trip.ContactPhone,
		trip.Status,
		trip.Fare,
		trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

// FindPending retrieves pending trips matching the filter's location substrings.
func (r *TripRepository) FindPending(ctx context.Context, filter domain.TripFilter) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE status = $1
		  AND current_location ILIKE $2 ESCAPE '\'
		  AND destination ILIKE $3 ESCAPE '\'
		ORDER BY created_at ASC
	`
	return r.queryMany(ctx, query,
		domain.TripStatusPending,
		containsPattern(filter.StartLocation),
		containsPattern(filter.Destination),
	)
}

// ListByPassenger retrieves a passenger's trips, newest first.
func (r *TripRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE passenger_id = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, passengerID)
}

// ListByDriver retrieves a driver's trips, newest first.
func (r *TripRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE driver_id = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, driverID)
}

// Accept marks the trip accepted by driverID.
func (r *TripRepository) Accept(ctx context.Context, id, driverID string) (*domain.Trip, error) {
	query := `UPDATE trips SET status = $1, driver_id = $2 WHERE id = $3 RETURNING ` + tripColumns
	return r.queryOne(ctx, query, domain.TripStatusAccepted, driverID, id)
}

// Complete marks the trip completed at the given time.
func (r *TripRepository) Complete(ctx context.Context, id string, at time.Time) (*domain.Trip, error) {
	query := `UPDATE trips SET status = $1, completed_at = $2 WHERE id = $3 RETURNING ` + tripColumns
	return r.queryOne(ctx, query, domain.TripStatusCompleted, at, id)
}

// Cancel marks a pending trip cancelled.
func (r *TripRepository) Cancel(ctx context.Context, id string) (*domain.Trip, error) {
	query := `UPDATE trips SET status = $1 WHERE id = $2 AND status = $3 RETURNING ` + tripColumns

	trip, err := r.queryOne(ctx, query, domain.TripStatusCancelled, id, domain.TripStatusPending)
	if !errors.Is(err, repository.ErrNotFound) {
		return trip, err
	}

	// Nothing matched: tell an unknown id apart from a trip that moved on.
	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check trip: %w", err)
	}
	if exists {
		return nil, repository.ErrConflict
	}
	return nil, repository.ErrNotFound
}

// SetRating stores one side's rating, replacing any earlier value.
func (r *TripRepository) SetRating(ctx context.Context, id string, role domain.RaterRole, score int, comment string) (*domain.Trip, error) {
	var query string
	switch role {
	case domain.RaterPassenger:
		query = `UPDATE trips SET driver_rating = $1, driver_rating_comment = $2 WHERE id = $3 RETURNING ` + tripColumns
	case domain.RaterDriver:
		query = `UPDATE trips SET passenger_rating = $1, passenger_rating_comment = $2 WHERE id = $3 RETURNING ` + tripColumns
	default:
		return nil, fmt.Errorf("unknown rater role %q", role)
	}
	return r.queryOne(ctx, query, score, comment, id)
}

func (r *TripRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.Trip, error) {
	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

func (r *TripRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]*domain.Trip, 0)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var driverID sql.NullString
	var passengerRating, driverRating sql.NullInt64
	var completedAt sql.NullTime

	err := row.Scan(
		&trip.ID,
		&trip.PassengerID,
		&driverID,
		&trip.CurrentLocation,
		&trip.Destination,
		&trip.TripTime,
		&trip.ContactPhone,
		&trip.Status,
		&trip.Fare,
		&passengerRating,
		&driverRating,
		&trip.Rating.PassengerComment,
		&trip.Rating.DriverComment,
		&trip.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	trip.DriverID = driverID.String
	if passengerRating.Valid {
		v := int(passengerRating.Int64)
		trip.Rating.PassengerRating = &v
	}
	if driverRating.Valid {
		v := int(driverRating.Int64)
		trip.Rating.DriverRating = &v
	}
	if completedAt.Valid {
		trip.CompletedAt = completedAt.Time
	}

	return &trip, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere in the column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)

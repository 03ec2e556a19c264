package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tawseel/internal/domain"
	"tawseel/internal/repository"
)

// EventPublisher receives lifecycle events after they are stored.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.TripEvent) error
}

// Actor is the verified caller of an operation.
type Actor struct {
	UserID string
	Role   domain.Role
}

// TripService handles the trip lifecycle. It keeps no trip state between
// calls; every operation reads and writes the store.
type TripService struct {
	trips    repository.TripRepository
	users    repository.UserRepository
	events   EventPublisher
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewTripService creates a new TripService. events may be nil.
func NewTripService(
	trips repository.TripRepository,
	users repository.UserRepository,
	events EventPublisher,
	logger *zap.Logger,
) *TripService {
	return &TripService{
		trips:    trips,
		users:    users,
		events:   events,
		validate: newValidator(),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.New().String() },
	}
}

// RequestTripRequest contains the parameters for requesting a trip.
type RequestTripRequest struct {
	CurrentLocation string `json:"currentLocation" validate:"required"`
	Destination     string `json:"destination" validate:"required"`
	TripTime        string `json:"tripTime"`
	ContactPhone    string `json:"contactPhone" validate:"required"`
}

// RequestTrip stores a new pending trip for the calling passenger.
func (s *TripService) RequestTrip(ctx context.Context, actor Actor, req RequestTripRequest) (*domain.Trip, error) {
	req.CurrentLocation = strings.TrimSpace(req.CurrentLocation)
	req.Destination = strings.TrimSpace(req.Destination)
	req.TripTime = strings.TrimSpace(req.TripTime)
	req.ContactPhone = strings.TrimSpace(req.ContactPhone)

	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	if actor.UserID == "" {
		return nil, &ValidationError{Errors: []FieldError{{Field: "passengerId", Msg: "is required"}}}
	}

	tripTime := req.TripTime
	if tripTime == "" {
		tripTime = domain.DefaultTripTime
	}

	trip := &domain.Trip{
		ID:              s.newID(),
		PassengerID:     actor.UserID,
		CurrentLocation: req.CurrentLocation,
		Destination:     req.Destination,
		TripTime:        tripTime,
		ContactPhone:    req.ContactPhone,
		Status:          domain.TripStatusPending,
		Fare:            0,
		CreatedAt:       s.now(),
	}

	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("request trip: %w", err)
	}

	s.publish(ctx, domain.NewTripEvent(domain.TripEventRequested, trip, trip.CreatedAt))
	return trip, nil
}

// SearchTrips returns pending trips whose locations contain the filter's
// substrings, joined with passenger details.
func (s *TripService) SearchTrips(ctx context.Context, filter domain.TripFilter) ([]domain.TripSummary, error) {
	filter.StartLocation = strings.TrimSpace(filter.StartLocation)
	filter.Destination = strings.TrimSpace(filter.Destination)
	filter.Governorate = strings.TrimSpace(filter.Governorate)

	trips, err := s.trips.FindPending(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search trips: %w", err)
	}

	summaries, err := s.Summarize(ctx, trips)
	if err != nil {
		return nil, err
	}

	if filter.Governorate == "" {
		return summaries, nil
	}

	// Governorate lives on the passenger profile, so it is matched after the join.
	want := strings.ToLower(filter.Governorate)
	matched := make([]domain.TripSummary, 0, len(summaries))
	for _, sum := range summaries {
		if strings.Contains(strings.ToLower(sum.PassengerGovernorate), want) {
			matched = append(matched, sum)
		}
	}
	return matched, nil
}

// ListAvailable returns every pending trip.
func (s *TripService) ListAvailable(ctx context.Context) ([]domain.TripSummary, error) {
	return s.SearchTrips(ctx, domain.TripFilter{})
}

// AcceptTrip assigns driverID to the trip and marks it accepted.
// The prior status is not checked.
func (s *TripService) AcceptTrip(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	if strings.TrimSpace(driverID) == "" {
		return nil, &ValidationError{Errors: []FieldError{{Field: "driverId", Msg: "is required"}}}
	}

	trip, err := s.trips.Accept(ctx, tripID, driverID)
	if err != nil {
		return nil, fmt.Errorf("accept trip %s: %w", tripID, err)
	}

	s.publish(ctx, domain.NewTripEvent(domain.TripEventAccepted, trip, s.now()))
	return trip, nil
}

// CompleteTrip marks the trip completed. The prior status is not checked.
func (s *TripService) CompleteTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	now := s.now()
	trip, err := s.trips.Complete(ctx, tripID, now)
	if err != nil {
		return nil, fmt.Errorf("complete trip %s: %w", tripID, err)
	}

	s.publish(ctx, domain.NewTripEvent(domain.TripEventCompleted, trip, now))
	return trip, nil
}

// CancelTrip withdraws a pending trip on behalf of its passenger.
func (s *TripService) CancelTrip(ctx context.Context, actor Actor, tripID string) (*domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("cancel trip %s: %w", tripID, err)
	}

	if trip.PassengerID != actor.UserID {
		return nil, ErrNotTripPassenger
	}
	if trip.Status != domain.TripStatusPending {
		return nil, ErrTripNotPending
	}

	// The store re-checks the status, so a concurrent accept wins.
	cancelled, err := s.trips.Cancel(ctx, tripID)
	if errors.Is(err, repository.ErrConflict) {
		return nil, ErrTripNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("cancel trip %s: %w", tripID, err)
	}

	s.publish(ctx, domain.NewTripEvent(domain.TripEventCancelled, cancelled, s.now()))
	return cancelled, nil
}

// ListByPassenger returns the passenger's trips, newest first.
func (s *TripService) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Trip, error) {
	trips, err := s.trips.ListByPassenger(ctx, passengerID)
	if err != nil {
		return nil, fmt.Errorf("list passenger trips: %w", err)
	}
	return trips, nil
}

// ListByDriver returns the driver's trips, newest first.
func (s *TripService) ListByDriver(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	trips, err := s.trips.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("list driver trips: %w", err)
	}
	return trips, nil
}

// Summarize joins trips with their passengers' display details.
// A missing passenger yields a summary with empty passenger fields.
func (s *TripService) Summarize(ctx context.Context, trips []*domain.Trip) ([]domain.TripSummary, error) {
	summaries := make([]domain.TripSummary, 0, len(trips))
	if len(trips) == 0 {
		return summaries, nil
	}

	ids := make([]string, 0, len(trips))
	seen := make(map[string]struct{}, len(trips))
	for _, t := range trips {
		if _, ok := seen[t.PassengerID]; ok {
			continue
		}
		seen[t.PassengerID] = struct{}{}
		ids = append(ids, t.PassengerID)
	}

	passengers, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load passengers: %w", err)
	}

	for _, t := range trips {
		sum := domain.TripSummary{
			ID:              t.ID,
			PassengerID:     t.PassengerID,
			DriverID:        t.DriverID,
			CurrentLocation: t.CurrentLocation,
			Destination:     t.Destination,
			TripTime:        t.TripTime,
			ContactPhone:    t.ContactPhone,
			Status:          t.Status,
			CreatedAt:       t.CreatedAt,
		}
		if p, ok := passengers[t.PassengerID]; ok {
			sum.PassengerName = p.Name
			sum.PassengerPhone = p.Phone
			sum.PassengerEmail = p.Email
			sum.PassengerGovernorate = p.Governorate
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// RateRequest contains one side's rating of a trip.
type RateRequest struct {
	TripID    string           `json:"tripId" validate:"required"`
	RaterRole domain.RaterRole `json:"raterRole" validate:"oneof=passenger driver"`
	Score     int              `json:"rating" validate:"min=1,max=5"`
	Comment   string           `json:"comment" validate:"max=500"`
}

// Rate records a one-sided rating, replacing any earlier score from the
// same side. The trip status is not checked and scores are not aggregated.
func (s *TripService) Rate(ctx context.Context, req RateRequest) (*domain.Trip, error) {
	req.TripID = strings.TrimSpace(req.TripID)
	req.Comment = strings.TrimSpace(req.Comment)

	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	trip, err := s.trips.SetRating(ctx, req.TripID, req.RaterRole, req.Score, req.Comment)
	if err != nil {
		return nil, fmt.Errorf("rate trip %s: %w", req.TripID, err)
	}

	event := domain.NewTripEvent(domain.TripEventRated, trip, s.now())
	event.RaterRole = req.RaterRole
	event.Score = req.Score
	s.publish(ctx, event)
	return trip, nil
}

// publish is best-effort: the store write already succeeded.
func (s *TripService) publish(ctx context.Context, event domain.TripEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish trip event",
			zap.String("event", string(event.Type)),
			zap.String("trip_id", event.TripID),
			zap.Error(err),
		)
	}
}

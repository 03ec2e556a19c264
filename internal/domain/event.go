package domain

import "time"

// TripEventType names a lifecycle change. It doubles as the message topic.
type TripEventType string

const (
	TripEventRequested TripEventType = "trip.requested"
	TripEventAccepted  TripEventType = "trip.accepted"
	TripEventCompleted TripEventType = "trip.completed"
	TripEventCancelled TripEventType = "trip.cancelled"
	TripEventRated     TripEventType = "trip.rated"
)

// AllTripEventTypes lists every topic the service publishes to.
var AllTripEventTypes = []TripEventType{
	TripEventRequested,
	TripEventAccepted,
	TripEventCompleted,
	TripEventCancelled,
	TripEventRated,
}

// TripEvent is published after a lifecycle change is stored.
type TripEvent struct {
	Type        TripEventType `json:"type"`
	TripID      string        `json:"trip_id"`
	PassengerID string        `json:"passenger_id"`
	DriverID    string        `json:"driver_id,omitempty"`
	Status      TripStatus    `json:"status"`
	From        string        `json:"current_location"`
	To          string        `json:"destination"`
	RaterRole   RaterRole     `json:"rater_role,omitempty"`
	Score       int           `json:"score,omitempty"`
	At          time.Time     `json:"at"`
}

// NewTripEvent builds an event describing the current state of trip.
func NewTripEvent(eventType TripEventType, trip *Trip, at time.Time) TripEvent {
	return TripEvent{
		Type:        eventType,
		TripID:      trip.ID,
		PassengerID: trip.PassengerID,
		DriverID:    trip.DriverID,
		Status:      trip.Status,
		From:        trip.CurrentLocation,
		To:          trip.Destination,
		At:          at,
	}
}

package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusPending   TripStatus = "pending"
	TripStatusAccepted  TripStatus = "accepted"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// DefaultTripTime is stored when the passenger does not pick a time.
const DefaultTripTime = "now"

// Valid reports whether s is one of the known statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusPending, TripStatusAccepted, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are defined from s.
func (s TripStatus) IsTerminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// Trip is a single transport request from creation to terminal status.
type Trip struct {
	ID              string
	PassengerID     string
	DriverID        string // Empty until a driver accepts
	CurrentLocation string
	Destination     string
	TripTime        string
	ContactPhone    string
	Status          TripStatus
	Fare            float64
	Rating          Rating
	CreatedAt       time.Time
	CompletedAt     time.Time
}

// HasDriver reports whether a driver has accepted the trip.
func (t *Trip) HasDriver() bool {
	return t.DriverID != ""
}

// TripSummary is a trip joined with its passenger's display details.
type TripSummary struct {
	ID                   string
	PassengerID          string
	PassengerName        string
	PassengerPhone       string
	PassengerEmail       string
	PassengerGovernorate string
	DriverID             string
	CurrentLocation      string
	Destination          string
	TripTime             string
	ContactPhone         string
	Status               TripStatus
	CreatedAt            time.Time
}

// TripFilter narrows a search over pending trips.
// Empty fields are ignored.
type TripFilter struct {
	StartLocation string
	Destination   string
	Governorate   string
}

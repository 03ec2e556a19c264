package domain

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// RaterRole identifies which side of the trip submitted a rating.
type RaterRole string

const (
	// RaterPassenger is a passenger rating their driver.
	RaterPassenger RaterRole = "passenger"
	// RaterDriver is a driver rating their passenger.
	RaterDriver RaterRole = "driver"
)

// Valid reports whether r is a known rater role.
func (r RaterRole) Valid() bool {
	return r == RaterPassenger || r == RaterDriver
}

// Rating holds the one-sided scores left after a trip.
// Each side holds a single value; rating again overwrites it.
type Rating struct {
	PassengerRating  *int // Score given to the passenger by the driver
	DriverRating     *int // Score given to the driver by the passenger
	PassengerComment string
	DriverComment    string
}

// IsEmpty reports whether neither side has rated yet.
func (r Rating) IsEmpty() bool {
	return r.PassengerRating == nil && r.DriverRating == nil
}

package domain

import "time"

// Role is the role a user holds with the identity provider.
type Role string

const (
	RolePassenger Role = "passenger"
	RoleDriver    Role = "driver"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RolePassenger || r == RoleDriver
}

// User is the profile of a registered passenger or driver.
// Registration and credentials live with the identity provider; the trip
// service only reads profiles for display.
type User struct {
	ID           string
	Name         string
	Phone        string
	Email        string
	Governorate  string
	Role         Role
	VehicleType  string // Drivers only
	LicensePlate string // Drivers only
	IsActive     bool
	CreatedAt    time.Time
}

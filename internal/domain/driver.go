package domain

import "time"

// DriverStatus represents the current status of a driver.
type DriverStatus string

const (
	DriverStatusOnline  DriverStatus = "online"
	DriverStatusBusy    DriverStatus = "busy"
	DriverStatusOffline DriverStatus = "offline"
)

// Driver represents a driver in the system. Driver IDs are caller-supplied;
// a driver is created implicitly the first time it accepts a ride or reports
// a location. AverageRating is the arithmetic mean of all ratings ever
// applied, rounded to one decimal.
type Driver struct {
	ID            string
	Name          string
	Status        DriverStatus
	Lat           float64
	Lng           float64
	AverageRating float64
	TotalRatings  int
	CreatedAt     time.Time
}

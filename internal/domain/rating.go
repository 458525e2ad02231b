package domain

import "time"

// Rating represents a rider's rating of a driver for one completed ride.
// At most one rating exists per ride and it is immutable once created.
type Rating struct {
	ID        string
	RideID    string
	DriverID  string
	RiderID   string
	Rating    int // 1..5
	Comment   string
	CreatedAt time.Time
}

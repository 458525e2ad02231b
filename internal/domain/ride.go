package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusRequested RideStatus = "requested"
	RideStatusAssigned  RideStatus = "assigned"
	RideStatusStarted   RideStatus = "started"
	RideStatusPaused    RideStatus = "paused"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// Tier represents the service class of a ride.
type Tier string

const (
	TierEconomy Tier = "economy"
	TierPremium Tier = "premium"
	TierLuxury  Tier = "luxury"
)

// PaymentMethod represents the payment method chosen for a ride.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// Ride represents a ride request and its lifecycle in the system.
// Price and SurgeFactor are fixed at creation; the completion fare is
// recomputed from the stored distance/tier/surge, never from live demand.
// OTP is non-empty only while the ride is assigned.
type Ride struct {
	ID            string
	RiderID       string
	DriverID      string // empty until a driver accepts
	Status        RideStatus
	Tier          Tier
	PaymentMethod PaymentMethod
	PickupLat     float64
	PickupLng     float64
	DestLat       float64
	DestLng       float64
	DistanceKm    float64
	Price         float64
	SurgeFactor   float64
	OTP           string
	CreatedAt     time.Time
	StartedAt     time.Time
	PausedAt      time.Time
	CompletedAt   time.Time
	CancelledAt   time.Time
	CancelReason  string
}

package domain

import "time"

// PaymentStatus represents the payment state recorded on a receipt.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// FareBreakdown is the priced decomposition of a ride. DistanceFare,
// SurgeFare and TotalFare are rounded to two decimals; BaseFare is a tier
// table constant and the surge factor passes through unrounded.
type FareBreakdown struct {
	BaseFare     float64
	DistanceFare float64
	SurgeFare    float64
	TotalFare    float64
	SurgeFactor  float64
}

// Receipt represents the fare record for a completed ride. At most one
// receipt exists per ride; it is created exactly once and mutated only to
// update the payment status.
type Receipt struct {
	ID            string
	RideID        string
	BaseFare      float64
	DistanceFare  float64
	SurgeFare     float64
	TotalFare     float64
	PaymentStatus PaymentStatus
	TransactionID string
	CreatedAt     time.Time
}

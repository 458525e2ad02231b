package repository

import (
	"context"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
)

// ReceiptRepository defines the persistence operations for receipts.
// Receipts are 1:1 with rides and keyed by ride for all lookups.
type ReceiptRepository interface {
	// Create persists a new receipt. Returns ErrDuplicate if a receipt
	// already exists for the ride.
	Create(ctx context.Context, receipt *domain.Receipt) error

	// GetByRideID retrieves the receipt for a ride.
	GetByRideID(ctx context.Context, rideID string) (*domain.Receipt, error)

	// UpdatePaymentStatus updates the payment status and transaction id of
	// the receipt belonging to a ride.
	UpdatePaymentStatus(ctx context.Context, rideID string, status domain.PaymentStatus, transactionID string) error
}

package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
)

// ReceiptService creates and updates ride receipts. Creation is idempotent
// per ride: a second completion attempt returns the existing receipt
// unchanged.
type ReceiptService struct {
	receiptRepo repository.ReceiptRepository
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(receiptRepo repository.ReceiptRepository) *ReceiptService {
	return &ReceiptService{receiptRepo: receiptRepo}
}

// GenerateReceipt creates the receipt for a ride from its fare breakdown.
// If a receipt already exists it is returned as-is. Payment status starts
// completed when a transaction id is supplied, pending otherwise.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, rideID string, fare domain.FareBreakdown, transactionID string) (*domain.Receipt, error) {
	existing, err := s.receiptRepo.GetByRideID(ctx, rideID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	paymentStatus := domain.PaymentStatusPending
	if transactionID != "" {
		paymentStatus = domain.PaymentStatusCompleted
	}

	receipt := &domain.Receipt{
		ID:            uuid.New().String(),
		RideID:        rideID,
		BaseFare:      fare.BaseFare,
		DistanceFare:  fare.DistanceFare,
		SurgeFare:     fare.SurgeFare,
		TotalFare:     fare.TotalFare,
		PaymentStatus: paymentStatus,
		TransactionID: transactionID,
		CreatedAt:     time.Now(),
	}

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a concurrent completion race; the winner's receipt is
			// the receipt.
			return s.receiptRepo.GetByRideID(ctx, rideID)
		}
		return nil, err
	}

	log.Printf("receipt %s generated for ride %s", receipt.ID, rideID)
	return receipt, nil
}

// GetReceipt retrieves the receipt for a ride.
func (s *ReceiptService) GetReceipt(ctx context.Context, rideID string) (*domain.Receipt, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.receiptRepo.GetByRideID(ctx, rideID)
}

// UpdatePaymentStatus records the outcome of a payment against the ride's
// receipt. Payment is expected to follow completion: if no receipt exists
// yet this returns repository.ErrNotFound for the caller to report.
func (s *ReceiptService) UpdatePaymentStatus(ctx context.Context, rideID string, status domain.PaymentStatus, transactionID string) error {
	if rideID == "" {
		return ErrInvalidRideID
	}
	return s.receiptRepo.UpdatePaymentStatus(ctx, rideID, status, transactionID)
}

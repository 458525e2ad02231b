package service

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
)

// PSP is the interface for a Payment Service Provider. One synchronous
// charge call, no webhooks.
type PSP interface {
	Charge(ctx context.Context, rideID string, amount float64) (transactionID string, err error)
}

// MockPSP is a stand-in PSP that always approves the charge.
type MockPSP struct{}

// NewMockPSP creates a new mock PSP.
func NewMockPSP() *MockPSP {
	return &MockPSP{}
}

const txnAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Charge approves the payment and returns a generated transaction id.
func (p *MockPSP) Charge(ctx context.Context, rideID string, amount float64) (string, error) {
	id := make([]byte, 9)
	for i := range id {
		id[i] = txnAlphabet[rand.IntN(len(txnAlphabet))]
	}
	return "txn_" + string(id), nil
}

// PaymentService charges a ride and records the outcome on its receipt.
type PaymentService struct {
	receiptService *ReceiptService
	psp            PSP
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(receiptService *ReceiptService, psp PSP) *PaymentService {
	return &PaymentService{receiptService: receiptService, psp: psp}
}

// ProcessPaymentRequest contains the parameters for processing a payment.
type ProcessPaymentRequest struct {
	RideID string
	Amount float64
}

// PaymentResult contains the outcome of a payment.
type PaymentResult struct {
	RideID        string
	Amount        float64
	TransactionID string
	ReceiptFound  bool
}

// ProcessPayment charges the PSP and marks the ride's receipt completed.
// A payment arriving before the trip completed finds no receipt; that is
// reported in the result, not treated as a failure.
func (s *PaymentService) ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (*PaymentResult, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}

	transactionID, err := s.psp.Charge(ctx, req.RideID, req.Amount)
	if err != nil {
		if updateErr := s.receiptService.UpdatePaymentStatus(ctx, req.RideID, domain.PaymentStatusFailed, ""); updateErr != nil {
			log.Printf("failed to mark receipt failed for ride %s: %v", req.RideID, updateErr)
		}
		return nil, err
	}

	result := &PaymentResult{
		RideID:        req.RideID,
		Amount:        req.Amount,
		TransactionID: transactionID,
		ReceiptFound:  true,
	}

	err = s.receiptService.UpdatePaymentStatus(ctx, req.RideID, domain.PaymentStatusCompleted, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("no receipt yet for ride %s, payment %s recorded unapplied", req.RideID, transactionID)
			result.ReceiptFound = false
			return result, nil
		}
		return nil, err
	}

	log.Printf("payment processed for ride %s: %s", req.RideID, transactionID)
	return result, nil
}

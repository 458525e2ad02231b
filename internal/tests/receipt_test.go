package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
	"github.com/Siddharthbgp/ride-hailing-app/internal/service"
)

// ──────────────────────────────────────────────
// RECEIPTS AND PAYMENTS
// ──────────────────────────────────────────────

var testFare = domain.FareBreakdown{
	BaseFare:     50,
	DistanceFare: 54,
	SurgeFare:    0,
	TotalFare:    104,
	SurgeFactor:  1.0,
}

func TestGenerateReceipt_Idempotent(t *testing.T) {
	t.Parallel()

	receiptRepo := NewMockReceiptRepository()
	svc := service.NewReceiptService(receiptRepo)
	ctx := context.Background()

	first, err := svc.GenerateReceipt(ctx, "ride-1", testFare, "")
	if err != nil {
		t.Fatalf("first generate failed: %v", err)
	}

	// Different fare on the retry: the original receipt must win.
	other := testFare
	other.TotalFare = 999
	second, err := svc.GenerateReceipt(ctx, "ride-1", other, "")
	if err != nil {
		t.Fatalf("second generate failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("receipt id changed: %s vs %s", first.ID, second.ID)
	}
	if second.TotalFare != 104 {
		t.Errorf("total fare = %.2f, want original 104", second.TotalFare)
	}
	if got := receiptRepo.CountReceipts(); got != 1 {
		t.Errorf("receipts = %d, want 1", got)
	}
	if receiptRepo.CreateCallCount != 1 {
		t.Errorf("create calls = %d, want 1", receiptRepo.CreateCallCount)
	}
}

func TestGenerateReceipt_PaymentStatusFollowsTransactionID(t *testing.T) {
	t.Parallel()

	svc := service.NewReceiptService(NewMockReceiptRepository())
	ctx := context.Background()

	pending, err := svc.GenerateReceipt(ctx, "ride-1", testFare, "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if pending.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("status = %s, want pending without transaction", pending.PaymentStatus)
	}

	paid, err := svc.GenerateReceipt(ctx, "ride-2", testFare, "txn_abc123xyz")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if paid.PaymentStatus != domain.PaymentStatusCompleted {
		t.Errorf("status = %s, want completed with transaction", paid.PaymentStatus)
	}
	if paid.TransactionID != "txn_abc123xyz" {
		t.Errorf("transaction id = %s", paid.TransactionID)
	}
}

func TestUpdatePaymentStatus_BeforeReceiptExists(t *testing.T) {
	t.Parallel()

	svc := service.NewReceiptService(NewMockReceiptRepository())

	err := svc.UpdatePaymentStatus(context.Background(), "ride-1", domain.PaymentStatusCompleted, "txn_x")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// failingPSP declines every charge.
type failingPSP struct{}

func (failingPSP) Charge(ctx context.Context, rideID string, amount float64) (string, error) {
	return "", errors.New("card declined")
}

func TestProcessPayment_MarksReceiptCompleted(t *testing.T) {
	t.Parallel()

	receiptRepo := NewMockReceiptRepository()
	receipts := service.NewReceiptService(receiptRepo)
	payments := service.NewPaymentService(receipts, service.NewMockPSP())
	ctx := context.Background()

	if _, err := receipts.GenerateReceipt(ctx, "ride-1", testFare, ""); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	result, err := payments.ProcessPayment(ctx, service.ProcessPaymentRequest{RideID: "ride-1", Amount: 104})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.ReceiptFound {
		t.Error("receipt should have been found")
	}
	if !strings.HasPrefix(result.TransactionID, "txn_") || len(result.TransactionID) != 13 {
		t.Errorf("transaction id = %q, want txn_ plus 9 chars", result.TransactionID)
	}

	receipt, err := receipts.GetReceipt(ctx, "ride-1")
	if err != nil {
		t.Fatalf("get receipt failed: %v", err)
	}
	if receipt.PaymentStatus != domain.PaymentStatusCompleted {
		t.Errorf("status = %s, want completed", receipt.PaymentStatus)
	}
	if receipt.TransactionID != result.TransactionID {
		t.Errorf("receipt transaction = %s, want %s", receipt.TransactionID, result.TransactionID)
	}
}

func TestProcessPayment_BeforeReceiptIsReported(t *testing.T) {
	t.Parallel()

	receipts := service.NewReceiptService(NewMockReceiptRepository())
	payments := service.NewPaymentService(receipts, service.NewMockPSP())

	result, err := payments.ProcessPayment(context.Background(), service.ProcessPaymentRequest{RideID: "ride-1", Amount: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ReceiptFound {
		t.Error("no receipt exists yet; result should say so")
	}
	if result.TransactionID == "" {
		t.Error("charge still happened; transaction id expected")
	}
}

func TestProcessPayment_ChargeFailureMarksReceiptFailed(t *testing.T) {
	t.Parallel()

	receiptRepo := NewMockReceiptRepository()
	receipts := service.NewReceiptService(receiptRepo)
	payments := service.NewPaymentService(receipts, failingPSP{})
	ctx := context.Background()

	if _, err := receipts.GenerateReceipt(ctx, "ride-1", testFare, ""); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	_, err := payments.ProcessPayment(ctx, service.ProcessPaymentRequest{RideID: "ride-1", Amount: 104})
	if err == nil {
		t.Fatal("expected charge error")
	}

	receipt, err := receipts.GetReceipt(ctx, "ride-1")
	if err != nil {
		t.Fatalf("get receipt failed: %v", err)
	}
	if receipt.PaymentStatus != domain.PaymentStatusFailed {
		t.Errorf("status = %s, want failed", receipt.PaymentStatus)
	}
}

func TestProcessPayment_Validation(t *testing.T) {
	t.Parallel()

	payments := service.NewPaymentService(service.NewReceiptService(NewMockReceiptRepository()), service.NewMockPSP())
	ctx := context.Background()

	if _, err := payments.ProcessPayment(ctx, service.ProcessPaymentRequest{Amount: 10}); !errors.Is(err, service.ErrInvalidRideID) {
		t.Errorf("missing ride: error = %v, want ErrInvalidRideID", err)
	}
	if _, err := payments.ProcessPayment(ctx, service.ProcessPaymentRequest{RideID: "ride-1", Amount: 0}); !errors.Is(err, service.ErrInvalidPaymentAmount) {
		t.Errorf("zero amount: error = %v, want ErrInvalidPaymentAmount", err)
	}
	if _, err := payments.ProcessPayment(ctx, service.ProcessPaymentRequest{RideID: "ride-1", Amount: -5}); !errors.Is(err, service.ErrInvalidPaymentAmount) {
		t.Errorf("negative amount: error = %v, want ErrInvalidPaymentAmount", err)
	}
}

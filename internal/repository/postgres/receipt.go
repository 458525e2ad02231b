package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
)

// ReceiptRepository is a PostgreSQL implementation of repository.ReceiptRepository.
type ReceiptRepository struct {
	q Querier
}

// NewReceiptRepository creates a new PostgreSQL receipt repository.
func NewReceiptRepository(db *sql.DB) *ReceiptRepository {
	return &ReceiptRepository{q: db}
}

// NewReceiptRepositoryWithTx creates a receipt repository using a transaction.
func NewReceiptRepositoryWithTx(tx *sql.Tx) *ReceiptRepository {
	return &ReceiptRepository{q: tx}
}

// Create persists a new receipt. The rides 1:1 relation is enforced by a
// unique index on ride_id.
func (r *ReceiptRepository) Create(ctx context.Context, receipt *domain.Receipt) error {
	query := `
		INSERT INTO receipts (id, ride_id, base_fare, distance_fare, surge_fare, total_fare, payment_status, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		receipt.ID,
		receipt.RideID,
		receipt.BaseFare,
		receipt.DistanceFare,
		receipt.SurgeFare,
		receipt.TotalFare,
		receipt.PaymentStatus,
		nullString(receipt.TransactionID),
		receipt.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByRideID retrieves the receipt for a ride.
func (r *ReceiptRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Receipt, error) {
	query := `
		SELECT id, ride_id, base_fare, distance_fare, surge_fare, total_fare, payment_status, transaction_id, created_at
		FROM receipts WHERE ride_id = $1
	`

	var receipt domain.Receipt
	var transactionID sql.NullString
	err := r.q.QueryRowContext(ctx, query, rideID).Scan(
		&receipt.ID,
		&receipt.RideID,
		&receipt.BaseFare,
		&receipt.DistanceFare,
		&receipt.SurgeFare,
		&receipt.TotalFare,
		&receipt.PaymentStatus,
		&transactionID,
		&receipt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	receipt.TransactionID = transactionID.String
	return &receipt, nil
}

// UpdatePaymentStatus updates the payment status and transaction id of the
// receipt belonging to a ride.
func (r *ReceiptRepository) UpdatePaymentStatus(ctx context.Context, rideID string, status domain.PaymentStatus, transactionID string) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE receipts SET payment_status = $1, transaction_id = $2 WHERE ride_id = $3`,
		status, nullString(transactionID), rideID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

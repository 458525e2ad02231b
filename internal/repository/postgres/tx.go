package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
)

// Transactor runs multi-write operations in a single database transaction.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a new Transactor.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

var _ repository.Transactor = (*Transactor)(nil)

// Transact begins a transaction, hands transaction-scoped repositories to
// fn, and commits if fn returns nil.
func (t *Transactor) Transact(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	repos := repository.Repositories{
		Rides:    NewRideRepositoryWithTx(tx),
		Drivers:  NewDriverRepositoryWithTx(tx),
		Receipts: NewReceiptRepositoryWithTx(tx),
		Ratings:  NewRatingRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

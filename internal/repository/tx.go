package repository

import "context"

// Repositories bundles transaction-scoped repository instances handed to a
// Transact callback. All writes made through them commit or roll back as a
// single unit.
type Repositories struct {
	Rides    RideRepository
	Drivers  DriverRepository
	Receipts ReceiptRepository
	Ratings  RatingRepository
}

// Transactor runs multi-write operations atomically against the store of
// record.
type Transactor interface {
	// Transact runs fn inside one storage transaction. The transaction is
	// committed if fn returns nil and rolled back otherwise.
	Transact(ctx context.Context, fn func(r Repositories) error) error
}

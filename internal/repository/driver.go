package repository

import (
	"context"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
// Driver IDs are caller-supplied; Upsert is the creation path.
type DriverRepository interface {
	// Upsert creates the driver if absent, otherwise updates its mutable
	// fields (name, status, position).
	Upsert(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetAll retrieves all drivers.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// UpdateStatus updates the status of a driver.
	UpdateStatus(ctx context.Context, id string, status domain.DriverStatus) error

	// UpdateRating updates the driver's running average rating and count.
	UpdateRating(ctx context.Context, id string, average float64, total int) error
}

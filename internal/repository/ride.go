package repository

import (
	"context"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetAll retrieves recent rides.
	GetAll(ctx context.Context) ([]*domain.Ride, error)

	// GetByRiderID retrieves rides requested by a rider.
	GetByRiderID(ctx context.Context, riderID string) ([]*domain.Ride, error)

	// Update updates an existing ride.
	Update(ctx context.Context, ride *domain.Ride) error

	// Assign atomically moves a requested ride to assigned, recording the
	// driver and OTP. The write is a compare-and-set on status: no
	// concurrent Assign for the same ride may observe the pre-write state.
	// Returns ErrNotFound if the ride does not exist and ErrConflict if its
	// status is no longer requested.
	Assign(ctx context.Context, rideID, driverID, otp string) (*domain.Ride, error)
}

package repository

import (
	"context"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
)

// RatingRepository defines the persistence operations for ratings.
type RatingRepository interface {
	// Create persists a new rating. Returns ErrDuplicate if a rating
	// already exists for the ride.
	Create(ctx context.Context, rating *domain.Rating) error

	// GetByRideID retrieves the rating for a ride.
	GetByRideID(ctx context.Context, rideID string) (*domain.Rating, error)

	// GetByDriverID retrieves all ratings received by a driver.
	GetByDriverID(ctx context.Context, driverID string) ([]*domain.Rating, error)
}

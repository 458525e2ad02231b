package service

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
)

// RatingService records one rating per completed ride and maintains the
// driver's running average. The rating insert and the driver aggregate
// update commit as one transaction: neither ever exists without the other.
type RatingService struct {
	tx         repository.Transactor
	ratingRepo repository.RatingRepository
}

// NewRatingService creates a new RatingService.
func NewRatingService(tx repository.Transactor, ratingRepo repository.RatingRepository) *RatingService {
	return &RatingService{tx: tx, ratingRepo: ratingRepo}
}

// SubmitRatingRequest contains the parameters for submitting a rating.
type SubmitRatingRequest struct {
	RideID  string
	Rating  int
	Comment string
}

// SubmitRating validates and persists a rating, then folds it into the
// driver's average, rounded to one decimal.
func (s *RatingService) SubmitRating(ctx context.Context, req SubmitRatingRequest) (*domain.Rating, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	var rating *domain.Rating
	err := s.tx.Transact(ctx, func(r repository.Repositories) error {
		if _, err := r.Ratings.GetByRideID(ctx, req.RideID); err == nil {
			return ErrAlreadyRated
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		ride, err := r.Rides.GetByID(ctx, req.RideID)
		if err != nil {
			return err
		}
		if ride.Status != domain.RideStatusCompleted {
			return ErrRideNotCompleted
		}
		if ride.DriverID == "" {
			return ErrNoDriverAssigned
		}

		rating = &domain.Rating{
			ID:        uuid.New().String(),
			RideID:    req.RideID,
			DriverID:  ride.DriverID,
			RiderID:   ride.RiderID,
			Rating:    req.Rating,
			Comment:   req.Comment,
			CreatedAt: time.Now(),
		}
		if err := r.Ratings.Create(ctx, rating); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyRated
			}
			return err
		}

		driver, err := r.Drivers.GetByID(ctx, ride.DriverID)
		if err != nil {
			return err
		}

		newAverage := round1((driver.AverageRating*float64(driver.TotalRatings) + float64(req.Rating)) / float64(driver.TotalRatings+1))
		return r.Drivers.UpdateRating(ctx, driver.ID, newAverage, driver.TotalRatings+1)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("rating submitted for ride %s: %d", req.RideID, req.Rating)
	return rating, nil
}

// GetRating retrieves the rating for a ride.
func (s *RatingService) GetRating(ctx context.Context, rideID string) (*domain.Rating, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.ratingRepo.GetByRideID(ctx, rideID)
}

// GetDriverRatings retrieves all ratings received by a driver.
func (s *RatingService) GetDriverRatings(ctx context.Context, driverID string) ([]*domain.Rating, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.ratingRepo.GetByDriverID(ctx, driverID)
}

// round1 rounds half-up to one decimal.
func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
)

// RatingRepository is a PostgreSQL implementation of repository.RatingRepository.
type RatingRepository struct {
	q Querier
}

// NewRatingRepository creates a new PostgreSQL rating repository.
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{q: db}
}

// NewRatingRepositoryWithTx creates a rating repository using a transaction.
func NewRatingRepositoryWithTx(tx *sql.Tx) *RatingRepository {
	return &RatingRepository{q: tx}
}

// Create persists a new rating. A unique index on ride_id enforces the
// one-rating-per-ride rule.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (id, ride_id, driver_id, rider_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		rating.ID,
		rating.RideID,
		rating.DriverID,
		rating.RiderID,
		rating.Rating,
		nullString(rating.Comment),
		rating.CreatedAt,
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

// GetByRideID retrieves the rating for a ride.
func (r *RatingRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Rating, error) {
	query := `
		SELECT id, ride_id, driver_id, rider_id, rating, comment, created_at
		FROM ratings WHERE ride_id = $1
	`

	row := r.q.QueryRowContext(ctx, query, rideID)
	rating, err := scanRating(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rating, nil
}

// GetByDriverID retrieves all ratings received by a driver.
func (r *RatingRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Rating, error) {
	query := `
		SELECT id, ride_id, driver_id, rider_id, rating, comment, created_at
		FROM ratings WHERE driver_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*domain.Rating
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

func scanRating(row rowScanner) (*domain.Rating, error) {
	var rating domain.Rating
	var comment sql.NullString

	err := row.Scan(
		&rating.ID,
		&rating.RideID,
		&rating.DriverID,
		&rating.RiderID,
		&rating.Rating,
		&comment,
		&rating.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rating.Comment = comment.String
	return &rating, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// Upsert creates the driver if absent, otherwise updates its status and
// position. Name and rating aggregates are set at insert only.
func (r *DriverRepository) Upsert(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (id, name, status, lat, lng, average_rating, total_ratings, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, lat = EXCLUDED.lat, lng = EXCLUDED.lng
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Status,
		driver.Lat,
		driver.Lng,
		driver.AverageRating,
		driver.TotalRatings,
		driver.CreatedAt,
	)

	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `
		SELECT id, name, status, lat, lng, average_rating, total_ratings, created_at
		FROM drivers WHERE id = $1
	`

	var driver domain.Driver
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&driver.ID,
		&driver.Name,
		&driver.Status,
		&driver.Lat,
		&driver.Lng,
		&driver.AverageRating,
		&driver.TotalRatings,
		&driver.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &driver, nil
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `
		SELECT id, name, status, lat, lng, average_rating, total_ratings, created_at
		FROM drivers ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		var driver domain.Driver
		if err := rows.Scan(
			&driver.ID,
			&driver.Name,
			&driver.Status,
			&driver.Lat,
			&driver.Lng,
			&driver.AverageRating,
			&driver.TotalRatings,
			&driver.CreatedAt,
		); err != nil {
			return nil, err
		}
		drivers = append(drivers, &driver)
	}
	return drivers, rows.Err()
}

// UpdateStatus updates the status of a driver.
func (r *DriverRepository) UpdateStatus(ctx context.Context, id string, status domain.DriverStatus) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE drivers SET status = $1 WHERE id = $2`, status, id)
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

// UpdateRating updates the driver's running average rating and count.
func (r *DriverRepository) UpdateRating(ctx context.Context, id string, average float64, total int) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE drivers SET average_rating = $1, total_ratings = $2 WHERE id = $3`,
		average, total, id)
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

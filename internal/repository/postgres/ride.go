package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
)

const rideColumns = `id, rider_id, driver_id, status, tier, payment_method,
	pickup_lat, pickup_lng, dest_lat, dest_lng, distance_km, price,
	surge_factor, otp, created_at, started_at, paused_at, completed_at,
	cancelled_at, cancel_reason`

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RiderID,
		nullString(ride.DriverID),
		ride.Status,
		ride.Tier,
		ride.PaymentMethod,
		ride.PickupLat,
		ride.PickupLng,
		ride.DestLat,
		ride.DestLng,
		ride.DistanceKm,
		ride.Price,
		ride.SurgeFactor,
		nullString(ride.OTP),
		ride.CreatedAt,
		nullTime(ride.StartedAt),
		nullTime(ride.PausedAt),
		nullTime(ride.CompletedAt),
		nullTime(ride.CancelledAt),
		nullString(ride.CancelReason),
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	row := r.q.QueryRowContext(ctx, query, id)
	ride, err := scanRide(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// GetAll retrieves recent rides.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRides(rows)
}

// GetByRiderID retrieves rides requested by a rider.
func (r *RideRepository) GetByRiderID(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE rider_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, riderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRides(rows)
}

// Update updates an existing ride.
func (r *RideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	query := `
		UPDATE rides
		SET driver_id = $1, status = $2, price = $3, otp = $4,
			started_at = $5, paused_at = $6, completed_at = $7,
			cancelled_at = $8, cancel_reason = $9
		WHERE id = $10
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(ride.DriverID),
		ride.Status,
		ride.Price,
		nullString(ride.OTP),
		nullTime(ride.StartedAt),
		nullTime(ride.PausedAt),
		nullTime(ride.CompletedAt),
		nullTime(ride.CancelledAt),
		nullString(ride.CancelReason),
		ride.ID,
	)
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

// Assign performs the accept compare-and-set: the UPDATE succeeds only while
// the ride is still requested, so concurrent accepts resolve to one winner.
func (r *RideRepository) Assign(ctx context.Context, rideID, driverID, otp string) (*domain.Ride, error) {
	query := `
		UPDATE rides
		SET status = $2, driver_id = $3, otp = $4
		WHERE id = $1 AND status = $5
		RETURNING ` + rideColumns

	row := r.q.QueryRowContext(ctx, query,
		rideID,
		domain.RideStatusAssigned,
		driverID,
		otp,
		domain.RideStatusRequested,
	)

	ride, err := scanRide(row)
	if err == nil {
		return ride, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Zero rows: either the ride is gone or someone else won the race.
	if _, err := r.GetByID(ctx, rideID); err != nil {
		return nil, err
	}
	return nil, repository.ErrConflict
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID, otp, cancelReason sql.NullString
	var startedAt, pausedAt, completedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&ride.ID,
		&ride.RiderID,
		&driverID,
		&ride.Status,
		&ride.Tier,
		&ride.PaymentMethod,
		&ride.PickupLat,
		&ride.PickupLng,
		&ride.DestLat,
		&ride.DestLng,
		&ride.DistanceKm,
		&ride.Price,
		&ride.SurgeFactor,
		&otp,
		&ride.CreatedAt,
		&startedAt,
		&pausedAt,
		&completedAt,
		&cancelledAt,
		&cancelReason,
	)
	if err != nil {
		return nil, err
	}

	ride.DriverID = driverID.String
	ride.OTP = otp.String
	ride.CancelReason = cancelReason.String
	if startedAt.Valid {
		ride.StartedAt = startedAt.Time
	}
	if pausedAt.Valid {
		ride.PausedAt = pausedAt.Time
	}
	if completedAt.Valid {
		ride.CompletedAt = completedAt.Time
	}
	if cancelledAt.Valid {
		ride.CancelledAt = cancelledAt.Time
	}

	return &ride, nil
}

func collectRides(rows *sql.Rows) ([]*domain.Ride, error) {
	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

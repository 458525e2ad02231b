package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/redis"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
)

// DispatchService implements the accept-ride protocol: at most one
// successful accept per ride, even under concurrent attempts. The winner is
// decided by a compare-and-set on the ride status inside one transaction;
// losers observe ErrRideNotAvailable and must pick another ride.
type DispatchService struct {
	tx          repository.Transactor
	demand      redis.DemandLedgerInterface
	broadcaster redis.BroadcasterInterface
}

// NewDispatchService creates a new DispatchService.
func NewDispatchService(
	tx repository.Transactor,
	demand redis.DemandLedgerInterface,
	broadcaster redis.BroadcasterInterface,
) *DispatchService {
	return &DispatchService{
		tx:          tx,
		demand:      demand,
		broadcaster: broadcaster,
	}
}

// AcceptRide assigns the ride to the driver and issues a fresh OTP. Drivers
// unknown to the store are created busy as a side effect: first accept wins,
// there is no separate registration path.
func (s *DispatchService) AcceptRide(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	var accepted *domain.Ride
	err := s.tx.Transact(ctx, func(r repository.Repositories) error {
		driver, err := r.Drivers.GetByID(ctx, driverID)
		if errors.Is(err, repository.ErrNotFound) {
			driver = &domain.Driver{
				ID:        driverID,
				Name:      "Driver " + driverID,
				CreatedAt: time.Now(),
			}
		} else if err != nil {
			return err
		}

		driver.Status = domain.DriverStatusBusy
		if err := r.Drivers.Upsert(ctx, driver); err != nil {
			return err
		}

		ride, err := r.Rides.Assign(ctx, rideID, driverID, newOTP())
		if err != nil {
			return err
		}

		accepted = ride
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRideNotAvailable
		}
		return nil, err
	}

	// Demand updates are a soft signal, deliberately outside the
	// transaction and never fatal.
	s.decrementDemand(ctx, redis.CounterPendingRides)
	s.decrementDemand(ctx, redis.CounterAvailableDrivers)

	broadcastRide(ctx, s.broadcaster, redis.TopicRideStatusUpdated, accepted)

	log.Printf("ride %s accepted by driver %s", rideID, driverID)
	return accepted, nil
}

func (s *DispatchService) decrementDemand(ctx context.Context, c redis.Counter) {
	if s.demand == nil {
		return
	}
	if err := s.demand.Decrement(ctx, c); err != nil {
		log.Printf("demand decrement %s failed: %v", c, err)
	}
}

// newOTP draws a uniformly random 4-digit code. Codes repeat across rides;
// uniqueness is not required, only unguessability within one ride.
func newOTP() string {
	return fmt.Sprintf("%04d", rand.IntN(10000))
}

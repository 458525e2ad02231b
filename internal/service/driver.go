package service

import (
	"context"
	"log"
	"time"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/geo"
	"github.com/Siddharthbgp/ride-hailing-app/internal/redis"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
)

// DriverService handles driver-facing operations, chiefly the dual-path
// location update: every ping refreshes the short-TTL cache, while the
// durable row is written at most once per "known" marker window. Between
// marker refreshes the durable row may be up to 24h stale on position and
// status; only the cache is fresh.
type DriverService struct {
	locationStore redis.LocationStoreInterface
	driverRepo    repository.DriverRepository
	demand        redis.DemandLedgerInterface
	broadcaster   redis.BroadcasterInterface
}

// NewDriverService creates a new DriverService.
func NewDriverService(
	locationStore redis.LocationStoreInterface,
	driverRepo repository.DriverRepository,
	demand redis.DemandLedgerInterface,
	broadcaster redis.BroadcasterInterface,
) *DriverService {
	return &DriverService{
		locationStore: locationStore,
		driverRepo:    driverRepo,
		demand:        demand,
		broadcaster:   broadcaster,
	}
}

// UpdateLocation records a driver's position. The cache write is
// best-effort; a cache outage degrades to a durable write on every call,
// never to a dropped update.
func (s *DriverService) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lng) {
		return nil, ErrInvalidLocation
	}

	name := "Driver " + driverID

	// Fast path: always refresh the cache record.
	if err := s.locationStore.UpdateLocation(ctx, driverID, name, lat, lng); err != nil {
		log.Printf("location cache write failed for driver %s: %v", driverID, err)
	}

	// A marker read failure counts as unknown, which falls through to the
	// durable write.
	known, err := s.locationStore.IsKnown(ctx, driverID)
	if err != nil {
		log.Printf("known-marker read failed for driver %s: %v", driverID, err)
		known = false
	}

	var driver *domain.Driver
	if known {
		// Durable row is fresh enough; answer from the inputs without
		// touching the store.
		driver = &domain.Driver{
			ID:     driverID,
			Name:   name,
			Status: domain.DriverStatusOnline,
			Lat:    lat,
			Lng:    lng,
		}
	} else {
		upsert := &domain.Driver{
			ID:        driverID,
			Name:      name,
			Status:    domain.DriverStatusOnline,
			Lat:       lat,
			Lng:       lng,
			CreatedAt: time.Now(),
		}
		if err := s.driverRepo.Upsert(ctx, upsert); err != nil {
			return nil, err
		}

		driver, err = s.driverRepo.GetByID(ctx, driverID)
		if err != nil {
			return nil, err
		}

		if err := s.locationStore.MarkKnown(ctx, driverID); err != nil {
			log.Printf("known-marker write failed for driver %s: %v", driverID, err)
		}
	}

	broadcastDriver(ctx, s.broadcaster, driver)
	return driver, nil
}

// SetOffline takes a driver out of rotation: durable status flip, geo index
// removal, marker drop so the next ping rewrites the row, and an
// available-driver decrement.
func (s *DriverService) SetOffline(ctx context.Context, driverID string) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}

	if err := s.driverRepo.UpdateStatus(ctx, driverID, domain.DriverStatusOffline); err != nil {
		return err
	}

	if err := s.locationStore.RemoveLocation(ctx, driverID); err != nil {
		log.Printf("location removal failed for driver %s: %v", driverID, err)
	}
	if err := s.locationStore.ForgetKnown(ctx, driverID); err != nil {
		log.Printf("known-marker removal failed for driver %s: %v", driverID, err)
	}

	if s.demand != nil {
		if err := s.demand.Decrement(ctx, redis.CounterAvailableDrivers); err != nil {
			log.Printf("demand decrement %s failed: %v", redis.CounterAvailableDrivers, err)
		}
	}

	return nil
}

// GetDriver retrieves a driver by ID.
func (s *DriverService) GetDriver(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.driverRepo.GetByID(ctx, driverID)
}

// GetAllDrivers retrieves all drivers.
func (s *DriverService) GetAllDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.GetAll(ctx)
}

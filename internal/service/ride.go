package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/geo"
	"github.com/Siddharthbgp/ride-hailing-app/internal/redis"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
)

// RideService owns the ride lifecycle: requested → assigned → started ⟲
// paused → completed, with cancellation from any non-terminal state.
// Accepting lives in DispatchService; everything else is here.
type RideService struct {
	rideRepo       repository.RideRepository
	driverRepo     repository.DriverRepository
	pricingService *PricingService
	receiptService *ReceiptService
	demand         redis.DemandLedgerInterface
	broadcaster    redis.BroadcasterInterface
}

// NewRideService creates a new RideService.
func NewRideService(
	rideRepo repository.RideRepository,
	driverRepo repository.DriverRepository,
	pricingService *PricingService,
	receiptService *ReceiptService,
	demand redis.DemandLedgerInterface,
	broadcaster redis.BroadcasterInterface,
) *RideService {
	return &RideService{
		rideRepo:       rideRepo,
		driverRepo:     driverRepo,
		pricingService: pricingService,
		receiptService: receiptService,
		demand:         demand,
		broadcaster:    broadcaster,
	}
}

// CreateRideRequest contains the parameters for creating a ride.
type CreateRideRequest struct {
	RiderID       string
	PickupLat     float64
	PickupLng     float64
	DestLat       float64
	DestLng       float64
	Tier          domain.Tier          // optional: defaults to economy
	PaymentMethod domain.PaymentMethod // optional: defaults to card
}

// CreateRide prices and persists a new ride in the requested state. The
// quoted price and surge factor are captured here and never recomputed from
// live demand again.
func (s *RideService) CreateRide(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	tier := normalizeTier(req.Tier)
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.PaymentMethodCard
	}

	distance := geo.Distance(req.PickupLat, req.PickupLng, req.DestLat, req.DestLng)
	surgeFactor := s.pricingService.CalculateSurgeFactor(ctx, req.PickupLat, req.PickupLng, tier)
	fare := s.pricingService.CalculateFare(distance, tier, surgeFactor)

	ride := &domain.Ride{
		ID:            uuid.New().String(),
		RiderID:       req.RiderID,
		Status:        domain.RideStatusRequested,
		Tier:          tier,
		PaymentMethod: paymentMethod,
		PickupLat:     req.PickupLat,
		PickupLng:     req.PickupLng,
		DestLat:       req.DestLat,
		DestLng:       req.DestLng,
		DistanceKm:    distance,
		Price:         fare.TotalFare,
		SurgeFactor:   surgeFactor,
		CreatedAt:     time.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	s.incrementDemand(ctx, redis.CounterPendingRides)
	broadcastRide(ctx, s.broadcaster, redis.TopicRideRequested, ride)

	log.Printf("ride %s created: tier=%s surge=%.2f price=%.2f", ride.ID, tier, surgeFactor, ride.Price)
	return ride, nil
}

// GetRide retrieves a ride by ID.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.rideRepo.GetByID(ctx, rideID)
}

// GetAllRides retrieves recent rides.
func (s *RideService) GetAllRides(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.GetAll(ctx)
}

// GetRiderRides retrieves rides requested by a rider.
func (s *RideService) GetRiderRides(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}
	return s.rideRepo.GetByRiderID(ctx, riderID)
}

// StartTrip verifies the rider's OTP and moves the ride from assigned to
// started. The OTP is cleared on success so it cannot be replayed: a second
// start with the now-stale code fails.
func (s *RideService) StartTrip(ctx context.Context, rideID, otp string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.OTP == "" || ride.OTP != otp {
		return nil, ErrInvalidOTP
	}
	if ride.Status != domain.RideStatusAssigned {
		return nil, ErrRideNotAssigned
	}

	ride.Status = domain.RideStatusStarted
	ride.StartedAt = time.Now()
	ride.OTP = ""

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	broadcastRide(ctx, s.broadcaster, redis.TopicRideStatusUpdated, ride)

	log.Printf("trip started for ride %s", rideID)
	return ride, nil
}

// PauseTrip pauses a started trip.
func (s *RideService) PauseTrip(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusStarted {
		return nil, ErrRideNotStarted
	}

	ride.Status = domain.RideStatusPaused
	ride.PausedAt = time.Now()

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	broadcastRide(ctx, s.broadcaster, redis.TopicRideStatusUpdated, ride)
	return ride, nil
}

// ResumeTrip resumes a paused trip.
func (s *RideService) ResumeTrip(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusPaused {
		return nil, ErrRideNotPaused
	}

	ride.Status = domain.RideStatusStarted
	ride.PausedAt = time.Time{}

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	broadcastRide(ctx, s.broadcaster, redis.TopicRideStatusUpdated, ride)
	return ride, nil
}

// EndTripResponse contains the result of ending a trip.
type EndTripResponse struct {
	Ride    *domain.Ride
	Receipt *domain.Receipt
}

// EndTrip completes a ride from any non-terminal state, recomputes the fare
// from the stored distance/tier/surge, generates the receipt, and releases
// the driver.
func (s *RideService) EndTrip(ctx context.Context, rideID string) (*EndTripResponse, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status.Terminal() {
		return nil, ErrRideAlreadyFinished
	}

	fare := s.pricingService.CalculateFare(ride.DistanceKm, ride.Tier, ride.SurgeFactor)

	ride.Status = domain.RideStatusCompleted
	ride.CompletedAt = time.Now()
	ride.Price = fare.TotalFare
	ride.OTP = ""

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	receipt, err := s.receiptService.GenerateReceipt(ctx, rideID, fare, "")
	if err != nil {
		return nil, err
	}

	s.releaseDriver(ctx, ride.DriverID)

	broadcastRide(ctx, s.broadcaster, redis.TopicRideStatusUpdated, ride)

	log.Printf("trip ended for ride %s: total=%.2f", rideID, fare.TotalFare)
	return &EndTripResponse{Ride: ride, Receipt: receipt}, nil
}

// CancelRide cancels a ride from any non-terminal state, releasing the
// driver if one was assigned.
func (s *RideService) CancelRide(ctx context.Context, rideID, reason string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status.Terminal() {
		return nil, ErrRideAlreadyFinished
	}

	if reason == "" {
		reason = "user cancelled"
	}

	ride.Status = domain.RideStatusCancelled
	ride.CancelledAt = time.Now()
	ride.CancelReason = reason
	ride.OTP = ""

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	s.releaseDriver(ctx, ride.DriverID)
	s.decrementDemand(ctx, redis.CounterPendingRides)

	broadcastRide(ctx, s.broadcaster, redis.TopicRideStatusUpdated, ride)

	log.Printf("ride %s cancelled: %s", rideID, reason)
	return ride, nil
}

// releaseDriver puts an assigned driver back online and returns it to the
// available pool. Failures are logged, not fatal: the ride transition has
// already committed.
func (s *RideService) releaseDriver(ctx context.Context, driverID string) {
	if driverID == "" {
		return
	}
	if err := s.driverRepo.UpdateStatus(ctx, driverID, domain.DriverStatusOnline); err != nil {
		log.Printf("failed to release driver %s: %v", driverID, err)
		return
	}
	s.incrementDemand(ctx, redis.CounterAvailableDrivers)
}

func (s *RideService) incrementDemand(ctx context.Context, c redis.Counter) {
	if s.demand == nil {
		return
	}
	if err := s.demand.Increment(ctx, c); err != nil {
		log.Printf("demand increment %s failed: %v", c, err)
	}
}

func (s *RideService) decrementDemand(ctx context.Context, c redis.Counter) {
	if s.demand == nil {
		return
	}
	if err := s.demand.Decrement(ctx, c); err != nil {
		log.Printf("demand decrement %s failed: %v", c, err)
	}
}

func validateCreateRequest(req CreateRideRequest) error {
	if req.RiderID == "" {
		return ErrInvalidRiderID
	}
	if !geo.ValidLatitude(req.PickupLat) || !geo.ValidLongitude(req.PickupLng) {
		return ErrInvalidPickupLocation
	}
	if !geo.ValidLatitude(req.DestLat) || !geo.ValidLongitude(req.DestLng) {
		return ErrInvalidDestinationLocation
	}
	return nil
}

// normalizeTier maps empty or unknown tiers to economy.
func normalizeTier(tier domain.Tier) domain.Tier {
	switch tier {
	case domain.TierEconomy, domain.TierPremium, domain.TierLuxury:
		return tier
	default:
		return domain.TierEconomy
	}
}

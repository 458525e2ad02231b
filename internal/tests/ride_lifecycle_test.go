package tests

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/redis"
	"github.com/Siddharthbgp/ride-hailing-app/internal/service"
)

// ──────────────────────────────────────────────
// RIDE LIFECYCLE
// ──────────────────────────────────────────────

type lifecycleFixture struct {
	svc         *service.RideService
	rideRepo    *MockRideRepository
	driverRepo  *MockDriverRepository
	receiptRepo *MockReceiptRepository
	demand      *MockDemandLedger
	broadcaster *MockBroadcaster
}

func newLifecycleFixture() *lifecycleFixture {
	rideRepo := NewMockRideRepository()
	driverRepo := NewMockDriverRepository()
	receiptRepo := NewMockReceiptRepository()
	demand := NewMockDemandLedger()
	broadcaster := NewMockBroadcaster()

	pricing := service.NewPricingService(demand)
	receipts := service.NewReceiptService(receiptRepo)
	svc := service.NewRideService(rideRepo, driverRepo, pricing, receipts, demand, broadcaster)

	return &lifecycleFixture{
		svc:         svc,
		rideRepo:    rideRepo,
		driverRepo:  driverRepo,
		receiptRepo: receiptRepo,
		demand:      demand,
		broadcaster: broadcaster,
	}
}

func TestCreateRide_PricesAndPersists(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	// 10 available drivers, no pending rides: no surge.
	f.demand.SetCounter(redis.CounterAvailableDrivers, 10)

	// MG Road to Koramangala, roughly 4.5 km great-circle.
	ride, err := f.svc.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:   "rider-1",
		PickupLat: 12.9716,
		PickupLng: 77.5946,
		DestLat:   12.9352,
		DestLng:   77.6146,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusRequested {
		t.Errorf("status = %s, want requested", ride.Status)
	}
	if ride.Tier != domain.TierEconomy {
		t.Errorf("tier = %s, want economy default", ride.Tier)
	}
	if ride.PaymentMethod != domain.PaymentMethodCard {
		t.Errorf("payment method = %s, want card default", ride.PaymentMethod)
	}
	if ride.DistanceKm < 4.3 || ride.DistanceKm > 4.6 {
		t.Errorf("distance = %.3f km, want 4.3-4.6", ride.DistanceKm)
	}
	if ride.SurgeFactor != 1.0 {
		t.Errorf("surge = %.2f, want 1.0", ride.SurgeFactor)
	}

	wantPrice := math.Floor((50+ride.DistanceKm*12)*100+0.5) / 100
	if ride.Price != wantPrice {
		t.Errorf("price = %.2f, want %.2f", ride.Price, wantPrice)
	}

	if f.rideRepo.CountRides() != 1 {
		t.Error("ride was not persisted")
	}
	if got := f.demand.GetCounter(redis.CounterPendingRides); got != 1 {
		t.Errorf("pending rides = %d, want 1", got)
	}
	if f.broadcaster.CountEvents(redis.TopicRideRequested) != 1 {
		t.Error("expected one ride_requested broadcast")
	}
}

func TestCreateRide_SurgeCapturedAtCreation(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.demand.SetCounter(redis.CounterPendingRides, 25)
	f.demand.SetCounter(redis.CounterAvailableDrivers, 10)

	ride, err := f.svc.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:   "rider-1",
		PickupLat: 12.9716,
		PickupLng: 77.5946,
		DestLat:   12.9352,
		DestLng:   77.6146,
		Tier:      domain.TierPremium,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.SurgeFactor != 3.0 {
		t.Errorf("surge = %.2f, want 3.0", ride.SurgeFactor)
	}

	// base + distance + (base+distance)*(surge-1), premium table.
	base := 100.0
	distanceFare := ride.DistanceKm * 20
	want := math.Floor((base+distanceFare+(base+distanceFare)*2.0)*100+0.5) / 100
	if ride.Price != want {
		t.Errorf("price = %.2f, want %.2f", ride.Price, want)
	}
}

func TestCreateRide_Validation(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	ctx := context.Background()

	if _, err := f.svc.CreateRide(ctx, service.CreateRideRequest{
		PickupLat: 12.97, PickupLng: 77.59, DestLat: 12.93, DestLng: 77.61,
	}); !errors.Is(err, service.ErrInvalidRiderID) {
		t.Errorf("missing rider: error = %v, want ErrInvalidRiderID", err)
	}

	if _, err := f.svc.CreateRide(ctx, service.CreateRideRequest{
		RiderID: "rider-1", PickupLat: 91, PickupLng: 77.59, DestLat: 12.93, DestLng: 77.61,
	}); !errors.Is(err, service.ErrInvalidPickupLocation) {
		t.Errorf("bad pickup: error = %v, want ErrInvalidPickupLocation", err)
	}

	if _, err := f.svc.CreateRide(ctx, service.CreateRideRequest{
		RiderID: "rider-1", PickupLat: 12.97, PickupLng: 77.59, DestLat: 12.93, DestLng: 181,
	}); !errors.Is(err, service.ErrInvalidDestinationLocation) {
		t.Errorf("bad destination: error = %v, want ErrInvalidDestinationLocation", err)
	}

	if f.rideRepo.CountRides() != 0 {
		t.Error("invalid requests must not persist rides")
	}
}

func TestStartTrip_OTPGate(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.rideRepo.AddRide(&domain.Ride{
		ID:       "ride-1",
		DriverID: "driver-1",
		Status:   domain.RideStatusAssigned,
		OTP:      "1234",
	})

	ctx := context.Background()

	// Wrong code never transitions.
	if _, err := f.svc.StartTrip(ctx, "ride-1", "0000"); !errors.Is(err, service.ErrInvalidOTP) {
		t.Errorf("wrong otp: error = %v, want ErrInvalidOTP", err)
	}
	if got := f.rideRepo.GetRide("ride-1").Status; got != domain.RideStatusAssigned {
		t.Errorf("status after failed start = %s, want assigned", got)
	}

	// Correct code starts the trip and burns the OTP.
	ride, err := f.svc.StartTrip(ctx, "ride-1", "1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.Status != domain.RideStatusStarted {
		t.Errorf("status = %s, want started", ride.Status)
	}
	if ride.OTP != "" {
		t.Error("otp not cleared on successful start")
	}
	if ride.StartedAt.IsZero() {
		t.Error("started timestamp not set")
	}

	// Replay with the now-stale code fails on the OTP check, not the state.
	if _, err := f.svc.StartTrip(ctx, "ride-1", "1234"); !errors.Is(err, service.ErrInvalidOTP) {
		t.Errorf("replayed otp: error = %v, want ErrInvalidOTP", err)
	}
}

func TestStartTrip_RequestedRideHasNoOTP(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.rideRepo.AddRide(&domain.Ride{ID: "ride-1", Status: domain.RideStatusRequested})

	if _, err := f.svc.StartTrip(context.Background(), "ride-1", ""); !errors.Is(err, service.ErrInvalidOTP) {
		t.Errorf("error = %v, want ErrInvalidOTP for unassigned ride", err)
	}
}

func TestPauseResume_Guards(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.rideRepo.AddRide(&domain.Ride{ID: "ride-1", Status: domain.RideStatusStarted})

	ctx := context.Background()

	ride, err := f.svc.PauseTrip(ctx, "ride-1")
	if err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if ride.Status != domain.RideStatusPaused {
		t.Errorf("status = %s, want paused", ride.Status)
	}
	if ride.PausedAt.IsZero() {
		t.Error("paused timestamp not set")
	}

	// Double pause is rejected.
	if _, err := f.svc.PauseTrip(ctx, "ride-1"); !errors.Is(err, service.ErrRideNotStarted) {
		t.Errorf("double pause: error = %v, want ErrRideNotStarted", err)
	}

	ride, err = f.svc.ResumeTrip(ctx, "ride-1")
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if ride.Status != domain.RideStatusStarted {
		t.Errorf("status = %s, want started", ride.Status)
	}
	if !ride.PausedAt.IsZero() {
		t.Error("paused timestamp not cleared on resume")
	}

	// Resume only applies to paused trips.
	if _, err := f.svc.ResumeTrip(ctx, "ride-1"); !errors.Is(err, service.ErrRideNotPaused) {
		t.Errorf("double resume: error = %v, want ErrRideNotPaused", err)
	}
}

func TestEndTrip_CompletesAndReleasesDriver(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.rideRepo.AddRide(&domain.Ride{
		ID:          "ride-1",
		DriverID:    "driver-1",
		Status:      domain.RideStatusStarted,
		Tier:        domain.TierEconomy,
		DistanceKm:  4.5,
		SurgeFactor: 2.0,
	})
	f.driverRepo.AddDriver(&domain.Driver{ID: "driver-1", Status: domain.DriverStatusBusy})

	resp, err := f.svc.EndTrip(context.Background(), "ride-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Ride.Status != domain.RideStatusCompleted {
		t.Errorf("status = %s, want completed", resp.Ride.Status)
	}
	if resp.Ride.CompletedAt.IsZero() {
		t.Error("completed timestamp not set")
	}

	// 50 + 4.5*12 = 104, surge doubles it.
	if resp.Receipt == nil {
		t.Fatal("no receipt returned")
	}
	if resp.Receipt.TotalFare != 208.0 {
		t.Errorf("total fare = %.2f, want 208.00", resp.Receipt.TotalFare)
	}
	if resp.Receipt.SurgeFare != 104.0 {
		t.Errorf("surge fare = %.2f, want 104.00", resp.Receipt.SurgeFare)
	}
	if resp.Receipt.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("payment status = %s, want pending", resp.Receipt.PaymentStatus)
	}
	if resp.Ride.Price != resp.Receipt.TotalFare {
		t.Errorf("ride price %.2f != receipt total %.2f", resp.Ride.Price, resp.Receipt.TotalFare)
	}

	// Driver returns to the pool.
	if got := f.driverRepo.GetDriver("driver-1").Status; got != domain.DriverStatusOnline {
		t.Errorf("driver status = %s, want online", got)
	}
	if got := f.demand.GetCounter(redis.CounterAvailableDrivers); got != 1 {
		t.Errorf("available drivers = %d, want 1", got)
	}
}

func TestEndTrip_TerminalRidesRejected(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.rideRepo.AddRide(&domain.Ride{ID: "done", Status: domain.RideStatusCompleted})
	f.rideRepo.AddRide(&domain.Ride{ID: "gone", Status: domain.RideStatusCancelled})

	ctx := context.Background()
	if _, err := f.svc.EndTrip(ctx, "done"); !errors.Is(err, service.ErrRideAlreadyFinished) {
		t.Errorf("completed: error = %v, want ErrRideAlreadyFinished", err)
	}
	if _, err := f.svc.EndTrip(ctx, "gone"); !errors.Is(err, service.ErrRideAlreadyFinished) {
		t.Errorf("cancelled: error = %v, want ErrRideAlreadyFinished", err)
	}
}

func TestEndTrip_FromAnyNonTerminalState(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.rideRepo.AddRide(&domain.Ride{
		ID:          "ride-1",
		Status:      domain.RideStatusPaused,
		Tier:        domain.TierEconomy,
		DistanceKm:  2,
		SurgeFactor: 1.0,
	})

	resp, err := f.svc.EndTrip(context.Background(), "ride-1")
	if err != nil {
		t.Fatalf("end from paused failed: %v", err)
	}
	if resp.Ride.Status != domain.RideStatusCompleted {
		t.Errorf("status = %s, want completed", resp.Ride.Status)
	}
}

func TestCancelRide_FromRequested(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.rideRepo.AddRide(&domain.Ride{ID: "ride-1", Status: domain.RideStatusRequested})
	f.demand.SetCounter(redis.CounterPendingRides, 1)

	ride, err := f.svc.CancelRide(context.Background(), "ride-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusCancelled {
		t.Errorf("status = %s, want cancelled", ride.Status)
	}
	if ride.CancelReason != "user cancelled" {
		t.Errorf("reason = %q, want default", ride.CancelReason)
	}
	if got := f.demand.GetCounter(redis.CounterPendingRides); got != 0 {
		t.Errorf("pending rides = %d, want 0", got)
	}
}

func TestCancelRide_ReleasesAssignedDriver(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.rideRepo.AddRide(&domain.Ride{
		ID:       "ride-1",
		DriverID: "driver-1",
		Status:   domain.RideStatusAssigned,
		OTP:      "4321",
	})
	f.driverRepo.AddDriver(&domain.Driver{ID: "driver-1", Status: domain.DriverStatusBusy})

	ride, err := f.svc.CancelRide(context.Background(), "ride-1", "rider changed plans")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.OTP != "" {
		t.Error("otp not cleared on cancel")
	}
	if ride.CancelReason != "rider changed plans" {
		t.Errorf("reason = %q", ride.CancelReason)
	}
	if got := f.driverRepo.GetDriver("driver-1").Status; got != domain.DriverStatusOnline {
		t.Errorf("driver status = %s, want online", got)
	}
	if got := f.demand.GetCounter(redis.CounterAvailableDrivers); got != 1 {
		t.Errorf("available drivers = %d, want 1", got)
	}
}

func TestCancelRide_TerminalRideRejected(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.rideRepo.AddRide(&domain.Ride{ID: "ride-1", Status: domain.RideStatusCompleted})

	if _, err := f.svc.CancelRide(context.Background(), "ride-1", ""); !errors.Is(err, service.ErrRideAlreadyFinished) {
		t.Errorf("error = %v, want ErrRideAlreadyFinished", err)
	}
}

package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
	"github.com/Siddharthbgp/ride-hailing-app/internal/service"
)

// ──────────────────────────────────────────────
// RATINGS
// ──────────────────────────────────────────────

type ratingFixture struct {
	svc        *service.RatingService
	rideRepo   *MockRideRepository
	driverRepo *MockDriverRepository
	ratingRepo *MockRatingRepository
}

func newRatingFixture() *ratingFixture {
	rideRepo := NewMockRideRepository()
	driverRepo := NewMockDriverRepository()
	ratingRepo := NewMockRatingRepository()
	tx := NewMockTransactor(repository.Repositories{
		Rides:    rideRepo,
		Drivers:  driverRepo,
		Receipts: NewMockReceiptRepository(),
		Ratings:  ratingRepo,
	})
	return &ratingFixture{
		svc:        service.NewRatingService(tx, ratingRepo),
		rideRepo:   rideRepo,
		driverRepo: driverRepo,
		ratingRepo: ratingRepo,
	}
}

func (f *ratingFixture) addCompletedRide(rideID, driverID string) {
	f.rideRepo.AddRide(&domain.Ride{
		ID:       rideID,
		RiderID:  "rider-1",
		DriverID: driverID,
		Status:   domain.RideStatusCompleted,
	})
}

func TestSubmitRating_FirstRatingSetsAverage(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.addCompletedRide("ride-1", "driver-1")
	f.driverRepo.AddDriver(&domain.Driver{ID: "driver-1"})

	rating, err := f.svc.SubmitRating(context.Background(), service.SubmitRatingRequest{
		RideID:  "ride-1",
		Rating:  5,
		Comment: "smooth ride",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rating.DriverID != "driver-1" || rating.RiderID != "rider-1" {
		t.Errorf("rating parties = %s/%s", rating.DriverID, rating.RiderID)
	}

	driver := f.driverRepo.GetDriver("driver-1")
	if driver.AverageRating != 5.0 {
		t.Errorf("average = %.1f, want 5.0", driver.AverageRating)
	}
	if driver.TotalRatings != 1 {
		t.Errorf("total = %d, want 1", driver.TotalRatings)
	}
}

func TestSubmitRating_DuplicateRejected(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.addCompletedRide("ride-1", "driver-1")
	f.driverRepo.AddDriver(&domain.Driver{ID: "driver-1"})

	ctx := context.Background()
	if _, err := f.svc.SubmitRating(ctx, service.SubmitRatingRequest{RideID: "ride-1", Rating: 4}); err != nil {
		t.Fatalf("first rating failed: %v", err)
	}

	_, err := f.svc.SubmitRating(ctx, service.SubmitRatingRequest{RideID: "ride-1", Rating: 1})
	if !errors.Is(err, service.ErrAlreadyRated) {
		t.Errorf("error = %v, want ErrAlreadyRated", err)
	}

	// The rejected rating must not move the average.
	driver := f.driverRepo.GetDriver("driver-1")
	if driver.AverageRating != 4.0 || driver.TotalRatings != 1 {
		t.Errorf("aggregates moved: avg=%.1f total=%d", driver.AverageRating, driver.TotalRatings)
	}
}

func TestSubmitRating_RunningAverageRoundsToOneDecimal(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.driverRepo.AddDriver(&domain.Driver{ID: "driver-1"})

	ctx := context.Background()
	for i, v := range []int{4, 5, 3} {
		rideID := fmt.Sprintf("ride-%d", i)
		f.addCompletedRide(rideID, "driver-1")
		if _, err := f.svc.SubmitRating(ctx, service.SubmitRatingRequest{RideID: rideID, Rating: v}); err != nil {
			t.Fatalf("rating %d failed: %v", i, err)
		}
	}

	// 4 → (4+5)/2 = 4.5 → (4.5*2+3)/3 = 4.0
	driver := f.driverRepo.GetDriver("driver-1")
	if driver.AverageRating != 4.0 {
		t.Errorf("average = %.1f, want 4.0", driver.AverageRating)
	}
	if driver.TotalRatings != 3 {
		t.Errorf("total = %d, want 3", driver.TotalRatings)
	}
}

func TestSubmitRating_Bounds(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.addCompletedRide("ride-1", "driver-1")
	f.driverRepo.AddDriver(&domain.Driver{ID: "driver-1"})

	ctx := context.Background()
	for _, v := range []int{0, 6, -1} {
		if _, err := f.svc.SubmitRating(ctx, service.SubmitRatingRequest{RideID: "ride-1", Rating: v}); !errors.Is(err, service.ErrInvalidRating) {
			t.Errorf("rating %d: error = %v, want ErrInvalidRating", v, err)
		}
	}
	if f.ratingRepo.CountRatings() != 0 {
		t.Error("out-of-range ratings must not persist")
	}
}

func TestSubmitRating_RequiresCompletedRide(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.driverRepo.AddDriver(&domain.Driver{ID: "driver-1"})

	ctx := context.Background()
	for _, status := range []domain.RideStatus{
		domain.RideStatusRequested,
		domain.RideStatusAssigned,
		domain.RideStatusStarted,
		domain.RideStatusPaused,
		domain.RideStatusCancelled,
	} {
		rideID := "ride-" + string(status)
		f.rideRepo.AddRide(&domain.Ride{ID: rideID, DriverID: "driver-1", Status: status})
		if _, err := f.svc.SubmitRating(ctx, service.SubmitRatingRequest{RideID: rideID, Rating: 5}); !errors.Is(err, service.ErrRideNotCompleted) {
			t.Errorf("status %s: error = %v, want ErrRideNotCompleted", status, err)
		}
	}
}

func TestSubmitRating_RequiresDriver(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.rideRepo.AddRide(&domain.Ride{ID: "ride-1", Status: domain.RideStatusCompleted})

	_, err := f.svc.SubmitRating(context.Background(), service.SubmitRatingRequest{RideID: "ride-1", Rating: 5})
	if !errors.Is(err, service.ErrNoDriverAssigned) {
		t.Errorf("error = %v, want ErrNoDriverAssigned", err)
	}
}

func TestSubmitRating_UnknownRide(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()

	_, err := f.svc.SubmitRating(context.Background(), service.SubmitRatingRequest{RideID: "no-such", Rating: 5})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetRating_ReturnsSubmitted(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.addCompletedRide("ride-1", "driver-1")
	f.driverRepo.AddDriver(&domain.Driver{ID: "driver-1"})

	ctx := context.Background()
	submitted, err := f.svc.SubmitRating(ctx, service.SubmitRatingRequest{RideID: "ride-1", Rating: 3, Comment: "ok"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	got, err := f.svc.GetRating(ctx, "ride-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != submitted.ID || got.Rating != 3 || got.Comment != "ok" {
		t.Errorf("got %+v, want the submitted rating", got)
	}
}

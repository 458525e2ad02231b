package service

import "errors"

var (
	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidPickupLocation is returned when pickup coordinates are invalid.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDestinationLocation is returned when destination coordinates are invalid.
	ErrInvalidDestinationLocation = errors.New("invalid destination location")

	// ErrInvalidLocation is returned when location coordinates are invalid.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrRideNotAvailable is returned when a driver loses the accept race
	// or the ride has otherwise moved past requested.
	ErrRideNotAvailable = errors.New("ride not available")

	// ErrInvalidOTP is returned when trip start is attempted with a wrong,
	// stale, or absent OTP.
	ErrInvalidOTP = errors.New("invalid otp")

	// ErrRideNotAssigned is returned when starting a ride that is not assigned.
	ErrRideNotAssigned = errors.New("ride not assigned")

	// ErrRideNotStarted is returned when pausing a ride that is not started.
	ErrRideNotStarted = errors.New("ride not started")

	// ErrRideNotPaused is returned when resuming a ride that is not paused.
	ErrRideNotPaused = errors.New("ride not paused")

	// ErrRideAlreadyFinished is returned when operating on a completed or
	// cancelled ride.
	ErrRideAlreadyFinished = errors.New("ride already completed or cancelled")

	// ErrInvalidRating is returned when a rating value is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrAlreadyRated is returned when a rating already exists for the ride.
	ErrAlreadyRated = errors.New("rating already submitted for this ride")

	// ErrRideNotCompleted is returned when rating a ride that has not completed.
	ErrRideNotCompleted = errors.New("can only rate completed rides")

	// ErrNoDriverAssigned is returned when rating a ride with no driver.
	ErrNoDriverAssigned = errors.New("no driver assigned to this ride")

	// ErrInvalidPaymentAmount is returned when a payment amount is not positive.
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
)

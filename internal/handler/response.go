package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
	"github.com/Siddharthbgp/ride-hailing-app/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation - Bad Request
	case errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDestinationLocation),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidPaymentAmount):
		return http.StatusBadRequest

	// OTP mismatch
	case errors.Is(err, service.ErrInvalidOTP):
		return http.StatusUnauthorized

	// Invalid state / lost race - Conflict
	case errors.Is(err, service.ErrRideNotAvailable),
		errors.Is(err, service.ErrRideNotAssigned),
		errors.Is(err, service.ErrRideNotStarted),
		errors.Is(err, service.ErrRideNotPaused),
		errors.Is(err, service.ErrRideAlreadyFinished),
		errors.Is(err, service.ErrAlreadyRated),
		errors.Is(err, service.ErrRideNotCompleted),
		errors.Is(err, service.ErrNoDriverAssigned),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID            string  `json:"id"`
	RiderID       string  `json:"rider_id"`
	DriverID      string  `json:"driver_id,omitempty"`
	Status        string  `json:"status"`
	Tier          string  `json:"tier"`
	PaymentMethod string  `json:"payment_method"`
	PickupLat     float64 `json:"pickup_lat"`
	PickupLng     float64 `json:"pickup_lng"`
	DestLat       float64 `json:"dest_lat"`
	DestLng       float64 `json:"dest_lng"`
	DistanceKm    float64 `json:"distance_km"`
	Price         float64 `json:"price"`
	SurgeFactor   float64 `json:"surge_factor"`
	OTP           string  `json:"otp,omitempty"`
	CreatedAt     string  `json:"created_at"`
	StartedAt     string  `json:"started_at,omitempty"`
	PausedAt      string  `json:"paused_at,omitempty"`
	CompletedAt   string  `json:"completed_at,omitempty"`
	CancelledAt   string  `json:"cancelled_at,omitempty"`
	CancelReason  string  `json:"cancel_reason,omitempty"`
}

func toRideResponse(ride *domain.Ride) RideResponse {
	return RideResponse{
		ID:            ride.ID,
		RiderID:       ride.RiderID,
		DriverID:      ride.DriverID,
		Status:        string(ride.Status),
		Tier:          string(ride.Tier),
		PaymentMethod: string(ride.PaymentMethod),
		PickupLat:     ride.PickupLat,
		PickupLng:     ride.PickupLng,
		DestLat:       ride.DestLat,
		DestLng:       ride.DestLng,
		DistanceKm:    ride.DistanceKm,
		Price:         ride.Price,
		SurgeFactor:   ride.SurgeFactor,
		OTP:           ride.OTP,
		CreatedAt:     formatTime(ride.CreatedAt),
		StartedAt:     formatTime(ride.StartedAt),
		PausedAt:      formatTime(ride.PausedAt),
		CompletedAt:   formatTime(ride.CompletedAt),
		CancelledAt:   formatTime(ride.CancelledAt),
		CancelReason:  ride.CancelReason,
	}
}

// DriverResponse is the HTTP representation of a driver.
type DriverResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Status        string  `json:"status"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

func toDriverResponse(driver *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:            driver.ID,
		Name:          driver.Name,
		Status:        string(driver.Status),
		Lat:           driver.Lat,
		Lng:           driver.Lng,
		AverageRating: driver.AverageRating,
		TotalRatings:  driver.TotalRatings,
	}
}

// ReceiptResponse is the HTTP representation of a receipt.
type ReceiptResponse struct {
	ID            string  `json:"id"`
	RideID        string  `json:"ride_id"`
	BaseFare      float64 `json:"base_fare"`
	DistanceFare  float64 `json:"distance_fare"`
	SurgeFare     float64 `json:"surge_fare"`
	TotalFare     float64 `json:"total_fare"`
	PaymentStatus string  `json:"payment_status"`
	TransactionID string  `json:"transaction_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func toReceiptResponse(receipt *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:            receipt.ID,
		RideID:        receipt.RideID,
		BaseFare:      receipt.BaseFare,
		DistanceFare:  receipt.DistanceFare,
		SurgeFare:     receipt.SurgeFare,
		TotalFare:     receipt.TotalFare,
		PaymentStatus: string(receipt.PaymentStatus),
		TransactionID: receipt.TransactionID,
		CreatedAt:     formatTime(receipt.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

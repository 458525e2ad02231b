package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService     *service.RideService
	dispatchService *service.DispatchService
	receiptService  *service.ReceiptService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(
	rideService *service.RideService,
	dispatchService *service.DispatchService,
	receiptService *service.ReceiptService,
) *RideHandler {
	return &RideHandler{
		rideService:     rideService,
		dispatchService: dispatchService,
		receiptService:  receiptService,
	}
}

// CreateRideRequest is the HTTP request body for creating a ride.
type CreateRideRequest struct {
	RiderID       string  `json:"rider_id"`
	PickupLat     float64 `json:"pickup_lat"`
	PickupLng     float64 `json:"pickup_lng"`
	DestLat       float64 `json:"dest_lat"`
	DestLng       float64 `json:"dest_lng"`
	Tier          string  `json:"tier"`
	PaymentMethod string  `json:"payment_method"`
}

// CreateRide handles POST /v1/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.CreateRide(c.Request.Context(), service.CreateRideRequest{
		RiderID:       req.RiderID,
		PickupLat:     req.PickupLat,
		PickupLng:     req.PickupLng,
		DestLat:       req.DestLat,
		DestLng:       req.DestLng,
		Tier:          domain.Tier(req.Tier),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRideResponse(ride))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponse(ride))
}

// GetAll handles GET /v1/rides, optionally filtered by rider.
func (h *RideHandler) GetAll(c *gin.Context) {
	var rides []*domain.Ride
	var err error

	if riderID := c.Query("rider_id"); riderID != "" {
		rides, err = h.rideService.GetRiderRides(c.Request.Context(), riderID)
	} else {
		rides, err = h.rideService.GetAllRides(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]RideResponse, 0, len(rides))
	for _, ride := range rides {
		responses = append(responses, toRideResponse(ride))
	}

	c.JSON(http.StatusOK, responses)
}

// AcceptRideRequest is the HTTP request body for accepting a ride.
type AcceptRideRequest struct {
	DriverID string `json:"driver_id"`
}

// AcceptRide handles POST /v1/rides/:id/accept
func (h *RideHandler) AcceptRide(c *gin.Context) {
	var req AcceptRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.dispatchService.AcceptRide(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponse(ride))
}

// StartTripRequest is the HTTP request body for starting a trip.
type StartTripRequest struct {
	OTP string `json:"otp"`
}

// StartTrip handles POST /v1/rides/:id/start
func (h *RideHandler) StartTrip(c *gin.Context) {
	var req StartTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.StartTrip(c.Request.Context(), c.Param("id"), req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponse(ride))
}

// PauseTrip handles POST /v1/rides/:id/pause
func (h *RideHandler) PauseTrip(c *gin.Context) {
	ride, err := h.rideService.PauseTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponse(ride))
}

// ResumeTrip handles POST /v1/rides/:id/resume
func (h *RideHandler) ResumeTrip(c *gin.Context) {
	ride, err := h.rideService.ResumeTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponse(ride))
}

// EndTripResponse is the HTTP response for ending a trip.
type EndTripResponse struct {
	Ride    RideResponse     `json:"ride"`
	Receipt *ReceiptResponse `json:"receipt,omitempty"`
}

// EndTrip handles POST /v1/rides/:id/end
func (h *RideHandler) EndTrip(c *gin.Context) {
	result, err := h.rideService.EndTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := EndTripResponse{Ride: toRideResponse(result.Ride)}
	if result.Receipt != nil {
		receipt := toReceiptResponse(result.Receipt)
		response.Receipt = &receipt
	}

	c.JSON(http.StatusOK, response)
}

// CancelRideRequest is the HTTP request body for cancelling a ride.
type CancelRideRequest struct {
	Reason string `json:"reason"`
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	var req CancelRideRequest
	// Body is optional; a bare cancel uses the default reason.
	_ = c.ShouldBindJSON(&req)

	ride, err := h.rideService.CancelRide(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponse(ride))
}

// GetReceipt handles GET /v1/rides/:id/receipt
func (h *RideHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReceiptResponse(receipt))
}

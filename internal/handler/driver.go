package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Siddharthbgp/ride-hailing-app/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// UpdateLocationRequest is the HTTP request body for updating driver location.
type UpdateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateLocation handles POST /v1/drivers/:id/location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.UpdateLocation(c.Request.Context(), c.Param("id"), req.Lat, req.Lng)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDriverResponse(driver))
}

// SetOffline handles POST /v1/drivers/:id/offline
func (h *DriverHandler) SetOffline(c *gin.Context) {
	if err := h.driverService.SetOffline(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "offline"})
}

// GetDriver handles GET /v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driver, err := h.driverService.GetDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDriverResponse(driver))
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	drivers, err := h.driverService.GetAllDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]DriverResponse, 0, len(drivers))
	for _, driver := range drivers {
		responses = append(responses, toDriverResponse(driver))
	}

	c.JSON(http.StatusOK, responses)
}

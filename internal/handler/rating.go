package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/service"
)

// RatingHandler handles HTTP requests for ratings.
type RatingHandler struct {
	ratingService *service.RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// SubmitRatingRequest is the HTTP request body for submitting a rating.
type SubmitRatingRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// RatingResponse is the HTTP representation of a rating.
type RatingResponse struct {
	ID       string `json:"id"`
	RideID   string `json:"ride_id"`
	DriverID string `json:"driver_id"`
	RiderID  string `json:"rider_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment,omitempty"`
}

func toRatingResponse(rating *domain.Rating) RatingResponse {
	return RatingResponse{
		ID:       rating.ID,
		RideID:   rating.RideID,
		DriverID: rating.DriverID,
		RiderID:  rating.RiderID,
		Rating:   rating.Rating,
		Comment:  rating.Comment,
	}
}

// SubmitRating handles POST /v1/rides/:id/rating
func (h *RatingHandler) SubmitRating(c *gin.Context) {
	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rating, err := h.ratingService.SubmitRating(c.Request.Context(), service.SubmitRatingRequest{
		RideID:  c.Param("id"),
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRatingResponse(rating))
}

// GetRating handles GET /v1/rides/:id/rating
func (h *RatingHandler) GetRating(c *gin.Context) {
	rating, err := h.ratingService.GetRating(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRatingResponse(rating))
}

// GetDriverRatings handles GET /v1/drivers/:id/ratings
func (h *RatingHandler) GetDriverRatings(c *gin.Context) {
	ratings, err := h.ratingService.GetDriverRatings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]RatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		responses = append(responses, toRatingResponse(rating))
	}

	c.JSON(http.StatusOK, responses)
}

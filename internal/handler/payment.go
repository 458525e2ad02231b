package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Siddharthbgp/ride-hailing-app/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ProcessPaymentRequest is the HTTP request body for processing a payment.
type ProcessPaymentRequest struct {
	RideID string  `json:"ride_id"`
	Amount float64 `json:"amount"`
}

// PaymentResponse is the HTTP representation of a payment result.
type PaymentResponse struct {
	RideID        string  `json:"ride_id"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
	ReceiptFound  bool    `json:"receipt_found"`
}

// ProcessPayment handles POST /v1/payments/process
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.paymentService.ProcessPayment(c.Request.Context(), service.ProcessPaymentRequest{
		RideID: req.RideID,
		Amount: req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PaymentResponse{
		RideID:        result.RideID,
		Amount:        result.Amount,
		TransactionID: result.TransactionID,
		ReceiptFound:  result.ReceiptFound,
	})
}

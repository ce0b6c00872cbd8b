package handler

import (
	appfinance "github.com/NhieuThienAn/CoCo-Shop-sub003/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes payment attempt and gateway callback endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService  *appfinance.PaymentService
	callbackService *appfinance.PaymentCallbackService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *appfinance.PaymentService, callbackService *appfinance.PaymentCallbackService) *PaymentHandler {
	return &PaymentHandler{
		paymentService:  paymentService,
		callbackService: callbackService,
	}
}

// Create opens a new payment attempt for an order
// POST /api/v1/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req appfinance.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payment, err := h.paymentService.CreateAttempt(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// Get retrieves a payment by ID
// GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// ListByOrder retrieves all payment attempts for an order
// GET /api/v1/orders/:id/payments
func (h *PaymentHandler) ListByOrder(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	payments, err := h.paymentService.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Refund refunds a settled payment
// POST /api/v1/payments/:id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	paymentID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid payment ID")
		return
	}

	var req appfinance.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payment, err := h.paymentService.Refund(c.Request.Context(), paymentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Callback receives payment gateway notifications.
// Gateways retry aggressively, so duplicates are answered with the
// recorded outcome instead of an error.
// POST /api/v1/callbacks/payment
func (h *PaymentHandler) Callback(c *gin.Context) {
	var req appfinance.GatewayCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.callbackService.HandleCallback(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

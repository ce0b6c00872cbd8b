package handler

import (
	apptrade "github.com/NhieuThienAn/CoCo-Shop-sub003/internal/application/trade"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/trade"
	"github.com/gin-gonic/gin"
)

// OrderHandler exposes checkout and order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	checkoutService *apptrade.CheckoutService
	orderService    *apptrade.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkoutService *apptrade.CheckoutService, orderService *apptrade.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// Checkout creates an order from a cart
// POST /api/v1/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req apptrade.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.checkoutService.CreateFromCart(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Get retrieves one order
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByNumber retrieves one order by its business number
// GET /api/v1/orders/number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.orderService.GetByOrderNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List retrieves orders, optionally filtered by status
// GET /api/v1/orders?status=PENDING
func (h *OrderHandler) List(c *gin.Context) {
	var status *trade.OrderStatus
	if s := c.Query("status"); s != "" {
		parsed := trade.OrderStatus(s)
		if !parsed.IsValid() {
			h.BadRequest(c, "invalid order status")
			return
		}
		status = &parsed
	}

	page, err := h.orderService.List(c.Request.Context(), status, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// ListByUser retrieves a user's orders
// GET /api/v1/users/:id/orders
func (h *OrderHandler) ListByUser(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid user ID")
		return
	}

	page, err := h.orderService.ListByUser(c.Request.Context(), userID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// UpdateStatus transitions an order to a new status
// PUT /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	var req apptrade.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

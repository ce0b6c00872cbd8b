package handler

import (
	apptrade "github.com/NhieuThienAn/CoCo-Shop-sub003/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// CouponHandler exposes coupon administration and validation endpoints
type CouponHandler struct {
	BaseHandler
	couponService *apptrade.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(couponService *apptrade.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// Create registers a new coupon
// POST /api/v1/coupons
func (h *CouponHandler) Create(c *gin.Context) {
	var req apptrade.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	coupon, err := h.couponService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, coupon)
}

// Validate checks a coupon against a cart subtotal without consuming it
// POST /api/v1/coupons/validate
func (h *CouponHandler) Validate(c *gin.Context) {
	var req apptrade.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.couponService.Validate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Get retrieves one coupon
// GET /api/v1/coupons/:id
func (h *CouponHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid coupon ID")
		return
	}

	coupon, err := h.couponService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coupon)
}

// List retrieves coupons
// GET /api/v1/coupons
func (h *CouponHandler) List(c *gin.Context) {
	page, err := h.couponService.List(c.Request.Context(), parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Activate turns a coupon on
// POST /api/v1/coupons/:id/activate
func (h *CouponHandler) Activate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid coupon ID")
		return
	}

	coupon, err := h.couponService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coupon)
}

// Deactivate turns a coupon off
// POST /api/v1/coupons/:id/deactivate
func (h *CouponHandler) Deactivate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid coupon ID")
		return
	}

	coupon, err := h.couponService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coupon)
}

// Delete removes an unused coupon
// DELETE /api/v1/coupons/:id
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid coupon ID")
		return
	}

	if err := h.couponService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	appinventory "github.com/NhieuThienAn/CoCo-Shop-sub003/internal/application/inventory"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/gin-gonic/gin"
)

// StockReceiptHandler exposes goods receipt endpoints
type StockReceiptHandler struct {
	BaseHandler
	receiptService *appinventory.StockReceiptService
}

// NewStockReceiptHandler creates a new StockReceiptHandler
func NewStockReceiptHandler(receiptService *appinventory.StockReceiptService) *StockReceiptHandler {
	return &StockReceiptHandler{receiptService: receiptService}
}

// Create registers a new pending goods receipt
// POST /api/v1/receipts
func (h *StockReceiptHandler) Create(c *gin.Context) {
	var req appinventory.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	receipt, err := h.receiptService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}

// Get retrieves a receipt by ID
// GET /api/v1/receipts/:id
func (h *StockReceiptHandler) Get(c *gin.Context) {
	receiptID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// List retrieves receipts, optionally filtered by status
// GET /api/v1/receipts?status=PENDING
func (h *StockReceiptHandler) List(c *gin.Context) {
	var status *inventory.ReceiptStatus
	if s := c.Query("status"); s != "" {
		rs := inventory.ReceiptStatus(s)
		if !rs.IsValid() {
			h.BadRequest(c, "invalid receipt status")
			return
		}
		status = &rs
	}

	page, err := h.receiptService.List(c.Request.Context(), status, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Approve approves a pending receipt and books its stock in
// POST /api/v1/receipts/:id/approve
func (h *StockReceiptHandler) Approve(c *gin.Context) {
	receiptID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid receipt ID")
		return
	}

	var req appinventory.ReviewReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	receipt, err := h.receiptService.Approve(c.Request.Context(), receiptID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// Reject rejects a pending receipt without touching stock
// POST /api/v1/receipts/:id/reject
func (h *StockReceiptHandler) Reject(c *gin.Context) {
	receiptID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid receipt ID")
		return
	}

	var req appinventory.ReviewReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	receipt, err := h.receiptService.Reject(c.Request.Context(), receiptID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

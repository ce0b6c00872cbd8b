package handler

import (
	"time"

	appinventory "github.com/NhieuThienAn/CoCo-Shop-sub003/internal/application/inventory"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler exposes stock adjustment and movement log endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *appinventory.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *appinventory.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Adjust applies a manual stock adjustment to one product
// POST /api/v1/inventory/adjustments
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req appinventory.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.inventoryService.AdjustStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BatchAdjust applies several product deltas atomically
// POST /api/v1/inventory/adjustments/batch
func (h *InventoryHandler) BatchAdjust(c *gin.Context) {
	var req appinventory.BatchAdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	results, err := h.inventoryService.BatchAdjustStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// RecordCorrection appends a CORRECTION entry without changing stock
// POST /api/v1/inventory/corrections
func (h *InventoryHandler) RecordCorrection(c *gin.Context) {
	var req appinventory.RecordCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.inventoryService.RecordCorrection(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListTransactions retrieves movement log entries
// GET /api/v1/inventory/transactions?product_id=&change_type=&from=&to=
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	filter := inventory.TransactionFilter{Page: 1, PageSize: 20}
	base := parseFilter(c)
	filter.Page = base.Page
	filter.PageSize = base.PageSize

	if s := c.Query("product_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			h.BadRequest(c, "invalid product ID")
			return
		}
		filter.ProductID = &id
	}
	if s := c.Query("change_type"); s != "" {
		ct := inventory.ChangeType(s)
		if !ct.IsValid() {
			h.BadRequest(c, "invalid change type")
			return
		}
		filter.ChangeType = &ct
	}
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.BadRequest(c, "invalid from timestamp")
			return
		}
		filter.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.BadRequest(c, "invalid to timestamp")
			return
		}
		filter.To = &t
	}

	page, err := h.inventoryService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// ProductHistory retrieves the movement log for one product
// GET /api/v1/products/:id/stock-history
func (h *InventoryHandler) ProductHistory(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	page, err := h.inventoryService.GetProductHistory(c.Request.Context(), productID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Drift reports the logged-versus-live stock drift for one product
// GET /api/v1/products/:id/stock-drift
func (h *InventoryHandler) Drift(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	report, err := h.inventoryService.ReportDrift(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

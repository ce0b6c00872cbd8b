package handler

import (
	appfinance "github.com/NhieuThienAn/CoCo-Shop-sub003/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// ReconciliationHandler exposes bank statement import and matching endpoints
type ReconciliationHandler struct {
	BaseHandler
	reconciliationService *appfinance.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(reconciliationService *appfinance.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService}
}

// Import ingests a batch of bank statement lines, skipping known references
// POST /api/v1/reconciliation/bank-transactions
func (h *ReconciliationHandler) Import(c *gin.Context) {
	var req appfinance.ImportBankTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.reconciliationService.ImportBankTransactions(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RunMatching scores unmatched bank transactions against settled payments
// POST /api/v1/reconciliation/run
func (h *ReconciliationHandler) RunMatching(c *gin.Context) {
	result, err := h.reconciliationService.RunMatching(c.Request.Context(), parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListUnmatched retrieves bank transactions still awaiting a match
// GET /api/v1/reconciliation/bank-transactions/unmatched
func (h *ReconciliationHandler) ListUnmatched(c *gin.Context) {
	page, err := h.reconciliationService.ListUnmatched(c.Request.Context(), parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// MatchManually links a bank transaction to a payment by operator decision
// POST /api/v1/reconciliation/bank-transactions/:id/match
func (h *ReconciliationHandler) MatchManually(c *gin.Context) {
	bankTransactionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid bank transaction ID")
		return
	}

	var req appfinance.ManualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	match, err := h.reconciliationService.MatchManually(c.Request.Context(), bankTransactionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, match)
}

// Unmatch retires the active match and returns the bank transaction to the pool
// DELETE /api/v1/reconciliation/bank-transactions/:id/match
func (h *ReconciliationHandler) Unmatch(c *gin.Context) {
	bankTransactionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid bank transaction ID")
		return
	}

	if err := h.reconciliationService.Unmatch(c.Request.Context(), bankTransactionID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetByBankTransaction retrieves the match trail for one bank transaction,
// including superseded records
// GET /api/v1/reconciliation/bank-transactions/:id/match
func (h *ReconciliationHandler) GetByBankTransaction(c *gin.Context) {
	bankTransactionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid bank transaction ID")
		return
	}

	matches, err := h.reconciliationService.FindByBankTransaction(c.Request.Context(), bankTransactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, matches)
}

// ListByOrder retrieves all matches recorded for an order's payments
// GET /api/v1/orders/:id/reconciliation
func (h *ReconciliationHandler) ListByOrder(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	matches, err := h.reconciliationService.FindByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, matches)
}

package inventory

import (
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustStockRequest asks for a manual stock adjustment on one product
type AdjustStockRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Delta     int64     `json:"delta" binding:"required"`
	Note      string    `json:"note" binding:"max=255"`
	Actor     string    `json:"actor" binding:"required,max=100"`
}

// BatchAdjustment is one product delta inside a batch adjustment
type BatchAdjustment struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Delta     int64     `json:"delta" binding:"required"`
}

// BatchAdjustStockRequest applies several deltas atomically
type BatchAdjustStockRequest struct {
	Adjustments []BatchAdjustment `json:"adjustments" binding:"required,min=1,dive"`
	ChangeType  string            `json:"change_type" binding:"required"`
	Note        string            `json:"note" binding:"max=255"`
	Actor       string            `json:"actor" binding:"required,max=100"`
}

// RecordCorrectionRequest appends a CORRECTION log entry without touching stock
type RecordCorrectionRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required"`
	Note      string    `json:"note" binding:"required,max=255"`
	Actor     string    `json:"actor" binding:"required,max=100"`
}

// StockTransactionResponse is the API view of a stock movement record
type StockTransactionResponse struct {
	ID              uuid.UUID `json:"id"`
	ProductID       uuid.UUID `json:"product_id"`
	QuantityChange  int64     `json:"quantity_change"`
	BalanceBefore   int64     `json:"balance_before"`
	BalanceAfter    int64     `json:"balance_after"`
	ChangeType      string    `json:"change_type"`
	Clamped         bool      `json:"clamped"`
	Note            string    `json:"note,omitempty"`
	Actor           string    `json:"actor,omitempty"`
	TransactionDate time.Time `json:"transaction_date"`
}

// AdjustStockResponse reports the outcome of a stock adjustment
type AdjustStockResponse struct {
	ProductID      uuid.UUID `json:"product_id"`
	RequestedDelta int64     `json:"requested_delta"`
	EffectiveDelta int64     `json:"effective_delta"`
	NewQuantity    int64     `json:"new_quantity"`
	Clamped        bool      `json:"clamped"`
}

// CreateReceiptItemRequest is one line on a new stock receipt
type CreateReceiptItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateReceiptRequest creates a pending stock receipt
type CreateReceiptRequest struct {
	SupplierName string                     `json:"supplier_name" binding:"required,max=200"`
	Note         string                     `json:"note" binding:"max=500"`
	CreatedBy    string                     `json:"created_by" binding:"required,max=100"`
	Items        []CreateReceiptItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ReviewReceiptRequest approves or rejects a pending receipt
type ReviewReceiptRequest struct {
	ReviewedBy string `json:"reviewed_by" binding:"required,max=100"`
	Note       string `json:"note" binding:"max=500"`
}

// ReceiptItemResponse is the API view of a receipt line
type ReceiptItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// ReceiptResponse is the API view of a stock receipt
type ReceiptResponse struct {
	ID            uuid.UUID             `json:"id"`
	ReceiptNumber string                `json:"receipt_number"`
	SupplierName  string                `json:"supplier_name"`
	Status        string                `json:"status"`
	Note          string                `json:"note,omitempty"`
	CreatedBy     string                `json:"created_by,omitempty"`
	ReviewedBy    string                `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time            `json:"reviewed_at,omitempty"`
	ReviewNote    string                `json:"review_note,omitempty"`
	TotalValue    decimal.Decimal       `json:"total_value"`
	Items         []ReceiptItemResponse `json:"items"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ToStockTransactionResponse converts a domain record to its API view
func ToStockTransactionResponse(tx *inventory.StockTransaction) *StockTransactionResponse {
	return &StockTransactionResponse{
		ID:              tx.ID,
		ProductID:       tx.ProductID,
		QuantityChange:  tx.QuantityChange,
		BalanceBefore:   tx.BalanceBefore,
		BalanceAfter:    tx.BalanceAfter,
		ChangeType:      tx.ChangeType.String(),
		Clamped:         tx.WasClamped(),
		Note:            tx.Note,
		Actor:           tx.Actor,
		TransactionDate: tx.TransactionDate,
	}
}

// ToReceiptResponse converts a domain receipt to its API view
func ToReceiptResponse(r *inventory.StockReceipt) *ReceiptResponse {
	items := make([]ReceiptItemResponse, 0, len(r.Items))
	for i := range r.Items {
		item := &r.Items[i]
		items = append(items, ReceiptItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
		})
	}
	return &ReceiptResponse{
		ID:            r.ID,
		ReceiptNumber: r.ReceiptNumber,
		SupplierName:  r.SupplierName,
		Status:        r.Status.String(),
		Note:          r.Note,
		CreatedBy:     r.CreatedBy,
		ReviewedBy:    r.ReviewedBy,
		ReviewedAt:    r.ReviewedAt,
		ReviewNote:    r.ReviewNote,
		TotalValue:    r.TotalValue(),
		Items:         items,
		CreatedAt:     r.CreatedAt,
	}
}

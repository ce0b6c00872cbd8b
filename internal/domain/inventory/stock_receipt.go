package inventory

import (
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptStatus represents the approval state of a stock receipt
type ReceiptStatus string

const (
	// ReceiptStatusPending means the receipt is awaiting review
	ReceiptStatusPending ReceiptStatus = "PENDING"
	// ReceiptStatusApproved means the receipt was approved and its quantities applied
	ReceiptStatusApproved ReceiptStatus = "APPROVED"
	// ReceiptStatusRejected means the receipt was rejected without stock effect
	ReceiptStatusRejected ReceiptStatus = "REJECTED"
)

// String returns the string representation of ReceiptStatus
func (s ReceiptStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s ReceiptStatus) IsValid() bool {
	switch s {
	case ReceiptStatusPending, ReceiptStatusApproved, ReceiptStatusRejected:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed from the status
func (s ReceiptStatus) IsTerminal() bool {
	return s == ReceiptStatusApproved || s == ReceiptStatusRejected
}

// StockReceiptItem is a line item on a stock receipt
type StockReceiptItem struct {
	shared.BaseEntity
	ReceiptID uuid.UUID       `gorm:"type:uuid;not null;index:idx_receipt_item_receipt"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int64           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (StockReceiptItem) TableName() string {
	return "stock_receipt_items"
}

// LineTotal returns quantity * unit price for the item
func (i *StockReceiptItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// StockReceipt is a goods receipt awaiting approval. Stock quantities are only
// affected when the receipt is approved; rejection leaves stock untouched.
type StockReceipt struct {
	shared.BaseAggregateRoot
	ReceiptNumber string             `gorm:"type:varchar(50);uniqueIndex;not null"`
	SupplierName  string             `gorm:"type:varchar(200);not null"`
	Status        ReceiptStatus      `gorm:"type:varchar(20);not null;index:idx_receipt_status"`
	Note          string             `gorm:"type:varchar(500)"`
	CreatedBy     string             `gorm:"type:varchar(100)"`
	ReviewedBy    string             `gorm:"type:varchar(100)"`
	ReviewedAt    *time.Time         `gorm:"type:timestamptz"`
	ReviewNote    string             `gorm:"type:varchar(500)"`
	Items         []StockReceiptItem `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (StockReceipt) TableName() string {
	return "stock_receipts"
}

// NewStockReceipt creates a new pending stock receipt
func NewStockReceipt(receiptNumber, supplierName, createdBy, note string) (*StockReceipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}

	return &StockReceipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReceiptNumber:     receiptNumber,
		SupplierName:      supplierName,
		Status:            ReceiptStatusPending,
		Note:              note,
		CreatedBy:         createdBy,
	}, nil
}

// AddItem appends a line item to a pending receipt
func (r *StockReceipt) AddItem(productID uuid.UUID, quantity int64, unitPrice decimal.Decimal) error {
	if r.Status != ReceiptStatusPending {
		return shared.NewDomainError("RECEIPT_NOT_PENDING", "Cannot modify a reviewed receipt")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receipt item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	r.Items = append(r.Items, StockReceiptItem{
		BaseEntity: shared.NewBaseEntity(),
		ReceiptID:  r.ID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
	})
	r.Touch()
	return nil
}

// Approve transitions the receipt from PENDING to APPROVED. The caller is
// responsible for applying the item quantities to stock in the same
// transaction that persists the status change.
func (r *StockReceipt) Approve(reviewedBy, reviewNote string) error {
	if r.Status != ReceiptStatusPending {
		return shared.NewDomainError("RECEIPT_ALREADY_REVIEWED", "Receipt has already been reviewed")
	}
	if len(r.Items) == 0 {
		return shared.NewDomainError("EMPTY_RECEIPT", "Cannot approve a receipt with no items")
	}

	now := time.Now()
	r.Status = ReceiptStatusApproved
	r.ReviewedBy = reviewedBy
	r.ReviewedAt = &now
	r.ReviewNote = reviewNote
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// Reject transitions the receipt from PENDING to REJECTED with no stock effect
func (r *StockReceipt) Reject(reviewedBy, reviewNote string) error {
	if r.Status != ReceiptStatusPending {
		return shared.NewDomainError("RECEIPT_ALREADY_REVIEWED", "Receipt has already been reviewed")
	}

	now := time.Now()
	r.Status = ReceiptStatusRejected
	r.ReviewedBy = reviewedBy
	r.ReviewedAt = &now
	r.ReviewNote = reviewNote
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// TotalValue returns the sum of all line totals on the receipt
func (r *StockReceipt) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Items {
		total = total.Add(r.Items[i].LineTotal())
	}
	return total
}

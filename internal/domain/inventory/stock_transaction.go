package inventory

import (
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
)

// ChangeType represents the reason category for a stock quantity change
type ChangeType string

const (
	// ChangeTypeSale represents stock leaving through an order
	ChangeTypeSale ChangeType = "SALE"
	// ChangeTypeReturn represents stock coming back from a returned order
	ChangeTypeReturn ChangeType = "RETURN"
	// ChangeTypeReceipt represents stock arriving through an approved stock receipt
	ChangeTypeReceipt ChangeType = "RECEIPT"
	// ChangeTypeAdjustment represents a manual stock adjustment
	ChangeTypeAdjustment ChangeType = "ADJUSTMENT"
	// ChangeTypeCorrection represents a bookkeeping correction whose quantity
	// effect was already applied elsewhere
	ChangeTypeCorrection ChangeType = "CORRECTION"
)

// String returns the string representation of ChangeType
func (t ChangeType) String() string {
	return string(t)
}

// IsValid returns true if the change type is valid
func (t ChangeType) IsValid() bool {
	switch t {
	case ChangeTypeSale, ChangeTypeReturn, ChangeTypeReceipt, ChangeTypeAdjustment, ChangeTypeCorrection:
		return true
	}
	return false
}

// StockTransaction is an immutable record of a requested stock quantity change.
// Once created, transactions are never updated or deleted - corrections are
// recorded as new CORRECTION entries.
//
// QuantityChange holds the REQUESTED delta. When a decrement is clamped at the
// zero floor, the effective change may be smaller in magnitude; the log
// preserves intent, so the running sum of QuantityChange for a product may
// drift below the live quantity. That drift is a documented reconciliation
// caveat, not a bug.
type StockTransaction struct {
	shared.BaseEntity
	ProductID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_stock_tx_product"`
	QuantityChange  int64      `gorm:"not null"`
	BalanceBefore   int64      `gorm:"not null"`
	BalanceAfter    int64      `gorm:"not null"`
	ChangeType      ChangeType `gorm:"type:varchar(20);not null;index:idx_stock_tx_type"`
	Note            string     `gorm:"type:varchar(255)"`
	Actor           string     `gorm:"type:varchar(100)"`
	TransactionDate time.Time  `gorm:"type:timestamptz;not null;index:idx_stock_tx_date"`
}

// TableName returns the table name for GORM
func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// NewStockTransaction creates a new stock transaction record
func NewStockTransaction(productID uuid.UUID, quantityChange, balanceBefore, balanceAfter int64, changeType ChangeType, note, actor string) (*StockTransaction, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantityChange == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity change cannot be zero")
	}
	if !changeType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANGE_TYPE", "Invalid stock change type")
	}

	return &StockTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       productID,
		QuantityChange:  quantityChange,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		ChangeType:      changeType,
		Note:            note,
		Actor:           actor,
		TransactionDate: time.Now(),
	}, nil
}

// EffectiveChange returns the change that was actually applied to the balance,
// which differs from QuantityChange when the zero floor clamped a decrement.
func (t *StockTransaction) EffectiveChange() int64 {
	return t.BalanceAfter - t.BalanceBefore
}

// WasClamped returns true if the zero floor reduced the magnitude of the change
func (t *StockTransaction) WasClamped() bool {
	return t.EffectiveChange() != t.QuantityChange
}

// IsIncrease returns true if the requested change adds stock
func (t *StockTransaction) IsIncrease() bool {
	return t.QuantityChange > 0
}

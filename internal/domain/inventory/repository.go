package inventory

import (
	"context"
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionFilter narrows stock transaction queries
type TransactionFilter struct {
	ProductID  *uuid.UUID
	ChangeType *ChangeType
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// StockTransactionRepository persists the append-only stock movement log
type StockTransactionRepository interface {
	// Save inserts a new transaction record. Records are never updated.
	Save(ctx context.Context, tx *StockTransaction) error

	// SaveBatch inserts multiple transaction records in one statement
	SaveBatch(ctx context.Context, txs []*StockTransaction) error

	// FindByID retrieves a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransaction, error)

	// FindByProductID retrieves transactions for a product, newest first
	FindByProductID(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*StockTransaction], error)

	// FindAll retrieves transactions matching the filter, newest first
	FindAll(ctx context.Context, filter TransactionFilter) (*shared.Paginated[*StockTransaction], error)

	// SumQuantityChange returns the sum of requested deltas for a product,
	// used by reconciliation reports
	SumQuantityChange(ctx context.Context, productID uuid.UUID) (int64, error)
}

// StockReceiptRepository persists stock receipts and their items
type StockReceiptRepository interface {
	// Save persists a receipt together with its items
	Save(ctx context.Context, receipt *StockReceipt) error

	// SaveWithLock persists a receipt with optimistic version checking
	SaveWithLock(ctx context.Context, receipt *StockReceipt) error

	// FindByID retrieves a receipt with its items
	FindByID(ctx context.Context, id uuid.UUID) (*StockReceipt, error)

	// FindByIDForUpdate retrieves a receipt with a row lock. Must be called
	// inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*StockReceipt, error)

	// FindByReceiptNumber retrieves a receipt by its business number
	FindByReceiptNumber(ctx context.Context, receiptNumber string) (*StockReceipt, error)

	// FindAll retrieves receipts, optionally filtered by status
	FindAll(ctx context.Context, status *ReceiptStatus, filter shared.Filter) (*shared.Paginated[*StockReceipt], error)

	// GenerateReceiptNumber produces the next receipt number, GR-YYYYMMDD-xxxxxx
	GenerateReceiptNumber(ctx context.Context) (string, error)
}

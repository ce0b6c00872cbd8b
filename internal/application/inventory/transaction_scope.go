package inventory

import (
	"context"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/catalog"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
)

// conflictRetries bounds how many times a transaction is re-run after a
// version conflict before the conflict is surfaced to the caller.
const conflictRetries = 3

// retryOnConflict re-runs fn when it loses a version race. Each attempt
// re-reads its state inside a fresh transaction, so a bounded number of
// retries usually settles the conflict without bothering the caller.
func retryOnConflict(fn func() error) error {
	var err error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		err = fn()
		if !shared.IsConcurrencyConflict(err) {
			return err
		}
	}
	return err
}

// TransactionScope provides transactional access to inventory repositories.
// All repository operations performed inside Execute share one database
// transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories participating
// in an inventory transaction. All returned repositories share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// StockTransactionRepo returns the stock movement log repository scoped to the current transaction
	StockTransactionRepo() inventory.StockTransactionRepository
	// ReceiptRepo returns the stock receipt repository scoped to the current transaction
	ReceiptRepo() inventory.StockReceiptRepository
}

// NoOpTransactionScope runs functions without a real transaction.
// Useful for tests.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	stockTxRepo inventory.StockTransactionRepository
	receiptRepo inventory.StockReceiptRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	stockTxRepo inventory.StockTransactionRepository,
	receiptRepo inventory.StockReceiptRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		stockTxRepo: stockTxRepo,
		receiptRepo: receiptRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// StockTransactionRepo returns the stock movement log repository
func (s *NoOpTransactionScope) StockTransactionRepo() inventory.StockTransactionRepository {
	return s.stockTxRepo
}

// ReceiptRepo returns the stock receipt repository
func (s *NoOpTransactionScope) ReceiptRepo() inventory.StockReceiptRepository {
	return s.receiptRepo
}

package trade

import (
	"context"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/catalog"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/trade"
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

// TransactionScope provides transactional access to the repositories that
// participate in checkout and order state changes. All repository operations
// inside Execute share one database transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the trade-side repositories
// within a transaction
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() trade.OrderRepository
	// CouponRepo returns the coupon repository scoped to the current transaction
	CouponRepo() trade.CouponRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// StockTransactionRepo returns the stock movement log repository scoped to the current transaction
	StockTransactionRepo() inventory.StockTransactionRepository
}

// NoOpTransactionScope runs functions without a real transaction.
// Useful for tests.
type NoOpTransactionScope struct {
	orderRepo   trade.OrderRepository
	couponRepo  trade.CouponRepository
	productRepo catalog.ProductRepository
	stockTxRepo inventory.StockTransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	orderRepo trade.OrderRepository,
	couponRepo trade.CouponRepository,
	productRepo catalog.ProductRepository,
	stockTxRepo inventory.StockTransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:   orderRepo,
		couponRepo:  couponRepo,
		productRepo: productRepo,
		stockTxRepo: stockTxRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository {
	return s.orderRepo
}

// CouponRepo returns the coupon repository
func (s *NoOpTransactionScope) CouponRepo() trade.CouponRepository {
	return s.couponRepo
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// StockTransactionRepo returns the stock movement log repository
func (s *NoOpTransactionScope) StockTransactionRepo() inventory.StockTransactionRepository {
	return s.stockTxRepo
}

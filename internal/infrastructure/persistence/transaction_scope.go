package persistence

import (
	"context"

	appfinance "github.com/NhieuThienAn/CoCo-Shop-sub003/internal/application/finance"
	appinventory "github.com/NhieuThienAn/CoCo-Shop-sub003/internal/application/inventory"
	apptrade "github.com/NhieuThienAn/CoCo-Shop-sub003/internal/application/trade"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/catalog"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/finance"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/trade"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope implements the inventory application's
// TransactionScope using GORM transactions
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepos{tx: tx})
	})
}

type gormInventoryRepos struct {
	tx *gorm.DB
}

func (r *gormInventoryRepos) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormInventoryRepos) StockTransactionRepo() inventory.StockTransactionRepository {
	return NewGormStockTransactionRepository(r.tx)
}

func (r *gormInventoryRepos) ReceiptRepo() inventory.StockReceiptRepository {
	return NewGormStockReceiptRepository(r.tx)
}

// GormTradeTransactionScope implements the trade application's
// TransactionScope using GORM transactions
type GormTradeTransactionScope struct {
	db *gorm.DB
}

// NewGormTradeTransactionScope creates a new GormTradeTransactionScope
func NewGormTradeTransactionScope(db *gorm.DB) *GormTradeTransactionScope {
	return &GormTradeTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormTradeTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTradeRepos{tx: tx})
	})
}

type gormTradeRepos struct {
	tx *gorm.DB
}

func (r *gormTradeRepos) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTradeRepos) CouponRepo() trade.CouponRepository {
	return NewGormCouponRepository(r.tx)
}

func (r *gormTradeRepos) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTradeRepos) StockTransactionRepo() inventory.StockTransactionRepository {
	return NewGormStockTransactionRepository(r.tx)
}

// GormFinanceTransactionScope implements the finance application's
// TransactionScope using GORM transactions
type GormFinanceTransactionScope struct {
	db *gorm.DB
}

// NewGormFinanceTransactionScope creates a new GormFinanceTransactionScope
func NewGormFinanceTransactionScope(db *gorm.DB) *GormFinanceTransactionScope {
	return &GormFinanceTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormFinanceTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormFinanceRepos{tx: tx})
	})
}

type gormFinanceRepos struct {
	tx *gorm.DB
}

func (r *gormFinanceRepos) PaymentRepo() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormFinanceRepos) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormFinanceRepos) BankTransactionRepo() finance.BankTransactionRepository {
	return NewGormBankTransactionRepository(r.tx)
}

func (r *gormFinanceRepos) MatchRepo() finance.ReconciliationMatchRepository {
	return NewGormReconciliationMatchRepository(r.tx)
}

var (
	_ appinventory.TransactionScope = (*GormInventoryTransactionScope)(nil)
	_ apptrade.TransactionScope     = (*GormTradeTransactionScope)(nil)
	_ appfinance.TransactionScope   = (*GormFinanceTransactionScope)(nil)
)

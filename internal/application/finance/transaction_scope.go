package finance

import (
	"context"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/finance"
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
// participate in payment settlement and reconciliation. All repository
// operations inside Execute share one database transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the finance-side repositories
// within a transaction
type TransactionalRepositories interface {
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() finance.PaymentRepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() trade.OrderRepository
	// BankTransactionRepo returns the bank transaction repository scoped to the current transaction
	BankTransactionRepo() finance.BankTransactionRepository
	// MatchRepo returns the reconciliation match repository scoped to the current transaction
	MatchRepo() finance.ReconciliationMatchRepository
}

// NoOpTransactionScope runs functions without a real transaction.
// Useful for tests.
type NoOpTransactionScope struct {
	paymentRepo finance.PaymentRepository
	orderRepo   trade.OrderRepository
	bankTxnRepo finance.BankTransactionRepository
	matchRepo   finance.ReconciliationMatchRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	paymentRepo finance.PaymentRepository,
	orderRepo trade.OrderRepository,
	bankTxnRepo finance.BankTransactionRepository,
	matchRepo finance.ReconciliationMatchRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		bankTxnRepo: bankTxnRepo,
		matchRepo:   matchRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PaymentRepo returns the payment repository
func (s *NoOpTransactionScope) PaymentRepo() finance.PaymentRepository {
	return s.paymentRepo
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository {
	return s.orderRepo
}

// BankTransactionRepo returns the bank transaction repository
func (s *NoOpTransactionScope) BankTransactionRepo() finance.BankTransactionRepository {
	return s.bankTxnRepo
}

// MatchRepo returns the reconciliation match repository
func (s *NoOpTransactionScope) MatchRepo() finance.ReconciliationMatchRepository {
	return s.matchRepo
}

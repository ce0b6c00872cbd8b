package finance

import (
	"context"
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
)

// PaymentRepository persists the payment ledger
type PaymentRepository interface {
	// Save persists a payment
	Save(ctx context.Context, payment *Payment) error

	// SaveWithLock persists a payment with optimistic version checking
	SaveWithLock(ctx context.Context, payment *Payment) error

	// FindByID retrieves a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByIDForUpdate retrieves a payment with a row lock. Must be called
	// inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByOrderID retrieves all payment attempts for an order, newest first
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*Payment, error)

	// FindByGatewayTransactionID resolves a payment from a gateway reference
	FindByGatewayTransactionID(ctx context.Context, gatewayTransactionID string) (*Payment, error)

	// FindPaidBetween retrieves paid payments in a time window, used by the
	// reconciliation matcher
	FindPaidBetween(ctx context.Context, from, to time.Time) ([]*Payment, error)
}

// BankTransactionRepository persists imported bank statement lines
type BankTransactionRepository interface {
	// Save persists a bank transaction
	Save(ctx context.Context, txn *BankTransaction) error

	// SaveBatch inserts imported transactions, skipping duplicate references
	SaveBatch(ctx context.Context, txns []*BankTransaction) (inserted int, err error)

	// FindByID retrieves a bank transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*BankTransaction, error)

	// FindByReference retrieves a bank transaction by its statement reference
	FindByReference(ctx context.Context, reference string) (*BankTransaction, error)

	// FindUnmatched retrieves transactions awaiting reconciliation, oldest first
	FindUnmatched(ctx context.Context, filter shared.Filter) (*shared.Paginated[*BankTransaction], error)

	// FindAll retrieves bank transactions, optionally filtered by status
	FindAll(ctx context.Context, status *MatchStatus, filter shared.Filter) (*shared.Paginated[*BankTransaction], error)
}

// ReconciliationMatchRepository persists reconciliation match records.
// Records are append-only: corrections supersede earlier records instead of
// rewriting or deleting them.
type ReconciliationMatchRepository interface {
	// Save appends a match record
	Save(ctx context.Context, match *ReconciliationMatch) error

	// Update persists changes to an existing record, used to mark it superseded
	Update(ctx context.Context, match *ReconciliationMatch) error

	// FindByBankTransactionID retrieves all match records for a bank
	// transaction, newest first
	FindByBankTransactionID(ctx context.Context, bankTransactionID uuid.UUID) ([]*ReconciliationMatch, error)

	// FindActiveByBankTransactionID retrieves the current, unsuperseded match
	// for a bank transaction
	FindActiveByBankTransactionID(ctx context.Context, bankTransactionID uuid.UUID) (*ReconciliationMatch, error)

	// FindByPaymentID retrieves matches linked to a payment
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*ReconciliationMatch, error)

	// FindByOrderID retrieves matches linked to an order
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*ReconciliationMatch, error)
}

// IdempotencyStore remembers processed webhook identifiers so gateway
// retries are absorbed exactly once
type IdempotencyStore interface {
	// MarkProcessed records a key; returns false when the key was already present
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (firstTime bool, err error)

	// WasProcessed reports whether a key has been recorded
	WasProcessed(ctx context.Context, key string) (bool, error)

	// Forget removes a key so a failed callback can be retried
	Forget(ctx context.Context, key string) error
}

package finance

import (
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchStatus represents the reconciliation state of a bank transaction
type MatchStatus string

const (
	// MatchStatusUnmatched means no payment has been linked yet
	MatchStatusUnmatched MatchStatus = "UNMATCHED"
	// MatchStatusMatched means the transaction was linked automatically
	MatchStatusMatched MatchStatus = "MATCHED"
	// MatchStatusManual means an operator linked the transaction by hand
	MatchStatusManual MatchStatus = "MANUAL"
)

// IsValid returns true if the status is valid
func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchStatusUnmatched, MatchStatusMatched, MatchStatusManual:
		return true
	}
	return false
}

// BankTransaction is an imported bank statement line
type BankTransaction struct {
	shared.BaseEntity
	Reference       string          `gorm:"type:varchar(100);uniqueIndex;not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'VND'"`
	Description     string          `gorm:"type:varchar(500)"`
	TransactionDate time.Time       `gorm:"type:timestamptz;not null;index:idx_bank_txn_date"`
	Status          MatchStatus     `gorm:"type:varchar(20);not null;index:idx_bank_txn_status"`
}

// TableName returns the table name for GORM
func (BankTransaction) TableName() string {
	return "bank_transactions"
}

// Money returns the transaction amount as a currency-tagged value
func (t *BankTransaction) Money() valueobject.Money {
	return valueobject.NewMoney(t.Amount, valueobject.Currency(t.Currency))
}

// NewBankTransaction creates an unmatched bank transaction from a statement line
func NewBankTransaction(reference string, amount decimal.Decimal, currency, description string, transactionDate time.Time) (*BankTransaction, error) {
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Bank transaction reference cannot be empty")
	}
	if amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Bank transaction amount cannot be zero")
	}
	if currency == "" {
		currency = "VND"
	}

	return &BankTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		Reference:       reference,
		Amount:          amount,
		Currency:        currency,
		Description:     description,
		TransactionDate: transactionDate,
		Status:          MatchStatusUnmatched,
	}, nil
}

// ReconciliationMatch links a bank transaction to a payment with a confidence
// score in [0,1]. Exact gateway reference matches score 1.0; heuristic
// amount/date matches score lower.
//
// Match records are append-only. A corrected re-match appends a new record
// and marks the prior one superseded; records are never deleted, so the full
// attempt history of a bank transaction stays readable.
type ReconciliationMatch struct {
	shared.BaseEntity
	BankTransactionID uuid.UUID       `gorm:"type:uuid;not null;index:idx_recon_bank_txn"`
	PaymentID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_recon_payment"`
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_recon_order"`
	Score             decimal.Decimal `gorm:"type:decimal(4,3);not null"`
	Status            MatchStatus     `gorm:"type:varchar(20);not null"`
	MatchedBy         string          `gorm:"type:varchar(100)"`
	MatchedAt         time.Time       `gorm:"type:timestamptz;not null"`
	SupersededAt      *time.Time      `gorm:"type:timestamptz"`
	Note              string          `gorm:"type:varchar(500)"`
}

// IsActive reports whether this record is the current match for its bank
// transaction. Superseded records remain on file for auditing.
func (m *ReconciliationMatch) IsActive() bool {
	return m.SupersededAt == nil
}

// Supersede retires the match when a correction or unmatch replaces it.
// Superseding an already-superseded record is a no-op.
func (m *ReconciliationMatch) Supersede() {
	if m.SupersededAt != nil {
		return
	}
	now := time.Now()
	m.SupersededAt = &now
	m.Touch()
}

// TableName returns the table name for GORM
func (ReconciliationMatch) TableName() string {
	return "reconciliation_matches"
}

// NewReconciliationMatch creates a match record linking a bank transaction to a payment
func NewReconciliationMatch(bankTransactionID, paymentID, orderID uuid.UUID, score decimal.Decimal, status MatchStatus, matchedBy, note string) (*ReconciliationMatch, error) {
	if bankTransactionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BANK_TXN", "Bank transaction ID cannot be empty")
	}
	if paymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}
	if score.IsNegative() || score.GreaterThan(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_SCORE", "Match score must be between 0 and 1")
	}
	if status != MatchStatusMatched && status != MatchStatusManual {
		return nil, shared.NewDomainError("INVALID_MATCH_STATUS", "Match status must be MATCHED or MANUAL")
	}

	return &ReconciliationMatch{
		BaseEntity:        shared.NewBaseEntity(),
		BankTransactionID: bankTransactionID,
		PaymentID:         paymentID,
		OrderID:           orderID,
		Score:             score,
		Status:            status,
		MatchedBy:         matchedBy,
		MatchedAt:         time.Now(),
		Note:              note,
	}, nil
}

// Match scores used by the automatic matcher
var (
	scoreExactReference = decimal.NewFromFloat(1.0)
	scoreAmountAndDate  = decimal.NewFromFloat(0.8)
	scoreAmountOnly     = decimal.NewFromFloat(0.5)
)

// MatchThreshold is the minimum score at which the matcher links
// automatically; candidates below it are surfaced for manual review.
var MatchThreshold = decimal.NewFromFloat(0.8)

// MatchCandidate pairs a payment with the score the matcher computed for it
type MatchCandidate struct {
	Payment *Payment
	Score   decimal.Decimal
}

// Matcher is a domain service that scores payments against a bank
// transaction. Scoring is deterministic: an exact gateway reference match
// scores 1.0, matching amount within the date window scores 0.8, matching
// amount alone scores 0.5.
type Matcher struct {
	dateWindow time.Duration
}

// NewMatcher creates a matcher with the given date window for amount+date scoring
func NewMatcher(dateWindow time.Duration) *Matcher {
	if dateWindow <= 0 {
		dateWindow = 72 * time.Hour
	}
	return &Matcher{dateWindow: dateWindow}
}

// Score computes the confidence that a payment corresponds to a bank transaction
func (m *Matcher) Score(bankTxn *BankTransaction, payment *Payment) decimal.Decimal {
	if payment.Status != PaymentStatusPaid {
		return decimal.Zero
	}
	if payment.GatewayTransactionID != "" && payment.GatewayTransactionID == bankTxn.Reference {
		return scoreExactReference
	}
	if !payment.Money().Equals(bankTxn.Money()) {
		return decimal.Zero
	}
	if payment.PaidAt != nil {
		diff := bankTxn.TransactionDate.Sub(*payment.PaidAt)
		if diff < 0 {
			diff = -diff
		}
		if diff <= m.dateWindow {
			return scoreAmountAndDate
		}
	}
	return scoreAmountOnly
}

// BestCandidate returns the highest-scoring payment for a bank transaction,
// or nil when no payment scores above zero. Ties go to the earliest PaidAt.
func (m *Matcher) BestCandidate(bankTxn *BankTransaction, payments []*Payment) *MatchCandidate {
	var best *MatchCandidate
	for _, p := range payments {
		score := m.Score(bankTxn, p)
		if score.IsZero() {
			continue
		}
		if best == nil || score.GreaterThan(best.Score) {
			best = &MatchCandidate{Payment: p, Score: score}
			continue
		}
		if score.Equal(best.Score) && p.PaidAt != nil && best.Payment.PaidAt != nil && p.PaidAt.Before(*best.Payment.PaidAt) {
			best = &MatchCandidate{Payment: p, Score: score}
		}
	}
	return best
}

package finance

import (
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest opens a new payment attempt for an order
type CreatePaymentRequest struct {
	OrderID  uuid.UUID       `json:"order_id" binding:"required"`
	Gateway  string          `json:"gateway" binding:"required,max=50"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"omitempty,len=3"`
}

// GatewayCallbackRequest is the normalized payload of a gateway webhook.
// The payment is resolved by gateway_transaction_id; payment_id is the hint
// we passed to the gateway when the attempt was created, used for the first
// callback before our side has recorded the gateway's reference.
type GatewayCallbackRequest struct {
	Gateway              string          `json:"gateway" binding:"required,max=50"`
	GatewayTransactionID string          `json:"gateway_transaction_id" binding:"required,max=100"`
	PaymentID            uuid.UUID       `json:"payment_id"`
	Success              bool            `json:"success"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	FailureReason        string          `json:"failure_reason" binding:"max=255"`
	OccurredAt           time.Time       `json:"occurred_at"`
	RawPayload           finance.JSONMap `json:"raw_payload"`
}

// CallbackResult reports what the webhook intake did with a callback
type CallbackResult struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	OrderID       uuid.UUID `json:"order_id"`
	PaymentStatus string    `json:"payment_status"`
	Duplicate     bool      `json:"duplicate"`
	AlreadyPaid   bool      `json:"already_paid"`
}

// RefundRequest refunds a paid payment
type RefundRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// PaymentResponse is the API view of a payment ledger entry
type PaymentResponse struct {
	ID                   uuid.UUID       `json:"id"`
	OrderID              uuid.UUID       `json:"order_id"`
	Gateway              string          `json:"gateway"`
	GatewayTransactionID string          `json:"gateway_transaction_id,omitempty"`
	Status               string          `json:"status"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	PaidAt               *time.Time      `json:"paid_at,omitempty"`
	RefundedAt           *time.Time      `json:"refunded_at,omitempty"`
	AttemptCount         int             `json:"attempt_count"`
	FailureReason        string          `json:"failure_reason,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// ImportBankTransactionLine is one statement line in an import
type ImportBankTransactionLine struct {
	Reference       string          `json:"reference" binding:"required,max=100"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Currency        string          `json:"currency" binding:"omitempty,len=3"`
	Description     string          `json:"description" binding:"max=500"`
	TransactionDate time.Time       `json:"transaction_date" binding:"required"`
}

// ImportBankTransactionsRequest imports a batch of statement lines
type ImportBankTransactionsRequest struct {
	Lines []ImportBankTransactionLine `json:"lines" binding:"required,min=1,dive"`
}

// ImportBankTransactionsResponse reports the import outcome
type ImportBankTransactionsResponse struct {
	Received int `json:"received"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ManualMatchRequest links a bank transaction to a payment by hand
type ManualMatchRequest struct {
	PaymentID uuid.UUID `json:"payment_id" binding:"required"`
	MatchedBy string    `json:"matched_by" binding:"required,max=100"`
	Note      string    `json:"note" binding:"max=500"`
}

// MatchResponse is the API view of a reconciliation match
type MatchResponse struct {
	ID                uuid.UUID       `json:"id"`
	BankTransactionID uuid.UUID       `json:"bank_transaction_id"`
	PaymentID         uuid.UUID       `json:"payment_id"`
	OrderID           uuid.UUID       `json:"order_id"`
	Score             decimal.Decimal `json:"score"`
	Status            string          `json:"status"`
	MatchedBy         string          `json:"matched_by,omitempty"`
	MatchedAt         time.Time       `json:"matched_at"`
	SupersededAt      *time.Time      `json:"superseded_at,omitempty"`
	Active            bool            `json:"active"`
	Note              string          `json:"note,omitempty"`
}

// RunMatchingResponse reports the outcome of an automatic matching run
type RunMatchingResponse struct {
	Scanned   int             `json:"scanned"`
	Matched   int             `json:"matched"`
	BelowBar  int             `json:"below_threshold"`
	NoMatches int             `json:"no_candidates"`
	Matches   []MatchResponse `json:"matches"`
}

// ToPaymentResponse converts a domain payment to its API view
func ToPaymentResponse(p *finance.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:                   p.ID,
		OrderID:              p.OrderID,
		Gateway:              p.Gateway,
		GatewayTransactionID: p.GatewayTransactionID,
		Status:               p.Status.String(),
		Amount:               p.Amount,
		Currency:             p.Currency,
		PaidAt:               p.PaidAt,
		RefundedAt:           p.RefundedAt,
		AttemptCount:         p.AttemptCount,
		FailureReason:        p.FailureReason,
		CreatedAt:            p.CreatedAt,
	}
}

// ToMatchResponse converts a domain match to its API view
func ToMatchResponse(m *finance.ReconciliationMatch) MatchResponse {
	return MatchResponse{
		ID:                m.ID,
		BankTransactionID: m.BankTransactionID,
		PaymentID:         m.PaymentID,
		OrderID:           m.OrderID,
		Score:             m.Score,
		Status:            string(m.Status),
		MatchedBy:         m.MatchedBy,
		MatchedAt:         m.MatchedAt,
		SupersededAt:      m.SupersededAt,
		Active:            m.IsActive(),
		Note:              m.Note,
	}
}

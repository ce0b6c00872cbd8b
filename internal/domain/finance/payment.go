package finance

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the state of a payment attempt
type PaymentStatus string

const (
	// PaymentStatusPending means the payment was initiated and awaits the gateway
	PaymentStatusPending PaymentStatus = "PENDING"
	// PaymentStatusPaid means the gateway confirmed the payment
	PaymentStatusPaid PaymentStatus = "PAID"
	// PaymentStatusFailed means the gateway rejected the payment; retry allowed
	PaymentStatusFailed PaymentStatus = "FAILED"
	// PaymentStatusRefunded means a paid payment was refunded
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// JSONMap stores unstructured gateway payloads as a JSON text column
type JSONMap map[string]interface{}

// Value implements driver.Valuer for database storage
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for database retrieval
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}
}

// Payment is a ledger entry for one payment attempt against an order.
// MarkPaid is idempotent: confirming an already-paid payment is a no-op so
// gateway webhook retries never double-apply.
type Payment struct {
	shared.BaseAggregateRoot
	OrderID              uuid.UUID       `gorm:"type:uuid;not null;index:idx_payment_order"`
	Gateway              string          `gorm:"type:varchar(50);not null"`
	GatewayTransactionID string          `gorm:"type:varchar(100);index:idx_payment_gateway_txn"`
	Status               PaymentStatus   `gorm:"type:varchar(20);not null;index:idx_payment_status"`
	Amount               decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency             string          `gorm:"type:varchar(3);not null;default:'VND'"`
	PaidAt               *time.Time      `gorm:"type:timestamptz"`
	RefundedAt           *time.Time      `gorm:"type:timestamptz"`
	AttemptCount         int             `gorm:"not null;default:1"`
	FailureReason        string          `gorm:"type:varchar(255)"`
	Metadata             JSONMap         `gorm:"type:text"`
	GatewayResponse      JSONMap         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// Money returns the payment amount as a currency-tagged value
func (p *Payment) Money() valueobject.Money {
	return valueobject.NewMoney(p.Amount, valueobject.Currency(p.Currency))
}

// NewPayment creates a new pending payment attempt for an order
func NewPayment(orderID uuid.UUID, gateway string, amount decimal.Decimal, currency string) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if gateway == "" {
		return nil, shared.NewDomainError("INVALID_GATEWAY", "Gateway cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if currency == "" {
		currency = "VND"
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Gateway:           gateway,
		Status:            PaymentStatusPending,
		Amount:            amount,
		Currency:          currency,
		AttemptCount:      1,
	}, nil
}

// MarkPaid confirms the payment. Returns alreadyPaid=true without error when
// the payment is already PAID; returns an error when the payment is REFUNDED.
func (p *Payment) MarkPaid(gatewayTransactionID string, paidAt time.Time) (alreadyPaid bool, err error) {
	switch p.Status {
	case PaymentStatusPaid:
		return true, nil
	case PaymentStatusRefunded:
		return false, shared.NewDomainError("PAYMENT_REFUNDED", "Cannot mark a refunded payment as paid")
	}

	p.Status = PaymentStatusPaid
	p.GatewayTransactionID = gatewayTransactionID
	p.PaidAt = &paidAt
	p.FailureReason = ""
	p.Touch()
	p.IncrementVersion()
	return false, nil
}

// MarkFailed records a failed attempt. Failed payments may be retried.
func (p *Payment) MarkFailed(reason string) error {
	if p.Status == PaymentStatusPaid || p.Status == PaymentStatusRefunded {
		return shared.NewDomainError("PAYMENT_FINALIZED", "Cannot fail a settled payment")
	}

	p.Status = PaymentStatusFailed
	p.FailureReason = reason
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Retry moves a failed payment back to pending and bumps the attempt count
func (p *Payment) Retry() error {
	if p.Status != PaymentStatusFailed {
		return shared.NewDomainError("PAYMENT_NOT_FAILED", "Only failed payments can be retried")
	}

	p.Status = PaymentStatusPending
	p.FailureReason = ""
	p.AttemptCount++
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Refund transitions a paid payment to refunded
func (p *Payment) Refund(refundedAt time.Time) error {
	if p.Status != PaymentStatusPaid {
		return shared.NewDomainError("PAYMENT_NOT_PAID", "Only paid payments can be refunded")
	}

	p.Status = PaymentStatusRefunded
	p.RefundedAt = &refundedAt
	p.Touch()
	p.IncrementVersion()
	return nil
}

// RecordGatewayResponse stores the raw gateway payload for auditing
func (p *Payment) RecordGatewayResponse(response JSONMap) {
	p.GatewayResponse = response
	p.Touch()
}

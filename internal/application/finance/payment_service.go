package finance

import (
	"context"
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/finance"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService manages the payment ledger for orders
type PaymentService struct {
	paymentRepo finance.PaymentRepository
	txScope     TransactionScope
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo finance.PaymentRepository, txScope TransactionScope, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		paymentRepo: paymentRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// CreateAttempt opens a new payment attempt for an order. The amount must
// equal the order total; orders only accept payment while PENDING.
func (s *PaymentService) CreateAttempt(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	var resp *PaymentResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if order.Status != trade.OrderStatusPending {
			return shared.NewDomainError("ORDER_NOT_PAYABLE", "Only pending orders accept payment")
		}
		if !req.Amount.Equal(order.TotalAmount) {
			return shared.NewDomainError("AMOUNT_MISMATCH", "Payment amount must equal the order total")
		}

		payment, err := finance.NewPayment(req.OrderID, req.Gateway, req.Amount, req.Currency)
		if err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return err
		}
		resp = ToPaymentResponse(payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// MarkPaid settles a payment under a row lock. Calling it again for an
// already-paid payment is a no-op.
func (s *PaymentService) MarkPaid(ctx context.Context, paymentID uuid.UUID, gatewayTransactionID string, paidAt time.Time) (*PaymentResponse, error) {
	var resp *PaymentResponse
	apply := func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		alreadyPaid, err := payment.MarkPaid(gatewayTransactionID, paidAt)
		if err != nil {
			return err
		}
		if !alreadyPaid {
			if err := repos.PaymentRepo().SaveWithLock(ctx, payment); err != nil {
				return err
			}
		}
		resp = ToPaymentResponse(payment)
		return nil
	}
	err := retryOnConflict(func() error {
		return s.txScope.Execute(ctx, apply)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// MarkFailed records a failed attempt; the payment stays retryable
func (s *PaymentService) MarkFailed(ctx context.Context, paymentID uuid.UUID, reason string) (*PaymentResponse, error) {
	var resp *PaymentResponse
	apply := func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := payment.MarkFailed(reason); err != nil {
			return err
		}
		if err := repos.PaymentRepo().SaveWithLock(ctx, payment); err != nil {
			return err
		}
		resp = ToPaymentResponse(payment)
		return nil
	}
	err := retryOnConflict(func() error {
		return s.txScope.Execute(ctx, apply)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Refund refunds a paid payment and records the reason in its metadata
func (s *PaymentService) Refund(ctx context.Context, paymentID uuid.UUID, req RefundRequest) (*PaymentResponse, error) {
	var resp *PaymentResponse
	apply := func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := payment.Refund(time.Now()); err != nil {
			return err
		}
		if req.Reason != "" {
			if payment.Metadata == nil {
				payment.Metadata = finance.JSONMap{}
			}
			payment.Metadata["refund_reason"] = req.Reason
		}
		if err := repos.PaymentRepo().SaveWithLock(ctx, payment); err != nil {
			return err
		}

		s.logger.Info("payment refunded",
			zap.String("payment_id", payment.ID.String()),
			zap.String("order_id", payment.OrderID.String()),
			zap.String("amount", payment.Amount.String()))

		resp = ToPaymentResponse(payment)
		return nil
	}
	err := retryOnConflict(func() error {
		return s.txScope.Execute(ctx, apply)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetByID retrieves one payment
func (s *PaymentService) GetByID(ctx context.Context, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponse(payment), nil
}

// ListByOrder retrieves all payment attempts for an order, newest first
func (s *PaymentService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	responses := make([]*PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, ToPaymentResponse(p))
	}
	return responses, nil
}

package finance

import (
	"context"
	"errors"
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/finance"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dedupTTL bounds how long processed callback keys are remembered.
// Gateways retry for at most a few days.
const dedupTTL = 7 * 24 * time.Hour

// PaymentCallbackService is the webhook intake for payment gateways.
// Callbacks are deduplicated on (gateway, gateway_transaction_id); a replayed
// callback is acknowledged without re-applying any state.
type PaymentCallbackService struct {
	idempotency finance.IdempotencyStore
	txScope     TransactionScope
	logger      *zap.Logger
}

// NewPaymentCallbackService creates a new PaymentCallbackService
func NewPaymentCallbackService(idempotency finance.IdempotencyStore, txScope TransactionScope, logger *zap.Logger) *PaymentCallbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentCallbackService{
		idempotency: idempotency,
		txScope:     txScope,
		logger:      logger,
	}
}

// HandleCallback processes one gateway callback.
//
// The payment is resolved by the gateway's transaction reference, falling
// back to the payment_id hint for the first callback. The intake is
// defensive: callbacks with an unknown reference are rejected and logged,
// amount mismatches are rejected, and duplicates are acknowledged as no-ops.
// A successful callback settles the payment and advances the order from
// PENDING to CONFIRMED in the same transaction.
func (s *PaymentCallbackService) HandleCallback(ctx context.Context, req GatewayCallbackRequest) (*CallbackResult, error) {
	key := req.Gateway + ":" + req.GatewayTransactionID
	firstTime, err := s.idempotency.MarkProcessed(ctx, key, dedupTTL)
	if err != nil {
		return nil, err
	}
	if !firstTime {
		s.logger.Info("duplicate gateway callback absorbed",
			zap.String("gateway", req.Gateway),
			zap.String("gateway_transaction_id", req.GatewayTransactionID))
		return &CallbackResult{Duplicate: true, PaymentID: req.PaymentID}, nil
	}

	var result *CallbackResult
	apply := func(repos TransactionalRepositories) error {
		payment, err := s.resolvePayment(ctx, repos, req)
		if err != nil {
			return err
		}
		if payment.Gateway != req.Gateway {
			return shared.NewDomainError("GATEWAY_MISMATCH", "Callback gateway does not match the payment")
		}

		payment.RecordGatewayResponse(req.RawPayload)

		if !req.Success {
			if err := payment.MarkFailed(req.FailureReason); err != nil {
				return err
			}
			if err := repos.PaymentRepo().SaveWithLock(ctx, payment); err != nil {
				return err
			}
			result = &CallbackResult{
				PaymentID:     payment.ID,
				OrderID:       payment.OrderID,
				PaymentStatus: payment.Status.String(),
			}
			return nil
		}

		if !req.Amount.Equal(payment.Amount) {
			return shared.NewDomainError("AMOUNT_MISMATCH", "Callback amount does not match the payment")
		}

		occurredAt := req.OccurredAt
		if occurredAt.IsZero() {
			occurredAt = time.Now()
		}
		alreadyPaid, err := payment.MarkPaid(req.GatewayTransactionID, occurredAt)
		if err != nil {
			return err
		}
		if err := repos.PaymentRepo().SaveWithLock(ctx, payment); err != nil {
			return err
		}

		if !alreadyPaid {
			order, err := repos.OrderRepo().FindByIDForUpdate(ctx, payment.OrderID)
			if err != nil {
				return err
			}
			if order.Status == trade.OrderStatusPending {
				if err := order.Confirm("payment-gateway", "Payment confirmed via "+req.Gateway); err != nil {
					return err
				}
				if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
					return err
				}
			}
		}

		s.logger.Info("gateway callback settled",
			zap.String("gateway", req.Gateway),
			zap.String("payment_id", payment.ID.String()),
			zap.String("order_id", payment.OrderID.String()),
			zap.Bool("already_paid", alreadyPaid))

		result = &CallbackResult{
			PaymentID:     payment.ID,
			OrderID:       payment.OrderID,
			PaymentStatus: payment.Status.String(),
			AlreadyPaid:   alreadyPaid,
		}
		return nil
	}
	err = retryOnConflict(func() error {
		return s.txScope.Execute(ctx, apply)
	})
	if err != nil {
		// Release the dedup key so the gateway's retry can succeed
		if forgetErr := s.idempotency.Forget(ctx, key); forgetErr != nil {
			s.logger.Warn("failed to release callback dedup key",
				zap.String("key", key), zap.Error(forgetErr))
		}
		return nil, err
	}
	return result, nil
}

// resolvePayment locates the payment a callback refers to. The gateway's
// transaction reference is authoritative; the payment_id hint only serves the
// first callback, before the reference has been recorded on our side. A hint
// that contradicts the resolved payment is rejected rather than trusted.
func (s *PaymentCallbackService) resolvePayment(ctx context.Context, repos TransactionalRepositories, req GatewayCallbackRequest) (*finance.Payment, error) {
	known, err := repos.PaymentRepo().FindByGatewayTransactionID(ctx, req.GatewayTransactionID)
	switch {
	case err == nil:
		if req.PaymentID != uuid.Nil && req.PaymentID != known.ID {
			return nil, shared.NewDomainError("PAYMENT_MISMATCH", "Callback payment ID does not match the gateway reference")
		}
		return repos.PaymentRepo().FindByIDForUpdate(ctx, known.ID)
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	if req.PaymentID == uuid.Nil {
		s.logger.Warn("gateway callback with unknown reference",
			zap.String("gateway", req.Gateway),
			zap.String("gateway_transaction_id", req.GatewayTransactionID))
		return nil, shared.ErrNotFound
	}
	payment, err := repos.PaymentRepo().FindByIDForUpdate(ctx, req.PaymentID)
	if err != nil {
		s.logger.Warn("gateway callback for unknown payment",
			zap.String("gateway", req.Gateway),
			zap.String("payment_id", req.PaymentID.String()),
			zap.String("gateway_transaction_id", req.GatewayTransactionID))
		return nil, err
	}
	return payment, nil
}

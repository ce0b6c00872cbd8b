package trade

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/catalog"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService turns a validated cart into an order. Checkout is a single
// transaction: price snapshots, coupon consumption, stock decrements and the
// order itself commit together or not at all.
type CheckoutService struct {
	txScope TransactionScope
	logger  *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(txScope TransactionScope, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		txScope: txScope,
		logger:  logger,
	}
}

// CreateFromCart creates an order from the given cart.
//
// Inside one transaction it:
//  1. Locks the cart's product rows in ascending ID order
//  2. Rejects inactive products and insufficient stock outright; checkout
//     never clamps
//  3. Freezes unit prices and product snapshots into order items
//  4. Validates and atomically consumes the coupon, if any
//  5. Decrements stock and writes SALE entries to the movement log
//  6. Persists the order with its PENDING history entry
func (s *CheckoutService) CreateFromCart(ctx context.Context, req CheckoutRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart must contain at least one item")
	}

	quantities := make(map[uuid.UUID]int64, len(req.Items))
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Cart item quantity must be positive")
		}
		if quantities[item.ProductID] == 0 {
			ids = append(ids, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var resp *OrderResponse
	apply := func(repos TransactionalRepositories) error {
		products, err := repos.ProductRepo().FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if len(products) != len(ids) {
			return shared.NewDomainError("UNKNOWN_PRODUCT", "Cart references a product that does not exist")
		}

		byID := make(map[uuid.UUID]*catalog.Product, len(products))
		for i := range products {
			p := &products[i]
			if !p.IsActive {
				return catalog.ErrProductInactive
			}
			if !p.CanFulfill(quantities[p.ID]) {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Product %s has %d in stock, %d requested", p.SKU, p.StockQuantity, quantities[p.ID]))
			}
			byID[p.ID] = p
		}

		orderNumber, err := repos.OrderRepo().GenerateOrderNumber(ctx)
		if err != nil {
			return err
		}
		order, err := trade.NewOrder(orderNumber, req.UserID, req.ShippingAddressID, req.PaymentMethodID, req.Note)
		if err != nil {
			return err
		}

		for _, id := range ids {
			p := byID[id]
			snapshot := trade.ProductSnapshot{
				SKU:   p.SKU,
				Name:  p.Name,
				Price: p.Price.String(),
			}
			if len(p.Images) > 0 {
				snapshot.ImageURL = p.Images[0]
			}
			if err := order.AddItem(p.ID, quantities[id], p.Price, snapshot); err != nil {
				return err
			}
		}

		if req.CouponCode != "" {
			coupon, err := repos.CouponRepo().FindByCode(ctx, req.CouponCode)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError(trade.CouponReasonNotFound, "Coupon does not exist")
				}
				return err
			}
			if err := coupon.Validate(order.Subtotal, time.Now()); err != nil {
				return err
			}
			// Guarded increment; a concurrent checkout may still win the
			// last use between Validate and Consume.
			if err := repos.CouponRepo().Consume(ctx, coupon.ID); err != nil {
				return err
			}
			discount := coupon.DiscountFor(order.Subtotal)
			if err := order.ApplyCoupon(coupon.ID, coupon.Code, discount); err != nil {
				return err
			}
		}

		stockTxs := make([]*inventory.StockTransaction, 0, len(ids))
		for _, id := range ids {
			p := byID[id]
			qty := quantities[id]
			before := p.StockQuantity
			after := p.ApplyStockDelta(-qty)

			stockTx, err := inventory.NewStockTransaction(p.ID, -qty, before, after,
				inventory.ChangeTypeSale, "Order "+order.OrderNumber, req.UserID.String())
			if err != nil {
				return err
			}
			stockTxs = append(stockTxs, stockTx)

			if err := repos.ProductRepo().SaveStockQuantity(ctx, p); err != nil {
				return err
			}
		}
		if err := repos.StockTransactionRepo().SaveBatch(ctx, stockTxs); err != nil {
			return err
		}

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		s.logger.Info("order created",
			zap.String("order_number", order.OrderNumber),
			zap.String("user_id", req.UserID.String()),
			zap.String("total", order.TotalAmount.String()),
			zap.Int("items", len(order.Items)))

		resp = ToOrderResponse(order)
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

package trade

import (
	"context"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order lifecycle transitions and queries
type OrderService struct {
	orderRepo trade.OrderRepository
	txScope   TransactionScope
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, txScope TransactionScope, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		txScope:   txScope,
		logger:    logger,
	}
}

// UpdateStatus transitions an order to a new status under a row lock and
// appends the history entry. Cancelling a PENDING or CONFIRMED order returns
// its stock with RETURN entries in the movement log.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	target := trade.OrderStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}

	var resp *OrderResponse
	apply := func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.ChangeStatus(target, req.ChangedBy, req.Note); err != nil {
			return err
		}

		if target == trade.OrderStatusCancelled || target == trade.OrderStatusReturned {
			if err := s.restock(ctx, repos, order, req.ChangedBy); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		s.logger.Info("order status changed",
			zap.String("order_number", order.OrderNumber),
			zap.String("status", target.String()),
			zap.String("changed_by", req.ChangedBy))

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

// restock returns an order's item quantities to stock with RETURN log entries
func (s *OrderService) restock(ctx context.Context, repos TransactionalRepositories, order *trade.Order, actor string) error {
	quantities := make(map[uuid.UUID]int64, len(order.Items))
	ids := make([]uuid.UUID, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		if quantities[item.ProductID] == 0 {
			ids = append(ids, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	products, err := repos.ProductRepo().FindByIDsForUpdate(ctx, ids)
	if err != nil {
		return err
	}

	stockTxs := make([]*inventory.StockTransaction, 0, len(products))
	for i := range products {
		p := &products[i]
		qty := quantities[p.ID]
		before := p.StockQuantity
		after := p.ApplyStockDelta(qty)

		stockTx, err := inventory.NewStockTransaction(p.ID, qty, before, after,
			inventory.ChangeTypeReturn, "Order "+order.OrderNumber+" "+order.Status.String(), actor)
		if err != nil {
			return err
		}
		stockTxs = append(stockTxs, stockTx)

		if err := repos.ProductRepo().SaveStockQuantity(ctx, p); err != nil {
			return err
		}
	}
	return repos.StockTransactionRepo().SaveBatch(ctx, stockTxs)
}

// GetByID retrieves one order with items and history
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// GetByOrderNumber retrieves one order by its business number
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// ListByUser retrieves a user's orders, newest first
func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*OrderResponse], error) {
	page, err := s.orderRepo.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return mapOrderPage(page), nil
}

// List retrieves orders, optionally filtered by status
func (s *OrderService) List(ctx context.Context, status *trade.OrderStatus, filter shared.Filter) (*shared.Paginated[*OrderResponse], error) {
	page, err := s.orderRepo.FindAll(ctx, status, filter)
	if err != nil {
		return nil, err
	}
	return mapOrderPage(page), nil
}

func mapOrderPage(page *shared.Paginated[*trade.Order]) *shared.Paginated[*OrderResponse] {
	items := make([]*OrderResponse, 0, len(page.Items))
	for _, o := range page.Items {
		items = append(items, ToOrderResponse(o))
	}
	mapped := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &mapped
}

package inventory

import (
	"context"
	"sort"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryService handles stock adjustments and the movement log
type InventoryService struct {
	stockTxRepo inventory.StockTransactionRepository
	txScope     TransactionScope
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(stockTxRepo inventory.StockTransactionRepository, txScope TransactionScope) *InventoryService {
	return &InventoryService{
		stockTxRepo: stockTxRepo,
		txScope:     txScope,
	}
}

// AdjustStock applies a manual adjustment to one product. Decrements that
// would take the quantity below zero are clamped at zero; the log records
// the requested delta alongside the balances actually observed.
func (s *InventoryService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*AdjustStockResponse, error) {
	if req.Delta == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}

	var resp *AdjustStockResponse
	apply := func(repos TransactionalRepositories) error {
		products, err := repos.ProductRepo().FindByIDsForUpdate(ctx, []uuid.UUID{req.ProductID})
		if err != nil {
			return err
		}
		if len(products) == 0 {
			return shared.ErrNotFound
		}
		product := &products[0]

		before := product.StockQuantity
		after := product.ApplyStockDelta(req.Delta)

		tx, err := inventory.NewStockTransaction(product.ID, req.Delta, before, after,
			inventory.ChangeTypeAdjustment, req.Note, req.Actor)
		if err != nil {
			return err
		}

		if err := repos.ProductRepo().SaveStockQuantity(ctx, product); err != nil {
			return err
		}
		if err := repos.StockTransactionRepo().Save(ctx, tx); err != nil {
			return err
		}

		resp = &AdjustStockResponse{
			ProductID:      product.ID,
			RequestedDelta: req.Delta,
			EffectiveDelta: after - before,
			NewQuantity:    after,
			Clamped:        after-before != req.Delta,
		}
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

// BatchAdjustStock applies several product deltas in one transaction.
// Product rows are locked in ascending ID order so concurrent batches cannot
// deadlock against each other. Any failure rolls back every delta.
func (s *InventoryService) BatchAdjustStock(ctx context.Context, req BatchAdjustStockRequest) ([]*AdjustStockResponse, error) {
	changeType := inventory.ChangeType(req.ChangeType)
	if !changeType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANGE_TYPE", "Invalid stock change type")
	}

	deltas := make(map[uuid.UUID]int64, len(req.Adjustments))
	ids := make([]uuid.UUID, 0, len(req.Adjustments))
	for _, adj := range req.Adjustments {
		if adj.Delta == 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
		}
		if _, seen := deltas[adj.ProductID]; seen {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Each product may appear at most once per batch")
		}
		deltas[adj.ProductID] = adj.Delta
		ids = append(ids, adj.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var responses []*AdjustStockResponse
	apply := func(repos TransactionalRepositories) error {
		products, err := repos.ProductRepo().FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if len(products) != len(ids) {
			return shared.ErrNotFound
		}

		txs := make([]*inventory.StockTransaction, 0, len(products))
		responses = make([]*AdjustStockResponse, 0, len(products))
		for i := range products {
			product := &products[i]
			delta := deltas[product.ID]
			before := product.StockQuantity
			after := product.ApplyStockDelta(delta)

			tx, err := inventory.NewStockTransaction(product.ID, delta, before, after,
				changeType, req.Note, req.Actor)
			if err != nil {
				return err
			}
			txs = append(txs, tx)

			if err := repos.ProductRepo().SaveStockQuantity(ctx, product); err != nil {
				return err
			}
			responses = append(responses, &AdjustStockResponse{
				ProductID:      product.ID,
				RequestedDelta: delta,
				EffectiveDelta: after - before,
				NewQuantity:    after,
				Clamped:        after-before != delta,
			})
		}
		return repos.StockTransactionRepo().SaveBatch(ctx, txs)
	}
	err := retryOnConflict(func() error {
		return s.txScope.Execute(ctx, apply)
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// RecordCorrection appends a CORRECTION entry to the movement log without
// changing any stock quantity. Used when the quantity effect was already
// applied elsewhere and only the bookkeeping needs amending.
func (s *InventoryService) RecordCorrection(ctx context.Context, req RecordCorrectionRequest) (*StockTransactionResponse, error) {
	var resp *StockTransactionResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}

		balance := product.StockQuantity
		tx, err := inventory.NewStockTransaction(product.ID, req.Quantity, balance, balance,
			inventory.ChangeTypeCorrection, req.Note, req.Actor)
		if err != nil {
			return err
		}
		if err := repos.StockTransactionRepo().Save(ctx, tx); err != nil {
			return err
		}
		resp = ToStockTransactionResponse(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetProductHistory returns the movement log for one product, newest first
func (s *InventoryService) GetProductHistory(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*StockTransactionResponse], error) {
	page, err := s.stockTxRepo.FindByProductID(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	return mapTransactionPage(page), nil
}

// ListTransactions returns movement log entries matching the filter
func (s *InventoryService) ListTransactions(ctx context.Context, filter inventory.TransactionFilter) (*shared.Paginated[*StockTransactionResponse], error) {
	page, err := s.stockTxRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapTransactionPage(page), nil
}

// StockDriftReport compares the sum of requested deltas against the live
// quantity for a product. Clamped decrements make the logged sum drift below
// the live quantity; the report surfaces that gap.
type StockDriftReport struct {
	ProductID    uuid.UUID `json:"product_id"`
	LiveQuantity int64     `json:"live_quantity"`
	LoggedSum    int64     `json:"logged_sum"`
	Drift        int64     `json:"drift"`
}

// ReportDrift computes the logged-versus-live drift for a product
func (s *InventoryService) ReportDrift(ctx context.Context, productID uuid.UUID) (*StockDriftReport, error) {
	var report *StockDriftReport
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		sum, err := repos.StockTransactionRepo().SumQuantityChange(ctx, productID)
		if err != nil {
			return err
		}
		report = &StockDriftReport{
			ProductID:    productID,
			LiveQuantity: product.StockQuantity,
			LoggedSum:    sum,
			Drift:        product.StockQuantity - sum,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func mapTransactionPage(page *shared.Paginated[*inventory.StockTransaction]) *shared.Paginated[*StockTransactionResponse] {
	items := make([]*StockTransactionResponse, 0, len(page.Items))
	for _, tx := range page.Items {
		items = append(items, ToStockTransactionResponse(tx))
	}
	mapped := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &mapped
}

package inventory

import (
	"context"
	"sort"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
)

// StockReceiptService handles the goods receipt approval workflow
type StockReceiptService struct {
	receiptRepo inventory.StockReceiptRepository
	txScope     TransactionScope
}

// NewStockReceiptService creates a new StockReceiptService
func NewStockReceiptService(receiptRepo inventory.StockReceiptRepository, txScope TransactionScope) *StockReceiptService {
	return &StockReceiptService{
		receiptRepo: receiptRepo,
		txScope:     txScope,
	}
}

// Create registers a new pending stock receipt. Products referenced by the
// items must exist; stock quantities are untouched until approval.
func (s *StockReceiptService) Create(ctx context.Context, req CreateReceiptRequest) (*ReceiptResponse, error) {
	var resp *ReceiptResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ids := make([]uuid.UUID, 0, len(req.Items))
		for _, item := range req.Items {
			ids = append(ids, item.ProductID)
		}
		products, err := repos.ProductRepo().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		known := make(map[uuid.UUID]bool, len(products))
		for i := range products {
			known[products[i].ID] = true
		}
		for _, item := range req.Items {
			if !known[item.ProductID] {
				return shared.NewDomainError("UNKNOWN_PRODUCT", "Receipt references a product that does not exist")
			}
		}

		number, err := repos.ReceiptRepo().GenerateReceiptNumber(ctx)
		if err != nil {
			return err
		}
		receipt, err := inventory.NewStockReceipt(number, req.SupplierName, req.CreatedBy, req.Note)
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			if err := receipt.AddItem(item.ProductID, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
		}

		if err := repos.ReceiptRepo().Save(ctx, receipt); err != nil {
			return err
		}
		resp = ToReceiptResponse(receipt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Approve transitions a pending receipt to APPROVED and applies its item
// quantities to stock in the same transaction. If any stock update fails the
// whole approval rolls back and the receipt stays PENDING. Receipt increments
// are logged with change type RECEIPT.
func (s *StockReceiptService) Approve(ctx context.Context, receiptID uuid.UUID, req ReviewReceiptRequest) (*ReceiptResponse, error) {
	var resp *ReceiptResponse
	apply := func(repos TransactionalRepositories) error {
		receipt, err := repos.ReceiptRepo().FindByIDForUpdate(ctx, receiptID)
		if err != nil {
			return err
		}
		if err := receipt.Approve(req.ReviewedBy, req.Note); err != nil {
			return err
		}

		quantities := make(map[uuid.UUID]int64, len(receipt.Items))
		ids := make([]uuid.UUID, 0, len(receipt.Items))
		for i := range receipt.Items {
			item := &receipt.Items[i]
			if quantities[item.ProductID] == 0 {
				ids = append(ids, item.ProductID)
			}
			quantities[item.ProductID] += item.Quantity
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

		products, err := repos.ProductRepo().FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if len(products) != len(ids) {
			return shared.NewDomainError("UNKNOWN_PRODUCT", "Receipt references a product that does not exist")
		}

		txs := make([]*inventory.StockTransaction, 0, len(products))
		for i := range products {
			product := &products[i]
			delta := quantities[product.ID]
			before := product.StockQuantity
			after := product.ApplyStockDelta(delta)

			tx, err := inventory.NewStockTransaction(product.ID, delta, before, after,
				inventory.ChangeTypeReceipt, "Stock receipt "+receipt.ReceiptNumber, req.ReviewedBy)
			if err != nil {
				return err
			}
			txs = append(txs, tx)

			if err := repos.ProductRepo().SaveStockQuantity(ctx, product); err != nil {
				return err
			}
		}
		if err := repos.StockTransactionRepo().SaveBatch(ctx, txs); err != nil {
			return err
		}

		if err := repos.ReceiptRepo().SaveWithLock(ctx, receipt); err != nil {
			return err
		}
		resp = ToReceiptResponse(receipt)
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

// Reject transitions a pending receipt to REJECTED. Stock is untouched.
func (s *StockReceiptService) Reject(ctx context.Context, receiptID uuid.UUID, req ReviewReceiptRequest) (*ReceiptResponse, error) {
	var resp *ReceiptResponse
	apply := func(repos TransactionalRepositories) error {
		receipt, err := repos.ReceiptRepo().FindByIDForUpdate(ctx, receiptID)
		if err != nil {
			return err
		}
		if err := receipt.Reject(req.ReviewedBy, req.Note); err != nil {
			return err
		}
		if err := repos.ReceiptRepo().SaveWithLock(ctx, receipt); err != nil {
			return err
		}
		resp = ToReceiptResponse(receipt)
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

// GetByID retrieves one receipt with its items
func (s *StockReceiptService) GetByID(ctx context.Context, receiptID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	return ToReceiptResponse(receipt), nil
}

// List retrieves receipts, optionally filtered by status
func (s *StockReceiptService) List(ctx context.Context, status *inventory.ReceiptStatus, filter shared.Filter) (*shared.Paginated[*ReceiptResponse], error) {
	page, err := s.receiptRepo.FindAll(ctx, status, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*ReceiptResponse, 0, len(page.Items))
	for _, r := range page.Items {
		items = append(items, ToReceiptResponse(r))
	}
	mapped := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &mapped, nil
}

package persistence

import (
	"context"
	"errors"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockTransactionRepository implements inventory.StockTransactionRepository
// using GORM. The log is append-only: no update or delete methods exist.
type GormStockTransactionRepository struct {
	db *gorm.DB
}

// NewGormStockTransactionRepository creates a new GormStockTransactionRepository
func NewGormStockTransactionRepository(db *gorm.DB) *GormStockTransactionRepository {
	return &GormStockTransactionRepository{db: db}
}

// Save inserts a new transaction record
func (r *GormStockTransactionRepository) Save(ctx context.Context, tx *inventory.StockTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// SaveBatch inserts multiple transaction records in one statement
func (r *GormStockTransactionRepository) SaveBatch(ctx context.Context, txs []*inventory.StockTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&txs).Error
}

// FindByID retrieves a transaction by its ID
func (r *GormStockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockTransaction, error) {
	var tx inventory.StockTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByProductID retrieves transactions for a product, newest first
func (r *GormStockTransactionRepository) FindByProductID(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.StockTransaction], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&inventory.StockTransaction{}).
		Where("product_id = ?", productID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var txs []*inventory.StockTransaction
	query := applyFilter(r.db.WithContext(ctx).Where("product_id = ?", productID), filter)
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	page := shared.NewPaginated(txs, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindAll retrieves transactions matching the filter, newest first
func (r *GormStockTransactionRepository) FindAll(ctx context.Context, filter inventory.TransactionFilter) (*shared.Paginated[*inventory.StockTransaction], error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockTransaction{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.ChangeType != nil {
		query = query.Where("change_type = ?", *filter.ChangeType)
	}
	if filter.From != nil {
		query = query.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("transaction_date < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	pageSize := filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var txs []*inventory.StockTransaction
	if err := query.
		Order("transaction_date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	result := shared.NewPaginated(txs, total, page, pageSize)
	return &result, nil
}

// SumQuantityChange returns the sum of requested deltas for a product
func (r *GormStockTransactionRepository) SumQuantityChange(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum *int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockTransaction{}).
		Where("product_id = ?", productID).
		Select("SUM(quantity_change)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

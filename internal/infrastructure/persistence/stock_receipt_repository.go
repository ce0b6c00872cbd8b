package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockReceiptRepository implements inventory.StockReceiptRepository using GORM
type GormStockReceiptRepository struct {
	db *gorm.DB
}

// NewGormStockReceiptRepository creates a new GormStockReceiptRepository
func NewGormStockReceiptRepository(db *gorm.DB) *GormStockReceiptRepository {
	return &GormStockReceiptRepository{db: db}
}

// Save persists a receipt together with its items
func (r *GormStockReceiptRepository) Save(ctx context.Context, receipt *inventory.StockReceipt) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(receipt).Error
}

// SaveWithLock persists a receipt with optimistic version checking
func (r *GormStockReceiptRepository) SaveWithLock(ctx context.Context, receipt *inventory.StockReceipt) error {
	result := r.db.WithContext(ctx).
		Model(receipt).
		Where("id = ? AND version = ?", receipt.ID, receipt.Version-1).
		Updates(map[string]interface{}{
			"status":      receipt.Status,
			"reviewed_by": receipt.ReviewedBy,
			"reviewed_at": receipt.ReviewedAt,
			"review_note": receipt.ReviewNote,
			"version":     receipt.Version,
			"updated_at":  receipt.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Receipt was modified by another transaction")
	}
	return nil
}

// FindByID retrieves a receipt with its items
func (r *GormStockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockReceipt, error) {
	var receipt inventory.StockReceipt
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByIDForUpdate retrieves a receipt with a row lock
func (r *GormStockReceiptRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.StockReceipt, error) {
	var receipt inventory.StockReceipt
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("receipt_id = ?", id).
		Find(&receipt.Items).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

// FindByReceiptNumber retrieves a receipt by its business number
func (r *GormStockReceiptRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*inventory.StockReceipt, error) {
	var receipt inventory.StockReceipt
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&receipt, "receipt_number = ?", receiptNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindAll retrieves receipts, optionally filtered by status
func (r *GormStockReceiptRepository) FindAll(ctx context.Context, status *inventory.ReceiptStatus, filter shared.Filter) (*shared.Paginated[*inventory.StockReceipt], error) {
	countQuery := r.db.WithContext(ctx).Model(&inventory.StockReceipt{})
	listQuery := r.db.WithContext(ctx).Preload("Items")
	if status != nil {
		countQuery = countQuery.Where("status = ?", *status)
		listQuery = listQuery.Where("status = ?", *status)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var receipts []*inventory.StockReceipt
	if err := applyFilter(listQuery, filter).Find(&receipts).Error; err != nil {
		return nil, err
	}
	page := shared.NewPaginated(receipts, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GenerateReceiptNumber produces the next receipt number, GR-YYYYMMDD-xxxxxx.
// The sequence restarts daily; the count is taken inside the caller's
// transaction so concurrent generation stays unique under the unique index.
func (r *GormStockReceiptRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "GR-" + today + "-"

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockReceipt{}).
		Where("receipt_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%06d", prefix, count+1), nil
}

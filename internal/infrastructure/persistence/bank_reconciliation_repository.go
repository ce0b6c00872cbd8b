package persistence

import (
	"context"
	"errors"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/finance"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBankTransactionRepository implements finance.BankTransactionRepository using GORM
type GormBankTransactionRepository struct {
	db *gorm.DB
}

// NewGormBankTransactionRepository creates a new GormBankTransactionRepository
func NewGormBankTransactionRepository(db *gorm.DB) *GormBankTransactionRepository {
	return &GormBankTransactionRepository{db: db}
}

// Save persists a bank transaction
func (r *GormBankTransactionRepository) Save(ctx context.Context, txn *finance.BankTransaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

// SaveBatch inserts imported transactions, silently skipping lines whose
// reference was imported before
func (r *GormBankTransactionRepository) SaveBatch(ctx context.Context, txns []*finance.BankTransaction) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reference"}},
			DoNothing: true,
		}).
		Create(&txns)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

// FindByID retrieves a bank transaction by ID
func (r *GormBankTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.BankTransaction, error) {
	var txn finance.BankTransaction
	if err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindByReference retrieves a bank transaction by its statement reference
func (r *GormBankTransactionRepository) FindByReference(ctx context.Context, reference string) (*finance.BankTransaction, error) {
	var txn finance.BankTransaction
	if err := r.db.WithContext(ctx).First(&txn, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindUnmatched retrieves transactions awaiting reconciliation, oldest first
func (r *GormBankTransactionRepository) FindUnmatched(ctx context.Context, filter shared.Filter) (*shared.Paginated[*finance.BankTransaction], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&finance.BankTransaction{}).
		Where("status = ?", finance.MatchStatusUnmatched).
		Count(&total).Error; err != nil {
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

	var txns []*finance.BankTransaction
	if err := r.db.WithContext(ctx).
		Where("status = ?", finance.MatchStatusUnmatched).
		Order("transaction_date ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txns).Error; err != nil {
		return nil, err
	}
	result := shared.NewPaginated(txns, total, page, pageSize)
	return &result, nil
}

// FindAll retrieves bank transactions, optionally filtered by status
func (r *GormBankTransactionRepository) FindAll(ctx context.Context, status *finance.MatchStatus, filter shared.Filter) (*shared.Paginated[*finance.BankTransaction], error) {
	countQuery := r.db.WithContext(ctx).Model(&finance.BankTransaction{})
	listQuery := r.db.WithContext(ctx).Model(&finance.BankTransaction{})
	if status != nil {
		countQuery = countQuery.Where("status = ?", *status)
		listQuery = listQuery.Where("status = ?", *status)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var txns []*finance.BankTransaction
	if err := applyFilter(listQuery, filter).Find(&txns).Error; err != nil {
		return nil, err
	}
	page := shared.NewPaginated(txns, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GormReconciliationMatchRepository implements finance.ReconciliationMatchRepository using GORM
type GormReconciliationMatchRepository struct {
	db *gorm.DB
}

// NewGormReconciliationMatchRepository creates a new GormReconciliationMatchRepository
func NewGormReconciliationMatchRepository(db *gorm.DB) *GormReconciliationMatchRepository {
	return &GormReconciliationMatchRepository{db: db}
}

// Save appends a match record
func (r *GormReconciliationMatchRepository) Save(ctx context.Context, match *finance.ReconciliationMatch) error {
	return r.db.WithContext(ctx).Create(match).Error
}

// Update persists changes to an existing match record
func (r *GormReconciliationMatchRepository) Update(ctx context.Context, match *finance.ReconciliationMatch) error {
	result := r.db.WithContext(ctx).
		Model(&finance.ReconciliationMatch{}).
		Where("id = ?", match.ID).
		Updates(map[string]interface{}{
			"superseded_at": match.SupersededAt,
			"updated_at":    match.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByBankTransactionID retrieves the full match trail for a bank
// transaction, newest first
func (r *GormReconciliationMatchRepository) FindByBankTransactionID(ctx context.Context, bankTransactionID uuid.UUID) ([]*finance.ReconciliationMatch, error) {
	var matches []*finance.ReconciliationMatch
	if err := r.db.WithContext(ctx).
		Where("bank_transaction_id = ?", bankTransactionID).
		Order("matched_at DESC").
		Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

// FindActiveByBankTransactionID retrieves the current, unsuperseded match
// for a bank transaction
func (r *GormReconciliationMatchRepository) FindActiveByBankTransactionID(ctx context.Context, bankTransactionID uuid.UUID) (*finance.ReconciliationMatch, error) {
	var match finance.ReconciliationMatch
	if err := r.db.WithContext(ctx).
		First(&match, "bank_transaction_id = ? AND superseded_at IS NULL", bankTransactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &match, nil
}

// FindByPaymentID retrieves matches linked to a payment
func (r *GormReconciliationMatchRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*finance.ReconciliationMatch, error) {
	var matches []*finance.ReconciliationMatch
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("matched_at DESC").
		Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

// FindByOrderID retrieves matches linked to an order
func (r *GormReconciliationMatchRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*finance.ReconciliationMatch, error) {
	var matches []*finance.ReconciliationMatch
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("matched_at DESC").
		Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

package persistence

import (
	"context"
	"errors"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCouponRepository implements trade.CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// Save persists a coupon
func (r *GormCouponRepository) Save(ctx context.Context, coupon *trade.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

// FindByID retrieves a coupon by ID
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Coupon, error) {
	var coupon trade.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindByCode retrieves a coupon by its code
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*trade.Coupon, error) {
	var coupon trade.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindAll retrieves coupons
func (r *GormCouponRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*trade.Coupon], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&trade.Coupon{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var coupons []*trade.Coupon
	if err := applyFilter(r.db.WithContext(ctx).Model(&trade.Coupon{}), filter).
		Find(&coupons).Error; err != nil {
		return nil, err
	}
	page := shared.NewPaginated(coupons, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Consume atomically increments used_count, guarded by the usage limit.
// The single conditional UPDATE is the concurrency control: of two checkouts
// racing for the last use, exactly one matches the WHERE clause.
func (r *GormCouponRepository) Consume(ctx context.Context, couponID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&trade.Coupon{}).
		Where("id = ? AND is_active = ? AND (usage_limit IS NULL OR used_count < usage_limit)", couponID, true).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return trade.ErrCouponExhausted
	}
	return nil
}

// Delete removes a coupon
func (r *GormCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&trade.Coupon{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

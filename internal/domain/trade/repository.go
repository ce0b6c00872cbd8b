package trade

import (
	"context"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository persists order aggregates with their items and history
type OrderRepository interface {
	// Save persists an order together with its items and status history
	Save(ctx context.Context, order *Order) error

	// SaveWithLock persists an order with optimistic version checking
	SaveWithLock(ctx context.Context, order *Order) error

	// FindByID retrieves an order with items and status history preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate retrieves an order with a row lock. Must be called
	// inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber retrieves an order by its business number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByUserID retrieves a user's orders, newest first
	FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Order], error)

	// FindAll retrieves orders, optionally filtered by status
	FindAll(ctx context.Context, status *OrderStatus, filter shared.Filter) (*shared.Paginated[*Order], error)

	// GenerateOrderNumber produces the next order number, SO-YYYYMMDD-xxxxxx
	GenerateOrderNumber(ctx context.Context) (string, error)
}

// CouponRepository persists coupons
type CouponRepository interface {
	// Save persists a coupon
	Save(ctx context.Context, coupon *Coupon) error

	// FindByID retrieves a coupon by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)

	// FindByCode retrieves a coupon by its code
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	// FindAll retrieves coupons
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Coupon], error)

	// Consume atomically increments the coupon's used count, guarded by the
	// usage limit. Returns ErrCouponExhausted when a concurrent consumer took
	// the last remaining use.
	Consume(ctx context.Context, couponID uuid.UUID) error

	// Delete removes a coupon
	Delete(ctx context.Context, id uuid.UUID) error
}

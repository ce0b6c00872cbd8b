package trade

import (
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountType represents how a coupon discount is computed
type DiscountType string

const (
	// DiscountTypePercentage discounts a percentage of the cart subtotal
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	// DiscountTypeFixed discounts a fixed amount
	DiscountTypeFixed DiscountType = "FIXED"
)

// IsValid returns true if the discount type is valid
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// Rejection reasons returned by Coupon.Validate, checked in a fixed order so
// callers and clients see stable messages.
const (
	CouponReasonNotFound   = "COUPON_NOT_FOUND"
	CouponReasonInactive   = "COUPON_INACTIVE"
	CouponReasonNotStarted = "COUPON_NOT_STARTED"
	CouponReasonExpired    = "COUPON_EXPIRED"
	CouponReasonExhausted  = "COUPON_EXHAUSTED"
	CouponReasonMinCart    = "COUPON_MIN_CART_NOT_MET"
)

// ErrCouponExhausted is returned when a concurrent checkout consumed the last
// remaining use between validation and consumption
var ErrCouponExhausted = shared.NewDomainError(CouponReasonExhausted, "Coupon usage limit reached")

// Coupon is a discount voucher with an optional usage limit.
// UsedCount only moves forward when an order actually consumes the coupon.
type Coupon struct {
	shared.BaseAggregateRoot
	Code          string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description   string          `gorm:"type:varchar(255)"`
	DiscountType  DiscountType    `gorm:"type:varchar(20);not null"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	MaxDiscount   decimal.Decimal `gorm:"type:decimal(18,2)"`
	MinCartValue  decimal.Decimal `gorm:"type:decimal(18,2)"`
	UsageLimit    *int64          `gorm:""`
	UsedCount     int64           `gorm:"not null;default:0"`
	StartDate     time.Time       `gorm:"type:timestamptz;not null"`
	EndDate       time.Time       `gorm:"type:timestamptz;not null"`
	IsActive      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// NewCoupon creates a new active coupon
func NewCoupon(code, description string, discountType DiscountType, discountValue decimal.Decimal, startDate, endDate time.Time) (*Coupon, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_COUPON_CODE", "Coupon code cannot be empty")
	}
	if !discountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Invalid discount type")
	}
	if !discountValue.IsPositive() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Discount value must be positive")
	}
	if discountType == DiscountTypePercentage && discountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Percentage discount cannot exceed 100")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date must be after start date")
	}

	return &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Description:       description,
		DiscountType:      discountType,
		DiscountValue:     discountValue,
		MaxDiscount:       decimal.Zero,
		MinCartValue:      decimal.Zero,
		StartDate:         startDate,
		EndDate:           endDate,
		IsActive:          true,
	}, nil
}

// Validate checks whether the coupon can be applied to a cart of the given
// subtotal at the given time. Checks run in a fixed order and the first
// failure wins: active flag, start date, end date, usage limit, minimum cart.
func (c *Coupon) Validate(cartSubtotal decimal.Decimal, now time.Time) error {
	if !c.IsActive {
		return shared.NewDomainError(CouponReasonInactive, "Coupon is not active")
	}
	if now.Before(c.StartDate) {
		return shared.NewDomainError(CouponReasonNotStarted, "Coupon is not valid yet")
	}
	if now.After(c.EndDate) {
		return shared.NewDomainError(CouponReasonExpired, "Coupon has expired")
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return ErrCouponExhausted
	}
	if c.MinCartValue.IsPositive() && cartSubtotal.LessThan(c.MinCartValue) {
		return shared.NewDomainError(CouponReasonMinCart, "Cart subtotal does not meet the coupon minimum")
	}
	return nil
}

// DiscountFor computes the discount the coupon grants for a cart subtotal.
// Percentage discounts are capped by MaxDiscount when set; no discount ever
// exceeds the subtotal itself.
func (c *Coupon) DiscountFor(cartSubtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountTypePercentage:
		discount = cartSubtotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
		if c.MaxDiscount.IsPositive() && discount.GreaterThan(c.MaxDiscount) {
			discount = c.MaxDiscount
		}
	case DiscountTypeFixed:
		discount = c.DiscountValue
	default:
		return decimal.Zero
	}
	if discount.GreaterThan(cartSubtotal) {
		discount = cartSubtotal
	}
	return discount
}

// Deactivate turns the coupon off without deleting its usage history
func (c *Coupon) Deactivate() {
	c.IsActive = false
	c.Touch()
	c.IncrementVersion()
}

// Activate turns the coupon back on
func (c *Coupon) Activate() {
	c.IsActive = true
	c.Touch()
	c.IncrementVersion()
}

// HasRemainingUses returns true if the coupon is unlimited or under its limit
func (c *Coupon) HasRemainingUses() bool {
	return c.UsageLimit == nil || c.UsedCount < *c.UsageLimit
}

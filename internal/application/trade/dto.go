package trade

import (
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItemRequest is one line in a checkout cart
type CartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// CheckoutRequest creates an order from a cart
type CheckoutRequest struct {
	UserID            uuid.UUID         `json:"user_id" binding:"required"`
	Items             []CartItemRequest `json:"items" binding:"required,min=1,dive"`
	CouponCode        string            `json:"coupon_code" binding:"max=50"`
	ShippingAddressID uuid.UUID         `json:"shipping_address_id" binding:"required"`
	PaymentMethodID   uuid.UUID         `json:"payment_method_id" binding:"required"`
	Note              string            `json:"note" binding:"max=500"`
}

// UpdateOrderStatusRequest transitions an order to a new status
type UpdateOrderStatusRequest struct {
	Status    string `json:"status" binding:"required"`
	ChangedBy string `json:"changed_by" binding:"required,max=100"`
	Note      string `json:"note" binding:"max=500"`
}

// OrderItemResponse is the API view of an order line
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// StatusHistoryResponse is the API view of one status change
type StatusHistoryResponse struct {
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  string    `json:"changed_by,omitempty"`
	Note       string    `json:"note,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
}

// OrderResponse is the API view of an order
type OrderResponse struct {
	ID             uuid.UUID               `json:"id"`
	OrderNumber    string                  `json:"order_number"`
	UserID         uuid.UUID               `json:"user_id"`
	Status         string                  `json:"status"`
	Subtotal       decimal.Decimal         `json:"subtotal"`
	DiscountAmount decimal.Decimal         `json:"discount_amount"`
	TotalAmount    decimal.Decimal         `json:"total_amount"`
	CouponCode     string                  `json:"coupon_code,omitempty"`
	Note           string                  `json:"note,omitempty"`
	Items          []OrderItemResponse     `json:"items"`
	StatusHistory  []StatusHistoryResponse `json:"status_history"`
	CreatedAt      time.Time               `json:"created_at"`
}

// CreateCouponRequest creates a new coupon
type CreateCouponRequest struct {
	Code          string          `json:"code" binding:"required,max=50"`
	Description   string          `json:"description" binding:"max=255"`
	DiscountType  string          `json:"discount_type" binding:"required,oneof=PERCENTAGE FIXED"`
	DiscountValue decimal.Decimal `json:"discount_value" binding:"required"`
	MaxDiscount   decimal.Decimal `json:"max_discount"`
	MinCartValue  decimal.Decimal `json:"min_cart_value"`
	UsageLimit    *int64          `json:"usage_limit" binding:"omitempty,gt=0"`
	StartDate     time.Time       `json:"start_date" binding:"required"`
	EndDate       time.Time       `json:"end_date" binding:"required"`
}

// ValidateCouponRequest checks a coupon against a cart subtotal
type ValidateCouponRequest struct {
	Code         string          `json:"code" binding:"required,max=50"`
	CartSubtotal decimal.Decimal `json:"cart_subtotal" binding:"required"`
}

// ValidateCouponResponse reports whether a coupon applies and the discount it grants
type ValidateCouponResponse struct {
	Valid    bool            `json:"valid"`
	Reason   string          `json:"reason,omitempty"`
	Discount decimal.Decimal `json:"discount"`
}

// CouponResponse is the API view of a coupon
type CouponResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Description   string          `json:"description,omitempty"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MaxDiscount   decimal.Decimal `json:"max_discount"`
	MinCartValue  decimal.Decimal `json:"min_cart_value"`
	UsageLimit    *int64          `json:"usage_limit,omitempty"`
	UsedCount     int64           `json:"used_count"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	IsActive      bool            `json:"is_active"`
}

// ToOrderResponse converts a domain order to its API view
func ToOrderResponse(o *trade.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Snapshot.Name,
			SKU:         item.Snapshot.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPriceSnapshot,
			TotalPrice:  item.TotalPriceSnapshot,
		})
	}
	history := make([]StatusHistoryResponse, 0, len(o.StatusHistory))
	for i := range o.StatusHistory {
		h := &o.StatusHistory[i]
		history = append(history, StatusHistoryResponse{
			FromStatus: h.FromStatus.String(),
			ToStatus:   h.ToStatus.String(),
			ChangedBy:  h.ChangedBy,
			Note:       h.Note,
			ChangedAt:  h.ChangedAt,
		})
	}
	return &OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		Status:         o.Status.String(),
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		TotalAmount:    o.TotalAmount,
		CouponCode:     o.CouponCode,
		Note:           o.Note,
		Items:          items,
		StatusHistory:  history,
		CreatedAt:      o.CreatedAt,
	}
}

// ToCouponResponse converts a domain coupon to its API view
func ToCouponResponse(c *trade.Coupon) *CouponResponse {
	return &CouponResponse{
		ID:            c.ID,
		Code:          c.Code,
		Description:   c.Description,
		DiscountType:  string(c.DiscountType),
		DiscountValue: c.DiscountValue,
		MaxDiscount:   c.MaxDiscount,
		MinCartValue:  c.MinCartValue,
		UsageLimit:    c.UsageLimit,
		UsedCount:     c.UsedCount,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		IsActive:      c.IsActive,
	}
}

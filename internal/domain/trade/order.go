package trade

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSnapshot freezes the product facts at checkout time so later catalog
// edits never alter historical orders
type ProductSnapshot struct {
	SKU      string   `json:"sku"`
	Name     string   `json:"name"`
	ImageURL string   `json:"image_url,omitempty"`
	Price    string   `json:"price"`
	Extras   []string `json:"extras,omitempty"`
}

// Value implements driver.Valuer for database storage
func (s ProductSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for database retrieval
func (s *ProductSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = ProductSnapshot{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into ProductSnapshot", value)
	}
}

// OrderItem is a line item on an order. Unit price and name are snapshots
// captured at checkout; they never track later catalog changes.
type OrderItem struct {
	shared.BaseEntity
	OrderID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_order_item_order"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity           int64           `gorm:"not null"`
	UnitPriceSnapshot  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalPriceSnapshot decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Snapshot           ProductSnapshot `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatusHistory is an append-only record of an order status change
type OrderStatusHistory struct {
	shared.BaseEntity
	OrderID    uuid.UUID   `gorm:"type:uuid;not null;index:idx_order_history_order"`
	FromStatus OrderStatus `gorm:"type:varchar(20)"`
	ToStatus   OrderStatus `gorm:"type:varchar(20);not null"`
	ChangedBy  string      `gorm:"type:varchar(100)"`
	Note       string      `gorm:"type:varchar(500)"`
	ChangedAt  time.Time   `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}

// Order is the order aggregate root. Items and status history are owned by
// the aggregate and persisted with it.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber       string               `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID            uuid.UUID            `gorm:"type:uuid;not null;index:idx_order_user"`
	Status            OrderStatus          `gorm:"type:varchar(20);not null;index:idx_order_status"`
	Subtotal          decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	DiscountAmount    decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	TotalAmount       decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	CouponID          *uuid.UUID           `gorm:"type:uuid"`
	CouponCode        string               `gorm:"type:varchar(50)"`
	ShippingAddressID uuid.UUID            `gorm:"type:uuid;not null"`
	PaymentMethodID   uuid.UUID            `gorm:"type:uuid;not null"`
	Note              string               `gorm:"type:varchar(500)"`
	Items             []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory     []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new pending order with an initial status history entry
func NewOrder(orderNumber string, userID, shippingAddressID, paymentMethodID uuid.UUID, note string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if shippingAddressID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address ID cannot be empty")
	}
	if paymentMethodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		Status:            OrderStatusPending,
		Subtotal:          decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TotalAmount:       decimal.Zero,
		ShippingAddressID: shippingAddressID,
		PaymentMethodID:   paymentMethodID,
		Note:              note,
	}
	order.StatusHistory = append(order.StatusHistory, OrderStatusHistory{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    order.ID,
		FromStatus: "",
		ToStatus:   OrderStatusPending,
		ChangedBy:  "system",
		Note:       "Order created",
		ChangedAt:  order.CreatedAt,
	})
	return order, nil
}

// AddItem appends a line item with frozen price and product snapshot.
// Only pending orders can be modified.
func (o *Order) AddItem(productID uuid.UUID, quantity int64, unitPrice decimal.Decimal, snapshot ProductSnapshot) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("ORDER_NOT_PENDING", "Cannot modify a non-pending order")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	lineTotal := unitPrice.Mul(decimal.NewFromInt(quantity))
	o.Items = append(o.Items, OrderItem{
		BaseEntity:         shared.NewBaseEntity(),
		OrderID:            o.ID,
		ProductID:          productID,
		Quantity:           quantity,
		UnitPriceSnapshot:  unitPrice,
		TotalPriceSnapshot: lineTotal,
		Snapshot:           snapshot,
	})
	o.Subtotal = o.Subtotal.Add(lineTotal)
	o.TotalAmount = o.Subtotal.Sub(o.DiscountAmount)
	o.Touch()
	return nil
}

// ApplyCoupon records an applied coupon and its discount on a pending order
func (o *Order) ApplyCoupon(couponID uuid.UUID, couponCode string, discount decimal.Decimal) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("ORDER_NOT_PENDING", "Cannot modify a non-pending order")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.GreaterThan(o.Subtotal) {
		discount = o.Subtotal
	}

	o.CouponID = &couponID
	o.CouponCode = couponCode
	o.DiscountAmount = discount
	o.TotalAmount = o.Subtotal.Sub(discount)
	o.Touch()
	return nil
}

// ChangeStatus transitions the order to a new status and appends a history
// entry. Invalid transitions are rejected.
func (o *Order) ChangeStatus(target OrderStatus, changedBy, note string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if o.Status == target {
		return shared.NewDomainError("STATUS_UNCHANGED", "Order is already in the requested status")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	now := time.Now()
	o.StatusHistory = append(o.StatusHistory, OrderStatusHistory{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    o.ID,
		FromStatus: o.Status,
		ToStatus:   target,
		ChangedBy:  changedBy,
		Note:       note,
		ChangedAt:  now,
	})
	o.Status = target
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// Confirm marks the order paid and accepted
func (o *Order) Confirm(changedBy, note string) error {
	return o.ChangeStatus(OrderStatusConfirmed, changedBy, note)
}

// Cancel cancels the order if it has not shipped yet
func (o *Order) Cancel(changedBy, note string) error {
	return o.ChangeStatus(OrderStatusCancelled, changedBy, note)
}

// ItemCount returns the total quantity across all items
func (o *Order) ItemCount() int64 {
	var n int64
	for i := range o.Items {
		n += o.Items[i].Quantity
	}
	return n
}

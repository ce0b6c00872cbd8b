package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ImageList is a JSON-serialized list of image URLs stored in a single column
type ImageList []string

// Value implements driver.Valuer
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for ImageList: %T", value)
	}
}

// Product is the catalog subset the fulfillment core depends on.
// StockQuantity is mutated exclusively through the inventory ledger;
// callers outside the inventory application service must treat it as read-only.
type Product struct {
	shared.BaseAggregateRoot
	SKU           string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name          string          `gorm:"type:varchar(255);not null"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Images        ImageList       `gorm:"type:text"`
	StockQuantity int64           `gorm:"not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new catalog product
func NewProduct(sku, name string, price decimal.Decimal, images []string) (*Product, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Price:             price,
		Images:            images,
		StockQuantity:     0,
		IsActive:          true,
	}, nil
}

// ApplyStockDelta computes the clamped new quantity for a requested change.
// The ledger records the requested delta; the aggregate never goes below zero.
// It returns the effective quantity after clamping.
func (p *Product) ApplyStockDelta(delta int64) int64 {
	newQuantity := p.StockQuantity + delta
	if newQuantity < 0 {
		newQuantity = 0
	}
	p.StockQuantity = newQuantity
	p.Touch()
	p.IncrementVersion()
	return p.StockQuantity
}

// CanFulfill returns true if the current stock can satisfy the requested quantity
func (p *Product) CanFulfill(quantity int64) bool {
	return p.StockQuantity >= quantity
}

// ErrProductInactive is returned when an operation targets a disabled product
var ErrProductInactive = shared.NewDomainError("PRODUCT_INACTIVE", "Product is not active")

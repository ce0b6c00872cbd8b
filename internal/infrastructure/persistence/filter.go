package persistence

import (
	"strings"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"gorm.io/gorm"
)

// orderableColumns limits OrderBy to known column names so user input never
// reaches the ORDER BY clause unchecked
var orderableColumns = map[string]bool{
	"created_at":       true,
	"updated_at":       true,
	"transaction_date": true,
	"order_number":     true,
	"receipt_number":   true,
	"total_amount":     true,
	"amount":           true,
	"code":             true,
	"sku":              true,
	"name":             true,
	"status":           true,
}

// applyFilter applies pagination and ordering from a shared.Filter
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" && orderableColumns[filter.OrderBy] {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

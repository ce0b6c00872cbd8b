package catalog

import (
	"context"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines persistence operations for catalog products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	// FindByIDsForUpdate loads the given products under a row-level write lock,
	// ordered by ascending ID so overlapping batches acquire locks in the same
	// order and cannot deadlock. Must be called inside a transaction.
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	// SaveStockQuantity persists only the stock quantity and version of the
	// product, guarded by the optimistic version check.
	SaveStockQuantity(ctx context.Context, product *Product) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

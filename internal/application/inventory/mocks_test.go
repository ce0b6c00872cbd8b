package inventory

import (
	"context"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/catalog"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveStockQuantity(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockStockTransactionRepository is a mock implementation of inventory.StockTransactionRepository
type MockStockTransactionRepository struct {
	mock.Mock
}

func (m *MockStockTransactionRepository) Save(ctx context.Context, tx *inventory.StockTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockStockTransactionRepository) SaveBatch(ctx context.Context, txs []*inventory.StockTransaction) error {
	args := m.Called(ctx, txs)
	return args.Error(0)
}

func (m *MockStockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockTransaction), args.Error(1)
}

func (m *MockStockTransactionRepository) FindByProductID(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.StockTransaction], error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*inventory.StockTransaction]), args.Error(1)
}

func (m *MockStockTransactionRepository) FindAll(ctx context.Context, filter inventory.TransactionFilter) (*shared.Paginated[*inventory.StockTransaction], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*inventory.StockTransaction]), args.Error(1)
}

func (m *MockStockTransactionRepository) SumQuantityChange(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

// MockStockReceiptRepository is a mock implementation of inventory.StockReceiptRepository
type MockStockReceiptRepository struct {
	mock.Mock
}

func (m *MockStockReceiptRepository) Save(ctx context.Context, receipt *inventory.StockReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockStockReceiptRepository) SaveWithLock(ctx context.Context, receipt *inventory.StockReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockStockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockReceipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockReceipt), args.Error(1)
}

func (m *MockStockReceiptRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.StockReceipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockReceipt), args.Error(1)
}

func (m *MockStockReceiptRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*inventory.StockReceipt, error) {
	args := m.Called(ctx, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockReceipt), args.Error(1)
}

func (m *MockStockReceiptRepository) FindAll(ctx context.Context, status *inventory.ReceiptStatus, filter shared.Filter) (*shared.Paginated[*inventory.StockReceipt], error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*inventory.StockReceipt]), args.Error(1)
}

func (m *MockStockReceiptRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

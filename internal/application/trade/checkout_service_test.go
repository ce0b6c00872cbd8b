package trade

import (
	"context"
	"testing"
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/catalog"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/inventory"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutMocks struct {
	orderRepo   *MockOrderRepository
	couponRepo  *MockCouponRepository
	productRepo *MockProductRepository
	stockTxRepo *MockStockTransactionRepository
}

func newCheckoutService() (*CheckoutService, *checkoutMocks) {
	m := &checkoutMocks{
		orderRepo:   new(MockOrderRepository),
		couponRepo:  new(MockCouponRepository),
		productRepo: new(MockProductRepository),
		stockTxRepo: new(MockStockTransactionRepository),
	}
	scope := NewNoOpTransactionScope(m.orderRepo, m.couponRepo, m.productRepo, m.stockTxRepo)
	return NewCheckoutService(scope, nil), m
}

func newStockedProduct(t *testing.T, sku string, price int64, stock int64) catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, "Product "+sku, decimal.NewFromInt(price), []string{"https://img.example.com/" + sku + ".jpg"})
	require.NoError(t, err)
	p.StockQuantity = stock
	return *p
}

func TestCheckoutService_CreateFromCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("creates order with snapshots and stock movements", func(t *testing.T) {
		service, m := newCheckoutService()

		product := newStockedProduct(t, "SKU-001", 50000, 10)
		req := CheckoutRequest{
			UserID: userID,
			Items:  []CartItemRequest{{ProductID: product.ID, Quantity: 3}},
		}

		m.productRepo.On("FindByIDsForUpdate", ctx, []uuid.UUID{product.ID}).
			Return([]catalog.Product{product}, nil)
		m.orderRepo.On("GenerateOrderNumber", ctx).Return("ORD-20260830-000042", nil)
		m.productRepo.On("SaveStockQuantity", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.ID == product.ID && p.StockQuantity == 7
		})).Return(nil)
		m.stockTxRepo.On("SaveBatch", ctx, mock.MatchedBy(func(txs []*inventory.StockTransaction) bool {
			if len(txs) != 1 {
				return false
			}
			tx := txs[0]
			return tx.ProductID == product.ID &&
				tx.QuantityChange == -3 &&
				tx.BalanceBefore == 10 &&
				tx.BalanceAfter == 7 &&
				tx.ChangeType == inventory.ChangeTypeSale &&
				tx.Note == "Order ORD-20260830-000042" &&
				tx.Actor == userID.String()
		})).Return(nil)
		m.orderRepo.On("Save", ctx, mock.AnythingOfType("*trade.Order")).Return(nil)

		resp, err := service.CreateFromCart(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, "ORD-20260830-000042", resp.OrderNumber)
		assert.Equal(t, string(trade.OrderStatusPending), resp.Status)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(150000)))
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(150000)))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "SKU-001", resp.Items[0].SKU)
		assert.Equal(t, "Product SKU-001", resp.Items[0].ProductName)
		assert.Equal(t, int64(3), resp.Items[0].Quantity)

		m.orderRepo.AssertExpectations(t)
		m.productRepo.AssertExpectations(t)
		m.stockTxRepo.AssertExpectations(t)
		m.couponRepo.AssertNotCalled(t, "FindByCode", mock.Anything, mock.Anything)
	})

	t.Run("merges duplicate cart lines for the same product", func(t *testing.T) {
		service, m := newCheckoutService()

		product := newStockedProduct(t, "SKU-002", 20000, 5)
		req := CheckoutRequest{
			UserID: userID,
			Items: []CartItemRequest{
				{ProductID: product.ID, Quantity: 2},
				{ProductID: product.ID, Quantity: 3},
			},
		}

		m.productRepo.On("FindByIDsForUpdate", ctx, []uuid.UUID{product.ID}).
			Return([]catalog.Product{product}, nil)
		m.orderRepo.On("GenerateOrderNumber", ctx).Return("ORD-20260830-000043", nil)
		m.productRepo.On("SaveStockQuantity", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.StockQuantity == 0
		})).Return(nil)
		m.stockTxRepo.On("SaveBatch", ctx, mock.MatchedBy(func(txs []*inventory.StockTransaction) bool {
			return len(txs) == 1 && txs[0].QuantityChange == -5
		})).Return(nil)
		m.orderRepo.On("Save", ctx, mock.AnythingOfType("*trade.Order")).Return(nil)

		resp, err := service.CreateFromCart(ctx, req)
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, int64(5), resp.Items[0].Quantity)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(100000)))
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		service, m := newCheckoutService()

		resp, err := service.CreateFromCart(ctx, CheckoutRequest{UserID: userID})
		require.Error(t, err)
		assert.Nil(t, resp)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_CART", domainErr.Code)
		m.productRepo.AssertNotCalled(t, "FindByIDsForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		service, _ := newCheckoutService()

		resp, err := service.CreateFromCart(ctx, CheckoutRequest{
			UserID: userID,
			Items:  []CartItemRequest{{ProductID: uuid.New(), Quantity: 0}},
		})
		require.Error(t, err)
		assert.Nil(t, resp)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("unknown product in cart is rejected", func(t *testing.T) {
		service, m := newCheckoutService()

		m.productRepo.On("FindByIDsForUpdate", ctx, mock.Anything).
			Return([]catalog.Product{}, nil)

		resp, err := service.CreateFromCart(ctx, CheckoutRequest{
			UserID: userID,
			Items:  []CartItemRequest{{ProductID: uuid.New(), Quantity: 1}},
		})
		require.Error(t, err)
		assert.Nil(t, resp)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNKNOWN_PRODUCT", domainErr.Code)
		m.orderRepo.AssertNotCalled(t, "GenerateOrderNumber", mock.Anything)
	})

	t.Run("inactive product is rejected", func(t *testing.T) {
		service, m := newCheckoutService()

		product := newStockedProduct(t, "SKU-003", 10000, 10)
		product.IsActive = false

		m.productRepo.On("FindByIDsForUpdate", ctx, mock.Anything).
			Return([]catalog.Product{product}, nil)

		resp, err := service.CreateFromCart(ctx, CheckoutRequest{
			UserID: userID,
			Items:  []CartItemRequest{{ProductID: product.ID, Quantity: 1}},
		})
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, catalog.ErrProductInactive)
	})

	t.Run("insufficient stock never clamps", func(t *testing.T) {
		service, m := newCheckoutService()

		product := newStockedProduct(t, "SKU-004", 10000, 2)

		m.productRepo.On("FindByIDsForUpdate", ctx, mock.Anything).
			Return([]catalog.Product{product}, nil)

		resp, err := service.CreateFromCart(ctx, CheckoutRequest{
			UserID: userID,
			Items:  []CartItemRequest{{ProductID: product.ID, Quantity: 5}},
		})
		require.Error(t, err)
		assert.Nil(t, resp)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Contains(t, domainErr.Message, "SKU-004")
		m.stockTxRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
		m.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCheckoutService_CreateFromCart_WithCoupon(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	newValidCoupon := func(t *testing.T) *trade.Coupon {
		t.Helper()
		coupon, err := trade.NewCoupon("SALE10", "10 percent off", trade.DiscountTypePercentage,
			decimal.NewFromInt(10), time.Now().Add(-time.Hour), time.Now().Add(24*time.Hour))
		require.NoError(t, err)
		return coupon
	}

	t.Run("applies percentage discount and consumes the coupon", func(t *testing.T) {
		service, m := newCheckoutService()

		product := newStockedProduct(t, "SKU-010", 100000, 10)
		coupon := newValidCoupon(t)

		m.productRepo.On("FindByIDsForUpdate", ctx, mock.Anything).
			Return([]catalog.Product{product}, nil)
		m.orderRepo.On("GenerateOrderNumber", ctx).Return("ORD-20260830-000050", nil)
		m.couponRepo.On("FindByCode", ctx, "SALE10").Return(coupon, nil)
		m.couponRepo.On("Consume", ctx, coupon.ID).Return(nil)
		m.productRepo.On("SaveStockQuantity", ctx, mock.Anything).Return(nil)
		m.stockTxRepo.On("SaveBatch", ctx, mock.Anything).Return(nil)
		m.orderRepo.On("Save", ctx, mock.AnythingOfType("*trade.Order")).Return(nil)

		resp, err := service.CreateFromCart(ctx, CheckoutRequest{
			UserID:     userID,
			Items:      []CartItemRequest{{ProductID: product.ID, Quantity: 2}},
			CouponCode: "SALE10",
		})
		require.NoError(t, err)

		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(200000)))
		assert.True(t, resp.DiscountAmount.Equal(decimal.NewFromInt(20000)))
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(180000)))
		assert.Equal(t, "SALE10", resp.CouponCode)
		m.couponRepo.AssertExpectations(t)
	})

	t.Run("unknown coupon code fails the checkout", func(t *testing.T) {
		service, m := newCheckoutService()

		product := newStockedProduct(t, "SKU-011", 100000, 10)

		m.productRepo.On("FindByIDsForUpdate", ctx, mock.Anything).
			Return([]catalog.Product{product}, nil)
		m.orderRepo.On("GenerateOrderNumber", ctx).Return("ORD-20260830-000051", nil)
		m.couponRepo.On("FindByCode", ctx, "NOPE").Return(nil, shared.ErrNotFound)

		resp, err := service.CreateFromCart(ctx, CheckoutRequest{
			UserID:     userID,
			Items:      []CartItemRequest{{ProductID: product.ID, Quantity: 1}},
			CouponCode: "NOPE",
		})
		require.Error(t, err)
		assert.Nil(t, resp)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, trade.CouponReasonNotFound, domainErr.Code)
		m.couponRepo.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
		m.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("expired coupon fails the checkout", func(t *testing.T) {
		service, m := newCheckoutService()

		product := newStockedProduct(t, "SKU-012", 100000, 10)
		coupon, err := trade.NewCoupon("OLD", "expired", trade.DiscountTypeFixed,
			decimal.NewFromInt(5000), time.Now().Add(-48*time.Hour), time.Now().Add(-24*time.Hour))
		require.NoError(t, err)

		m.productRepo.On("FindByIDsForUpdate", ctx, mock.Anything).
			Return([]catalog.Product{product}, nil)
		m.orderRepo.On("GenerateOrderNumber", ctx).Return("ORD-20260830-000052", nil)
		m.couponRepo.On("FindByCode", ctx, "OLD").Return(coupon, nil)

		resp, err := service.CreateFromCart(ctx, CheckoutRequest{
			UserID:     userID,
			Items:      []CartItemRequest{{ProductID: product.ID, Quantity: 1}},
			CouponCode: "OLD",
		})
		require.Error(t, err)
		assert.Nil(t, resp)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, trade.CouponReasonExpired, domainErr.Code)
		m.couponRepo.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
	})

	t.Run("concurrent exhaustion during consume fails the checkout", func(t *testing.T) {
		service, m := newCheckoutService()

		product := newStockedProduct(t, "SKU-013", 100000, 10)
		coupon := newValidCoupon(t)

		m.productRepo.On("FindByIDsForUpdate", ctx, mock.Anything).
			Return([]catalog.Product{product}, nil)
		m.orderRepo.On("GenerateOrderNumber", ctx).Return("ORD-20260830-000053", nil)
		m.couponRepo.On("FindByCode", ctx, "SALE10").Return(coupon, nil)
		m.couponRepo.On("Consume", ctx, coupon.ID).Return(trade.ErrCouponExhausted)

		resp, err := service.CreateFromCart(ctx, CheckoutRequest{
			UserID:     userID,
			Items:      []CartItemRequest{{ProductID: product.ID, Quantity: 1}},
			CouponCode: "SALE10",
		})
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, trade.ErrCouponExhausted)
		m.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

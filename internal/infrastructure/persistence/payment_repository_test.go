package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/finance"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPaymentTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&finance.Payment{})
	require.NoError(t, err)

	return db
}

func createPayment(t *testing.T, orderID uuid.UUID) *finance.Payment {
	t.Helper()
	payment, err := finance.NewPayment(orderID, "momo", decimal.NewFromInt(150000), "VND")
	require.NoError(t, err)
	return payment
}

func TestGormPaymentRepository_SaveAndFind(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	t.Run("saves and retrieves a payment", func(t *testing.T) {
		payment := createPayment(t, uuid.New())
		require.NoError(t, repo.Save(ctx, payment))

		found, err := repo.FindByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.PaymentStatusPending, found.Status)
		assert.Equal(t, "momo", found.Gateway)
		assert.True(t, found.Amount.Equal(decimal.NewFromInt(150000)))
	})

	t.Run("missing payment returns not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormPaymentRepository_SaveWithLock(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	t.Run("persists settlement when version matches", func(t *testing.T) {
		payment := createPayment(t, uuid.New())
		require.NoError(t, repo.Save(ctx, payment))

		paidAt := time.Now()
		_, err := payment.MarkPaid("MOMO-TX-900", paidAt)
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, payment))

		found, err := repo.FindByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.PaymentStatusPaid, found.Status)
		assert.Equal(t, "MOMO-TX-900", found.GatewayTransactionID)
		require.NotNil(t, found.PaidAt)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		payment := createPayment(t, uuid.New())
		require.NoError(t, repo.Save(ctx, payment))

		_, err := payment.MarkPaid("MOMO-TX-901", time.Now())
		require.NoError(t, err)
		require.NoError(t, db.Model(&finance.Payment{}).
			Where("id = ?", payment.ID).
			Update("version", payment.Version+5).Error)

		err = repo.SaveWithLock(ctx, payment)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_FAILED", domainErr.Code)
	})
}

func TestGormPaymentRepository_FindByOrderID(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	first := createPayment(t, orderID)
	first.CreatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, repo.Save(ctx, first))
	second := createPayment(t, orderID)
	second.CreatedAt = time.Now().Add(-1 * time.Hour)
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, createPayment(t, uuid.New())))

	payments, err := repo.FindByOrderID(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, second.ID, payments[0].ID)
	assert.Equal(t, first.ID, payments[1].ID)
}

func TestGormPaymentRepository_FindByGatewayTransactionID(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	payment := createPayment(t, uuid.New())
	_, err := payment.MarkPaid("VNPAY-TX-100", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, payment))

	t.Run("resolves the gateway reference", func(t *testing.T) {
		found, err := repo.FindByGatewayTransactionID(ctx, "VNPAY-TX-100")
		require.NoError(t, err)
		assert.Equal(t, payment.ID, found.ID)
	})

	t.Run("unknown reference returns not found", func(t *testing.T) {
		_, err := repo.FindByGatewayTransactionID(ctx, "VNPAY-TX-000")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormPaymentRepository_FindPaidBetween(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	now := time.Now()
	inside := createPayment(t, uuid.New())
	_, err := inside.MarkPaid("TX-IN", now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inside))

	outside := createPayment(t, uuid.New())
	_, err = outside.MarkPaid("TX-OUT", now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, outside))

	unpaid := createPayment(t, uuid.New())
	require.NoError(t, repo.Save(ctx, unpaid))

	payments, err := repo.FindPaidBetween(ctx, now.Add(-72*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "TX-IN", payments[0].GatewayTransactionID)
}

package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGormDB creates a GORM connection backed by sqlmock so the generated
// SQL, including FOR UPDATE clauses, can be asserted directly.
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormProductRepository_FindByIDsForUpdate(t *testing.T) {
	t.Run("locks rows in ascending ID order", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(db)

		firstID := uuid.New()
		secondID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "sku", "name", "price", "stock_quantity", "is_active", "version"}).
			AddRow(firstID, "MUG-001", "Ceramic Mug", decimal.NewFromInt(50000), int64(10), true, int64(1)).
			AddRow(secondID, "MUG-002", "Travel Mug", decimal.NewFromInt(70000), int64(4), true, int64(1))

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id IN \(\$1,\$2\) ORDER BY id ASC FOR UPDATE`).
			WithArgs(firstID, secondID).
			WillReturnRows(rows)

		products, err := repo.FindByIDsForUpdate(context.Background(), []uuid.UUID{firstID, secondID})

		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "MUG-001", products[0].SKU)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty input skips the query", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(db)

		products, err := repo.FindByIDsForUpdate(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the order row then loads associations", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		orderID := uuid.New()
		userID := uuid.New()

		orderRows := sqlmock.NewRows([]string{"id", "order_number", "user_id", "status", "subtotal", "discount_amount", "total_amount", "version"}).
			AddRow(orderID, "SO-20260830-000001", userID, "PENDING", decimal.NewFromInt(100000), decimal.Zero, decimal.NewFromInt(100000), int64(1))

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(orderID, 1).
			WillReturnRows(orderRows)
		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE order_id = \$1`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity"}).
				AddRow(uuid.New(), orderID, uuid.New(), int64(2)))
		mock.ExpectQuery(`SELECT \* FROM "order_status_histories" WHERE order_id = \$1 ORDER BY changed_at ASC`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "to_status"}).
				AddRow(uuid.New(), orderID, "PENDING"))

		order, err := repo.FindByIDForUpdate(context.Background(), orderID)

		require.NoError(t, err)
		assert.Equal(t, "SO-20260830-000001", order.OrderNumber)
		assert.Len(t, order.Items, 1)
		assert.Len(t, order.StatusHistory, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing order returns not found", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByIDForUpdate(context.Background(), orderID)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the payment row", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormPaymentRepository(db)

		paymentID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "order_id", "status", "gateway", "amount", "currency", "attempt_count", "version"}).
			AddRow(paymentID, uuid.New(), "PENDING", "momo", decimal.NewFromInt(150000), "VND", int64(1), int64(1))

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(paymentID, 1).
			WillReturnRows(rows)

		payment, err := repo.FindByIDForUpdate(context.Background(), paymentID)

		require.NoError(t, err)
		assert.Equal(t, "momo", payment.Gateway)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockReceiptRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the receipt row then loads items", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormStockReceiptRepository(db)

		receiptID := uuid.New()
		receiptRows := sqlmock.NewRows([]string{"id", "receipt_number", "supplier_name", "status", "version"}).
			AddRow(receiptID, "GR-20260830-000001", "ACME Supplies", "PENDING", int64(1))

		mock.ExpectQuery(`SELECT \* FROM "stock_receipts" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(receiptID, 1).
			WillReturnRows(receiptRows)
		mock.ExpectQuery(`SELECT \* FROM "stock_receipt_items" WHERE receipt_id = \$1`).
			WithArgs(receiptID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "receipt_id", "product_id", "quantity"}).
				AddRow(uuid.New(), receiptID, uuid.New(), int64(20)))

		receipt, err := repo.FindByIDForUpdate(context.Background(), receiptID)

		require.NoError(t, err)
		assert.Equal(t, "GR-20260830-000001", receipt.ReceiptNumber)
		assert.Len(t, receipt.Items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

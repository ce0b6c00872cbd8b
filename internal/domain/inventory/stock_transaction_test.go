package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeType_IsValid(t *testing.T) {
	tests := []struct {
		changeType ChangeType
		isValid    bool
	}{
		{ChangeTypeSale, true},
		{ChangeTypeReturn, true},
		{ChangeTypeReceipt, true},
		{ChangeTypeAdjustment, true},
		{ChangeTypeCorrection, true},
		{ChangeType("PURCHASE"), false},
		{ChangeType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.changeType), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.changeType.IsValid())
		})
	}
}

func TestNewStockTransaction(t *testing.T) {
	productID := uuid.New()

	txn, err := NewStockTransaction(productID, -5, 20, 15, ChangeTypeSale, "Order SO-1", "user-1")
	require.NoError(t, err)

	assert.Equal(t, productID, txn.ProductID)
	assert.Equal(t, int64(-5), txn.QuantityChange)
	assert.Equal(t, int64(20), txn.BalanceBefore)
	assert.Equal(t, int64(15), txn.BalanceAfter)
	assert.False(t, txn.TransactionDate.IsZero())
}

func TestNewStockTransaction_Rejections(t *testing.T) {
	productID := uuid.New()

	_, err := NewStockTransaction(uuid.Nil, 5, 0, 5, ChangeTypeReceipt, "", "")
	assert.Error(t, err, "nil product")

	_, err = NewStockTransaction(productID, 0, 5, 5, ChangeTypeAdjustment, "", "")
	assert.Error(t, err, "zero delta")

	_, err = NewStockTransaction(productID, 5, 0, 5, ChangeType("BOGUS"), "", "")
	assert.Error(t, err, "bad change type")
}

func TestStockTransaction_ClampSemantics(t *testing.T) {
	productID := uuid.New()

	t.Run("unclamped decrement", func(t *testing.T) {
		txn, err := NewStockTransaction(productID, -5, 20, 15, ChangeTypeSale, "", "")
		require.NoError(t, err)
		assert.Equal(t, int64(-5), txn.EffectiveChange())
		assert.False(t, txn.WasClamped())
	})

	t.Run("clamped at zero keeps requested delta", func(t *testing.T) {
		// Requested -10 against a balance of 3: balance floors at 0,
		// effective change is only -3, the log still says -10.
		txn, err := NewStockTransaction(productID, -10, 3, 0, ChangeTypeAdjustment, "", "")
		require.NoError(t, err)
		assert.Equal(t, int64(-10), txn.QuantityChange)
		assert.Equal(t, int64(-3), txn.EffectiveChange())
		assert.True(t, txn.WasClamped())
	})

	t.Run("correction leaves balance untouched", func(t *testing.T) {
		txn, err := NewStockTransaction(productID, -7, 12, 12, ChangeTypeCorrection, "counted elsewhere", "auditor")
		require.NoError(t, err)
		assert.Equal(t, int64(0), txn.EffectiveChange())
		assert.True(t, txn.WasClamped())
	})

	t.Run("increase", func(t *testing.T) {
		txn, err := NewStockTransaction(productID, 8, 2, 10, ChangeTypeReceipt, "", "")
		require.NoError(t, err)
		assert.True(t, txn.IsIncrease())
		assert.False(t, txn.WasClamped())
	})
}

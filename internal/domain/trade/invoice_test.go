package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoice_Finalize(t *testing.T) {
	engine := NewPricingEngine()

	t.Run("computes server-side totals from priced lines", func(t *testing.T) {
		inv := createTestInvoice(t, decimal.NewFromInt(10), decimal.NewFromInt(5))
		require.NoError(t, inv.AddItem(engine, uuid.New(), uuid.New(), uuid.New(),
			decimal.NewFromInt(2), decimal.NewFromInt(100),
			decimal.NewFromInt(10), decimal.NewFromInt(5)))

		require.NoError(t, inv.Finalize(engine))

		assert.Equal(t, "231.00", inv.Subtotal.StringFixed(2))
		assert.Equal(t, "236.00", inv.GrandTotal.StringFixed(2))
		assert.Equal(t, "236.00", inv.OutstandingBalance.StringFixed(2))
		assert.Equal(t, InvoiceUnpaid, inv.Status)
	})

	t.Run("rejects an empty invoice", func(t *testing.T) {
		inv := createTestInvoice(t, decimal.Zero, decimal.Zero)
		assert.Error(t, inv.Finalize(engine))
	})

	t.Run("rejects a discount exceeding the invoice value", func(t *testing.T) {
		inv := createTestInvoice(t, decimal.Zero, decimal.NewFromInt(500))
		require.NoError(t, inv.AddItem(engine, uuid.New(), uuid.New(), uuid.New(),
			decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero, decimal.Zero))

		assertTradeError(t, inv.Finalize(engine), "VALIDATION_ERROR")
	})
}

func TestInvoice_ReduceOutstanding(t *testing.T) {
	engine := NewPricingEngine()
	inv := createTestInvoice(t, decimal.Zero, decimal.Zero)
	require.NoError(t, inv.AddItem(engine, uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(1), decimal.NewFromInt(200), decimal.Zero, decimal.Zero))
	require.NoError(t, inv.Finalize(engine))

	t.Run("partial reduction moves to partially paid", func(t *testing.T) {
		require.NoError(t, inv.ReduceOutstanding(decimal.NewFromInt(50)))

		assert.Equal(t, "150.00", inv.OutstandingBalance.StringFixed(2))
		assert.Equal(t, InvoicePartiallyPaid, inv.Status)
	})

	t.Run("reduction beyond the balance floors at zero and pays off", func(t *testing.T) {
		require.NoError(t, inv.ReduceOutstanding(decimal.NewFromInt(500)))

		assert.True(t, inv.OutstandingBalance.IsZero())
		assert.Equal(t, InvoicePaid, inv.Status)
	})

	t.Run("negative reduction is rejected", func(t *testing.T) {
		assert.Error(t, inv.ReduceOutstanding(decimal.NewFromInt(-1)))
	})
}

func TestInvoiceItem_RecordReturn(t *testing.T) {
	engine := NewPricingEngine()
	inv := createTestInvoice(t, decimal.Zero, decimal.Zero)
	require.NoError(t, inv.AddItem(engine, uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(10), decimal.NewFromInt(20), decimal.Zero, decimal.Zero))
	item := &inv.Items[0]

	require.NoError(t, item.RecordReturn(decimal.NewFromInt(4)))
	assert.Equal(t, "6", item.Returnable().String())

	err := item.RecordReturn(decimal.NewFromInt(7))
	assertTradeError(t, err, "INVALID_RETURN_QUANTITY")
}

func TestInvoice_ItemByID(t *testing.T) {
	engine := NewPricingEngine()
	inv := createTestInvoice(t, decimal.Zero, decimal.Zero)
	require.NoError(t, inv.AddItem(engine, uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.Zero, decimal.Zero))

	found, err := inv.ItemByID(inv.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, inv.Items[0].ID, found.ID)

	_, err = inv.ItemByID(uuid.New())
	assertTradeError(t, err, "NOT_FOUND")
}

// Helpers

func createTestInvoice(t *testing.T, tax, discount decimal.Decimal) *Invoice {
	t.Helper()
	inv, err := NewInvoice("INV-"+uuid.NewString()[:8], uuid.New(), uuid.New(), nil, tax, discount, "")
	require.NoError(t, err)
	return inv
}

package trade

import (
	"testing"
	"time"

	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementCalculator_Calculate(t *testing.T) {
	calc := NewSettlementCalculator()

	t.Run("accepts remaining within the unsold quantity", func(t *testing.T) {
		delivery := createTestDelivery(t, 50, 30)

		result, err := calc.Calculate(delivery, []SettlementInput{{
			DeliveryItemID:    delivery.Items[0].ID,
			RemainingQuantity: decimal.NewFromInt(20),
			MarginEarned:      decimal.NewFromFloat(75.50),
		}})

		require.NoError(t, err)
		assert.Len(t, result.Lines, 1)
		assert.Equal(t, "20", result.TotalReturning.String())
		assert.Equal(t, "75.5", result.TotalMargin.String())
	})

	t.Run("rejects remaining beyond delivered minus sold", func(t *testing.T) {
		delivery := createTestDelivery(t, 50, 30)

		_, err := calc.Calculate(delivery, []SettlementInput{{
			DeliveryItemID:    delivery.Items[0].ID,
			RemainingQuantity: decimal.NewFromInt(21),
			MarginEarned:      decimal.Zero,
		}})

		assertTradeError(t, err, "VALIDATION_ERROR")
	})

	t.Run("rejects negative margin", func(t *testing.T) {
		delivery := createTestDelivery(t, 50, 30)

		_, err := calc.Calculate(delivery, []SettlementInput{{
			DeliveryItemID:    delivery.Items[0].ID,
			RemainingQuantity: decimal.NewFromInt(10),
			MarginEarned:      decimal.NewFromInt(-1),
		}})

		assertTradeError(t, err, "VALIDATION_ERROR")
	})

	t.Run("rejects an unknown delivery item", func(t *testing.T) {
		delivery := createTestDelivery(t, 50, 30)

		_, err := calc.Calculate(delivery, []SettlementInput{{
			DeliveryItemID:    uuid.New(),
			RemainingQuantity: decimal.NewFromInt(1),
		}})

		assertTradeError(t, err, "NOT_FOUND")
	})

	t.Run("rejects duplicate inputs for one item", func(t *testing.T) {
		delivery := createTestDelivery(t, 50, 30)
		input := SettlementInput{
			DeliveryItemID:    delivery.Items[0].ID,
			RemainingQuantity: decimal.NewFromInt(5),
		}

		_, err := calc.Calculate(delivery, []SettlementInput{input, input})

		assertTradeError(t, err, "VALIDATION_ERROR")
	})

	t.Run("rejects an already settled delivery", func(t *testing.T) {
		delivery := createTestDelivery(t, 50, 30)
		require.NoError(t, delivery.MarkSettled())

		_, err := calc.Calculate(delivery, []SettlementInput{{
			DeliveryItemID:    delivery.Items[0].ID,
			RemainingQuantity: decimal.NewFromInt(1),
		}})

		assertTradeError(t, err, "ALREADY_SETTLED")
	})
}

func TestSettlementCalculator_Apply(t *testing.T) {
	calc := NewSettlementCalculator()

	t.Run("writes lines and flips the delivery to settled", func(t *testing.T) {
		delivery := createTestDelivery(t, 50, 30)
		result, err := calc.Calculate(delivery, []SettlementInput{{
			DeliveryItemID:    delivery.Items[0].ID,
			RemainingQuantity: decimal.NewFromInt(20),
			MarginEarned:      decimal.NewFromFloat(75.50),
		}})
		require.NoError(t, err)

		settlement, err := calc.Apply(delivery, result, "trip 14 reconciliation")

		require.NoError(t, err)
		assert.True(t, delivery.IsSettled())
		assert.NotNil(t, delivery.SettledAt)
		assert.Equal(t, "20", delivery.Items[0].RemainingQuantity.String())
		assert.Equal(t, "75.5", delivery.Items[0].MarginEarned.String())
		assert.Equal(t, delivery.ID, settlement.DeliveryID)
		assert.Equal(t, "20", settlement.TotalReturning.String())
		assert.Equal(t, "75.5", settlement.TotalMargin.String())
	})

	t.Run("second application is rejected", func(t *testing.T) {
		delivery := createTestDelivery(t, 50, 30)
		result, err := calc.Calculate(delivery, []SettlementInput{{
			DeliveryItemID:    delivery.Items[0].ID,
			RemainingQuantity: decimal.NewFromInt(20),
		}})
		require.NoError(t, err)

		_, err = calc.Apply(delivery, result, "")
		require.NoError(t, err)

		_, err = calc.Apply(delivery, result, "")
		assertTradeError(t, err, "ALREADY_SETTLED")
	})
}

func TestDelivery_RecordSale(t *testing.T) {
	delivery := createTestDelivery(t, 50, 0)
	batchID := delivery.Items[0].BatchID

	require.NoError(t, delivery.RecordSale(batchID, decimal.NewFromInt(30)))
	assert.Equal(t, "30", delivery.Items[0].SoldQuantity.String())

	t.Run("sale beyond delivered is rejected", func(t *testing.T) {
		err := delivery.RecordSale(batchID, decimal.NewFromInt(21))
		assertTradeError(t, err, "INSUFFICIENT_ALLOCATED_STOCK")
	})

	t.Run("settled delivery is immutable", func(t *testing.T) {
		require.NoError(t, delivery.MarkSettled())
		err := delivery.RecordSale(batchID, decimal.NewFromInt(1))
		assertTradeError(t, err, "ALREADY_SETTLED")
	})
}

// Helpers

func createTestDelivery(t *testing.T, delivered, sold int64) *Delivery {
	t.Helper()
	delivery, err := NewDelivery("D-"+uuid.NewString()[:8], uuid.New(), time.Now())
	require.NoError(t, err)
	require.NoError(t, delivery.AddItem(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(delivered)))
	if sold > 0 {
		require.NoError(t, delivery.RecordSale(delivery.Items[0].BatchID, decimal.NewFromInt(sold)))
	}
	return delivery
}

func assertTradeError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

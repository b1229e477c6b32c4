package trade

import (
	"testing"

	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/fieldsale/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnCalculator_Calculate(t *testing.T) {
	calc := NewReturnCalculator(DefaultDeductionRates())

	t.Run("defective stock loses half its value", func(t *testing.T) {
		comp, err := calc.Calculate(
			decimal.NewFromInt(3),
			decimal.NewFromInt(100),
			decimal.NewFromInt(3),
			ledger.QualityDefective,
			nil,
		)

		require.NoError(t, err)
		assert.Equal(t, "300.00", comp.BaseAmount.StringFixed(2))
		assert.Equal(t, "150.00", comp.QualityDeduction.StringFixed(2))
		assert.Equal(t, "150.00", comp.TotalAmount.StringFixed(2))
		assert.Equal(t, valueobject.DefaultCurrency, comp.TotalAmount.Currency())
		assert.Equal(t, MarginSourceUnknown, comp.MarginSource)
	})

	t.Run("warning stock is deducted ten percent", func(t *testing.T) {
		comp, err := calc.Calculate(
			decimal.NewFromInt(5),
			decimal.NewFromInt(100),
			decimal.NewFromInt(30),
			ledger.QualityWarning,
			nil,
		)

		require.NoError(t, err)
		assert.Equal(t, "450.00", comp.TotalAmount.StringFixed(2))
	})

	t.Run("good stock returns at full value", func(t *testing.T) {
		comp, err := calc.Calculate(
			decimal.NewFromInt(2),
			decimal.NewFromFloat(12.50),
			decimal.NewFromInt(2),
			ledger.QualityGood,
			nil,
		)

		require.NoError(t, err)
		assert.True(t, comp.QualityDeduction.IsZero())
		assert.Equal(t, "25.00", comp.TotalAmount.StringFixed(2))
	})

	t.Run("recalled stock returns nothing", func(t *testing.T) {
		comp, err := calc.Calculate(
			decimal.NewFromInt(4),
			decimal.NewFromInt(50),
			decimal.NewFromInt(4),
			ledger.QualityRecalled,
			nil,
		)

		require.NoError(t, err)
		assert.True(t, comp.TotalAmount.IsZero())
		assert.Equal(t, "200.00", comp.QualityDeduction.StringFixed(2))
	})

	t.Run("cost price yields the shop margin breakdown", func(t *testing.T) {
		cost := decimal.NewFromInt(80)
		comp, err := calc.Calculate(
			decimal.NewFromInt(3),
			decimal.NewFromInt(100),
			decimal.NewFromInt(3),
			ledger.QualityGood,
			&cost,
		)

		require.NoError(t, err)
		assert.Equal(t, "60.00", comp.ShopMarginAmount.StringFixed(2))
		assert.Equal(t, MarginSourceShop, comp.MarginSource)
	})

	t.Run("quantity beyond returnable is rejected", func(t *testing.T) {
		_, err := calc.Calculate(
			decimal.NewFromInt(4),
			decimal.NewFromInt(100),
			decimal.NewFromInt(3),
			ledger.QualityGood,
			nil,
		)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_RETURN_QUANTITY", de.Code)
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		_, err := calc.Calculate(decimal.Zero, decimal.NewFromInt(100), decimal.NewFromInt(3), ledger.QualityGood, nil)
		assert.Error(t, err)
	})
}

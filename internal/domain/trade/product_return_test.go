package trade

import (
	"testing"

	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturn_Approve(t *testing.T) {
	calc := NewReturnCalculator(DefaultDeductionRates())
	comp, err := calc.Calculate(
		decimal.NewFromInt(3),
		decimal.NewFromInt(100),
		decimal.NewFromInt(3),
		ledger.QualityDefective,
		nil,
	)
	require.NoError(t, err)

	ret, err := NewReturn(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(3), "damaged in transit", comp)
	require.NoError(t, err)
	assert.False(t, ret.Approved)
	assert.Equal(t, "150.00", ret.TotalAmount.StringFixed(2))

	t.Run("approval is one-way", func(t *testing.T) {
		require.NoError(t, ret.Approve())

		assert.True(t, ret.Approved)
		assert.NotNil(t, ret.ApprovedAt)

		err := ret.Approve()
		assertTradeError(t, err, "ALREADY_APPROVED")
	})
}

func TestNewReturn_Validation(t *testing.T) {
	calc := NewReturnCalculator(DefaultDeductionRates())
	comp, err := calc.Calculate(decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.NewFromInt(1), ledger.QualityGood, nil)
	require.NoError(t, err)

	_, err = NewReturn(uuid.Nil, uuid.New(), uuid.New(), decimal.NewFromInt(1), "reason", comp)
	assert.Error(t, err)

	_, err = NewReturn(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(1), "", comp)
	assert.Error(t, err)

	_, err = NewReturn(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(1), "reason", nil)
	assert.Error(t, err)
}

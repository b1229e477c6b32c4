package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Add(t *testing.T) {
	t.Run("adds amounts with matching currencies", func(t *testing.T) {
		a := NewDefaultMoney(decimal.NewFromFloat(10.50))
		b := NewDefaultMoney(decimal.NewFromFloat(4.25))

		sum, err := a.Add(b)

		require.NoError(t, err)
		assert.Equal(t, "14.75", sum.StringFixed(2))
	})

	t.Run("rejects mismatched currencies", func(t *testing.T) {
		a, _ := NewMoney(decimal.NewFromInt(10), USD)
		b, _ := NewMoney(decimal.NewFromInt(10), EUR)

		_, err := a.Add(b)

		assert.Error(t, err)
	})
}

func TestMoney_Subtract(t *testing.T) {
	a := NewDefaultMoney(decimal.NewFromInt(100))
	b := NewDefaultMoney(decimal.NewFromInt(150))

	diff, err := a.Subtract(b)

	require.NoError(t, err)
	assert.True(t, diff.IsNegative())
	assert.Equal(t, "-50.00", diff.StringFixed(2))
}

func TestMoney_CalculatePercentage(t *testing.T) {
	m := NewDefaultMoney(decimal.NewFromInt(300))

	half := m.CalculatePercentage(decimal.NewFromInt(50))

	assert.Equal(t, "150.00", half.StringFixed(2))
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewDefaultMoney(decimal.NewFromFloat(231.00))

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("115.50"))

	assert.Equal(t, "115.50", m.StringFixed(2))
	assert.Equal(t, DefaultCurrency, m.Currency())
}

func TestNewMoney_EmptyCurrency(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(1), "")
	assert.Error(t, err)
}

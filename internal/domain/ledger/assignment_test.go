package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSalesmanAssignment(t *testing.T) {
	t.Run("starts pending with zero counters", func(t *testing.T) {
		a, err := NewSalesmanAssignment(uuid.New(), uuid.New())

		require.NoError(t, err)
		assert.Equal(t, AssignmentPending, a.Status)
		assert.True(t, a.Outstanding().IsZero())
		assert.True(t, a.Returnable().IsZero())
	})

	t.Run("rejects empty IDs", func(t *testing.T) {
		_, err := NewSalesmanAssignment(uuid.Nil, uuid.New())
		assert.Error(t, err)

		_, err = NewSalesmanAssignment(uuid.New(), uuid.Nil)
		assert.Error(t, err)
	})
}

func TestSalesmanAssignment_Lifecycle(t *testing.T) {
	a, err := NewSalesmanAssignment(uuid.New(), uuid.New())
	require.NoError(t, err)

	t.Run("first allocation confirms delivery", func(t *testing.T) {
		require.NoError(t, a.Allocate(decimal.NewFromInt(40)))

		assert.Equal(t, AssignmentDelivered, a.Status)
		assert.True(t, a.DeliveredQuantity.Equal(decimal.NewFromInt(40)))
		assert.True(t, a.Outstanding().Equal(decimal.NewFromInt(40)))
	})

	t.Run("partial sale leaves outstanding stock", func(t *testing.T) {
		require.NoError(t, a.RecordSale(decimal.NewFromInt(30)))

		assert.Equal(t, AssignmentPartial, a.Status)
		assert.True(t, a.Outstanding().Equal(decimal.NewFromInt(10)))
		assert.True(t, a.Returnable().Equal(decimal.NewFromInt(30)))
	})

	t.Run("sale beyond outstanding is rejected", func(t *testing.T) {
		err := a.RecordSale(decimal.NewFromInt(11))
		assertDomainError(t, err, "INSUFFICIENT_ALLOCATED_STOCK")
	})

	t.Run("return beyond returnable is rejected", func(t *testing.T) {
		err := a.RecordReturn(decimal.NewFromInt(31))
		assertDomainError(t, err, "INVALID_RETURN_QUANTITY")
	})

	t.Run("return reduces returnable", func(t *testing.T) {
		require.NoError(t, a.RecordReturn(decimal.NewFromInt(5)))
		assert.True(t, a.Returnable().Equal(decimal.NewFromInt(25)))
	})

	t.Run("settle is terminal and not repeatable", func(t *testing.T) {
		require.NoError(t, a.Settle())

		assert.Equal(t, AssignmentSettled, a.Status)
		assert.NotNil(t, a.SettledAt)

		err := a.Settle()
		assertDomainError(t, err, "ALREADY_SETTLED")

		assert.Error(t, a.Allocate(decimal.NewFromInt(1)))
		assert.Error(t, a.RecordSale(decimal.NewFromInt(1)))
		assert.Error(t, a.RecordReturn(decimal.NewFromInt(1)))
	})
}

func TestAssignmentStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, AssignmentPending.CanTransitionTo(AssignmentDelivered))
	assert.True(t, AssignmentDelivered.CanTransitionTo(AssignmentPartial))
	assert.True(t, AssignmentDelivered.CanTransitionTo(AssignmentSettled))
	assert.True(t, AssignmentPartial.CanTransitionTo(AssignmentSettled))

	assert.False(t, AssignmentPending.CanTransitionTo(AssignmentSettled))
	assert.False(t, AssignmentSettled.CanTransitionTo(AssignmentDelivered))
	assert.False(t, AssignmentSettled.CanTransitionTo(AssignmentPartial))
}

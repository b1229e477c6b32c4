package trade

import (
	"context"
	"testing"
	"time"

	"github.com/fieldsale/backend/internal/domain/catalog"
	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementService_CreateDelivery(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := NewSettlementService(f.txScope, f.products, nil)
	product := seedProduct(t, f)
	batch := seedBatch(t, f, product.ID, 100, time.Now().Add(-48*time.Hour))
	salesmanID := uuid.New()

	resp, err := svc.CreateDelivery(ctx, &CreateDeliveryRequest{
		DeliveryNumber: "D-1001",
		SalesmanID:     salesmanID,
		Items: []CreateDeliveryItemRequest{
			{BatchID: batch.ID, Quantity: decimal.NewFromInt(40)},
		},
	})

	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.True(t, batch.CurrentQuantity.Equal(decimal.NewFromInt(60)))

	assignment, err := f.assignments.FindByBatchAndSalesman(ctx, batch.ID, salesmanID)
	require.NoError(t, err)
	assert.True(t, assignment.DeliveredQuantity.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, ledger.AssignmentDelivered, assignment.Status)

	t.Run("allocation beyond batch stock fails the whole delivery", func(t *testing.T) {
		_, err := svc.CreateDelivery(ctx, &CreateDeliveryRequest{
			DeliveryNumber: "D-1002",
			SalesmanID:     salesmanID,
			Items: []CreateDeliveryItemRequest{
				{BatchID: batch.ID, Quantity: decimal.NewFromInt(61)},
			},
		})

		assertServiceError(t, err, "INSUFFICIENT_STOCK")
		assert.True(t, batch.CurrentQuantity.Equal(decimal.NewFromInt(60)))
	})
}

func TestSettlementService_SettleDelivery(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	settleSvc := NewSettlementService(f.txScope, f.products, nil)
	invoiceSvc := NewInvoiceService(f.txScope, f.products)
	product := seedProduct(t, f)
	batch := seedBatch(t, f, product.ID, 100, time.Now().Add(-48*time.Hour))
	salesmanID := uuid.New()

	delivery, err := settleSvc.CreateDelivery(ctx, &CreateDeliveryRequest{
		DeliveryNumber: "D-2001",
		SalesmanID:     salesmanID,
		Items: []CreateDeliveryItemRequest{
			{BatchID: batch.ID, Quantity: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	_, err = invoiceSvc.CreateInvoice(ctx, &CreateInvoiceRequest{
		InvoiceNumber: "INV-2001",
		ShopID:        uuid.New(),
		SalesmanID:    salesmanID,
		Items: []CreateInvoiceItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(30), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	sheet, err := settleSvc.GetSettlementData(ctx, delivery.DeliveryID)
	require.NoError(t, err)
	require.Len(t, sheet.Items, 1)
	assert.True(t, sheet.Items[0].SoldQuantity.Equal(decimal.NewFromInt(30)))

	t.Run("settles and flips everything terminal", func(t *testing.T) {
		resp, err := settleSvc.SettleDelivery(ctx, delivery.DeliveryID, &SettleDeliveryRequest{
			SettlementNotes: "trip closed",
			Items: []SettleDeliveryItemRequest{{
				DeliveryItemID:    sheet.Items[0].DeliveryItemID,
				RemainingQuantity: decimal.NewFromInt(20),
				MarginEarned:      decimal.NewFromFloat(75.50),
			}},
		})

		require.NoError(t, err)
		assert.Equal(t, "20", resp.TotalReturning.String())
		assert.Equal(t, "75.5", resp.TotalMargin.String())

		// 100 - 50 delivered + 20 restored
		assert.True(t, batch.CurrentQuantity.Equal(decimal.NewFromInt(70)))
		assert.NoError(t, batch.Invariant())

		assignment, err := f.assignments.FindByBatchAndSalesman(ctx, batch.ID, salesmanID)
		require.NoError(t, err)
		assert.True(t, assignment.IsSettled())

		stored, err := f.deliveries.FindByID(ctx, delivery.DeliveryID)
		require.NoError(t, err)
		assert.True(t, stored.IsSettled())
	})

	t.Run("second settlement is rejected with no mutation", func(t *testing.T) {
		before := batch.CurrentQuantity

		_, err := settleSvc.SettleDelivery(ctx, delivery.DeliveryID, &SettleDeliveryRequest{
			Items: []SettleDeliveryItemRequest{{
				DeliveryItemID:    sheet.Items[0].DeliveryItemID,
				RemainingQuantity: decimal.NewFromInt(20),
			}},
		})

		assertServiceError(t, err, "ALREADY_SETTLED")
		assert.True(t, batch.CurrentQuantity.Equal(before))
	})
}

func TestSettlementService_SettleDeliveryRepeatedBatch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := NewSettlementService(f.txScope, f.products, nil)
	product := seedProduct(t, f)
	batch := seedBatch(t, f, product.ID, 100, time.Now().Add(-48*time.Hour))
	salesmanID := uuid.New()

	// Two delivery lines draw from the same batch, so both feed the
	// same salesman assignment.
	delivery, err := svc.CreateDelivery(ctx, &CreateDeliveryRequest{
		DeliveryNumber: "D-7001",
		SalesmanID:     salesmanID,
		Items: []CreateDeliveryItemRequest{
			{BatchID: batch.ID, Quantity: decimal.NewFromInt(20)},
			{BatchID: batch.ID, Quantity: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	require.Len(t, delivery.Items, 2)

	resp, err := svc.SettleDelivery(ctx, delivery.DeliveryID, &SettleDeliveryRequest{
		Items: []SettleDeliveryItemRequest{
			{DeliveryItemID: delivery.Items[0].DeliveryItemID, RemainingQuantity: decimal.NewFromInt(20)},
			{DeliveryItemID: delivery.Items[1].DeliveryItemID, RemainingQuantity: decimal.NewFromInt(10)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "30", resp.TotalReturning.String())

	assert.True(t, batch.CurrentQuantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, batch.AllocatedQuantity.IsZero())
	assert.NoError(t, batch.Invariant())

	assignment, err := f.assignments.FindByBatchAndSalesman(ctx, batch.ID, salesmanID)
	require.NoError(t, err)
	assert.True(t, assignment.IsSettled())

	stored, err := f.deliveries.FindByID(ctx, delivery.DeliveryID)
	require.NoError(t, err)
	assert.True(t, stored.IsSettled())
}

func TestSettlementService_SettleDeliveryAllOrNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := NewSettlementService(f.txScope, f.products, nil)
	product := seedProduct(t, f)
	batchA := seedBatch(t, f, product.ID, 100, time.Now().Add(-72*time.Hour))
	batchB := seedBatch(t, f, product.ID, 100, time.Now().Add(-24*time.Hour))
	salesmanID := uuid.New()

	delivery, err := svc.CreateDelivery(ctx, &CreateDeliveryRequest{
		DeliveryNumber: "D-3001",
		SalesmanID:     salesmanID,
		Items: []CreateDeliveryItemRequest{
			{BatchID: batchA.ID, Quantity: decimal.NewFromInt(30)},
			{BatchID: batchB.ID, Quantity: decimal.NewFromInt(30)},
		},
	})
	require.NoError(t, err)

	// First line valid, second line exceeds its unsold quantity: the
	// validation pass rejects the whole settlement before any ledger move.
	_, err = svc.SettleDelivery(ctx, delivery.DeliveryID, &SettleDeliveryRequest{
		Items: []SettleDeliveryItemRequest{
			{DeliveryItemID: delivery.Items[0].DeliveryItemID, RemainingQuantity: decimal.NewFromInt(10)},
			{DeliveryItemID: delivery.Items[1].DeliveryItemID, RemainingQuantity: decimal.NewFromInt(31)},
		},
	})

	assertServiceError(t, err, "VALIDATION_ERROR")
	assert.True(t, batchA.CurrentQuantity.Equal(decimal.NewFromInt(70)))
	assert.True(t, batchB.CurrentQuantity.Equal(decimal.NewFromInt(70)))

	stored, err := f.deliveries.FindByID(ctx, delivery.DeliveryID)
	require.NoError(t, err)
	assert.False(t, stored.IsSettled())
}

// Helpers shared by the service tests

func seedProduct(t *testing.T, f *fixture) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("Mineral Water 1.5L", "SKU-"+uuid.NewString()[:8], "bottle",
		decimal.NewFromInt(100), decimal.NewFromInt(80))
	require.NoError(t, err)
	require.NoError(t, f.products.Save(context.Background(), product))
	return product
}

func seedBatch(t *testing.T, f *fixture, productID uuid.UUID, quantity int64, manufactured time.Time) *ledger.Batch {
	t.Helper()
	expiry := time.Now().Add(365 * 24 * time.Hour)
	batch, err := ledger.NewBatch(productID, "B-"+uuid.NewString()[:8], decimal.NewFromInt(quantity), manufactured, &expiry)
	require.NoError(t, err)
	require.NoError(t, f.batches.Save(context.Background(), batch))
	return batch
}

func assertServiceError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByInvoiceNumber finds an invoice by its number
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)

	// FindByBatch finds invoices holding at least one item from the batch,
	// invoice date ascending
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]Invoice, error)

	// Save creates or updates an invoice and its items
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, invoice *Invoice) error
}

// DeliveryRepository defines the interface for delivery persistence
type DeliveryRepository interface {
	// FindByID finds a delivery with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Delivery, error)

	// FindBySalesman finds deliveries for a salesman, newest first
	FindBySalesman(ctx context.Context, salesmanID uuid.UUID) ([]Delivery, error)

	// FindUnsettledBefore finds pending deliveries older than the given time
	FindUnsettledBefore(ctx context.Context, t time.Time) ([]Delivery, error)

	// Save creates or updates a delivery and its items
	Save(ctx context.Context, delivery *Delivery) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, delivery *Delivery) error

	// SaveSettlement persists the settlement record; the unique index on
	// delivery_id rejects a second settlement for the same delivery
	SaveSettlement(ctx context.Context, settlement *Settlement) error

	// FindSettlementByDelivery finds the settlement for a delivery
	FindSettlementByDelivery(ctx context.Context, deliveryID uuid.UUID) (*Settlement, error)
}

// ReturnRepository defines the interface for return persistence
type ReturnRepository interface {
	// FindByID finds a return by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Return, error)

	// FindByBatch finds approved returns for a batch, oldest first
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]Return, error)

	// FindByInvoice finds returns raised against an invoice
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Return, error)

	// Save creates or updates a return
	Save(ctx context.Context, ret *Return) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, ret *Return) error
}

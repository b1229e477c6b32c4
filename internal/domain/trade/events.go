package trade

import (
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for trade
const (
	EventInvoiceCreated   = "trade.invoice_created"
	EventDeliverySettled  = "trade.delivery_settled"
	EventReturnApproved   = "trade.return_approved"
)

// InvoiceCreatedEvent is emitted when an invoice is finalized
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	ShopID        uuid.UUID       `json:"shop_id"`
	SalesmanID    uuid.UUID       `json:"salesman_id"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	ItemCount     int             `json:"item_count"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceCreated, "Invoice", inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		ShopID:          inv.ShopID,
		SalesmanID:      inv.SalesmanID,
		GrandTotal:      inv.GrandTotal,
		ItemCount:       len(inv.Items),
	}
}

// DeliverySettledEvent is emitted when a delivery is reconciled
type DeliverySettledEvent struct {
	shared.BaseDomainEvent
	DeliveryNumber string          `json:"delivery_number"`
	SalesmanID     uuid.UUID       `json:"salesman_id"`
	TotalReturning decimal.Decimal `json:"total_returning"`
	TotalMargin    decimal.Decimal `json:"total_margin"`
}

// NewDeliverySettledEvent creates a new DeliverySettledEvent
func NewDeliverySettledEvent(d *Delivery, s *Settlement) *DeliverySettledEvent {
	return &DeliverySettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDeliverySettled, "Delivery", d.ID),
		DeliveryNumber:  d.DeliveryNumber,
		SalesmanID:      d.SalesmanID,
		TotalReturning:  s.TotalReturning,
		TotalMargin:     s.TotalMargin,
	}
}

// ReturnApprovedEvent is emitted when a return is approved
type ReturnApprovedEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	BatchID     uuid.UUID       `json:"batch_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Reason      string          `json:"reason"`
}

// NewReturnApprovedEvent creates a new ReturnApprovedEvent
func NewReturnApprovedEvent(r *Return) *ReturnApprovedEvent {
	return &ReturnApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventReturnApproved, "Return", r.ID),
		InvoiceID:       r.InvoiceID,
		BatchID:         r.BatchID,
		Quantity:        r.Quantity,
		TotalAmount:     r.TotalAmount.Amount(),
		Reason:          r.Reason,
	}
}

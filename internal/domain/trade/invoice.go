package trade

import (
	"fmt"
	"time"

	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment lifecycle of an invoice
type InvoiceStatus string

const (
	InvoiceUnpaid        InvoiceStatus = "UNPAID"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceUnpaid, InvoicePartiallyPaid, InvoicePaid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Invoice is the aggregate root for a shop sale. All monetary totals are
// computed server-side through the PricingEngine; client-supplied totals
// are never trusted.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber      string        `gorm:"size:64;not null;uniqueIndex"`
	ShopID             uuid.UUID     `gorm:"type:uuid;not null;index"`
	SalesmanID         uuid.UUID     `gorm:"type:uuid;not null;index"`
	InvoiceDate        time.Time     `gorm:"not null"`
	DueDate            *time.Time
	Subtotal           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status             InvoiceStatus   `gorm:"size:16;not null;default:'UNPAID'"`
	Notes              string          `gorm:"size:512"`
	Items              []InvoiceItem   `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is one priced line of an invoice. It pins the batch the
// quantity was drawn from so returns and traceability can reconstruct
// the batch lineage of every sale.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	AssignmentID      uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SalesmanMarginPct decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	ShopMarginPct     decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	LineTotal         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReturnedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Returnable returns the quantity on this line that was sold and not yet returned
func (i *InvoiceItem) Returnable() decimal.Decimal {
	return i.Quantity.Sub(i.ReturnedQuantity)
}

// RecordReturn books an approved return against this line
func (i *InvoiceItem) RecordReturn(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Return quantity must be positive")
	}
	if quantity.GreaterThan(i.Returnable()) {
		return shared.ErrInvalidReturnQuantity
	}

	i.ReturnedQuantity = i.ReturnedQuantity.Add(quantity)
	i.UpdatedAt = time.Now()

	return nil
}

// NewInvoice creates a new invoice shell; items and totals are added
// through AddItem and Finalize
func NewInvoice(invoiceNumber string, shopID, salesmanID uuid.UUID, dueDate *time.Time, taxAmount, discountAmount decimal.Decimal, notes string) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if salesmanID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALESMAN", "Salesman ID cannot be empty")
	}
	if taxAmount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Tax amount cannot be negative")
	}
	if discountAmount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Discount amount cannot be negative")
	}

	return &Invoice{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		InvoiceNumber:      invoiceNumber,
		ShopID:             shopID,
		SalesmanID:         salesmanID,
		InvoiceDate:        time.Now(),
		DueDate:            dueDate,
		Subtotal:           decimal.Zero,
		TaxAmount:          taxAmount,
		DiscountAmount:     discountAmount,
		GrandTotal:         decimal.Zero,
		OutstandingBalance: decimal.Zero,
		Status:             InvoiceUnpaid,
		Notes:              notes,
	}, nil
}

// AddItem prices one line through the engine and appends it
func (inv *Invoice) AddItem(engine *PricingEngine, productID, batchID, assignmentID uuid.UUID, quantity, unitPrice, salesmanMarginPct, shopMarginPct decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Item quantity must be positive")
	}

	lineTotal, err := engine.LineTotal(unitPrice, salesmanMarginPct, shopMarginPct, quantity)
	if err != nil {
		return err
	}

	inv.Items = append(inv.Items, InvoiceItem{
		BaseEntity:        shared.NewBaseEntity(),
		InvoiceID:         inv.ID,
		ProductID:         productID,
		BatchID:           batchID,
		AssignmentID:      assignmentID,
		Quantity:          quantity,
		UnitPrice:         unitPrice,
		SalesmanMarginPct: salesmanMarginPct,
		ShopMarginPct:     shopMarginPct,
		LineTotal:         lineTotal,
		ReturnedQuantity:  decimal.Zero,
	})

	return nil
}

// Finalize computes the invoice totals from its lines. The grand total
// must not be negative at the invoice boundary even though the engine
// itself does not clamp.
func (inv *Invoice) Finalize(engine *PricingEngine) error {
	if len(inv.Items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Invoice must have at least one item")
	}

	lineTotals := make([]decimal.Decimal, 0, len(inv.Items))
	subtotal := decimal.Zero
	for _, item := range inv.Items {
		lineTotals = append(lineTotals, item.LineTotal)
		subtotal = subtotal.Add(item.LineTotal)
	}

	grandTotal, err := engine.InvoiceTotal(lineTotals, inv.TaxAmount, inv.DiscountAmount)
	if err != nil {
		return err
	}
	if grandTotal.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Discount exceeds invoice value, grand total would be %s", grandTotal.StringFixed(2)))
	}

	inv.Subtotal = subtotal.Round(2)
	inv.GrandTotal = grandTotal
	inv.OutstandingBalance = grandTotal
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return nil
}

// ItemByID finds an invoice item by its ID
func (inv *Invoice) ItemByID(itemID uuid.UUID) (*InvoiceItem, error) {
	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			return &inv.Items[idx], nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Invoice item not found")
}

// ReduceOutstanding decrements the payable balance, floored at zero,
// and advances the payment status
func (inv *Invoice) ReduceOutstanding(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Reduction amount cannot be negative")
	}

	inv.OutstandingBalance = inv.OutstandingBalance.Sub(amount)
	if inv.OutstandingBalance.IsNegative() {
		inv.OutstandingBalance = decimal.Zero
	}

	switch {
	case inv.OutstandingBalance.IsZero():
		inv.Status = InvoicePaid
	case inv.OutstandingBalance.LessThan(inv.GrandTotal):
		inv.Status = InvoicePartiallyPaid
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

package trade

import (
	"time"

	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/fieldsale/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarginSource records whose margin a return reverses, kept for audit
type MarginSource string

const (
	MarginSourceShop     MarginSource = "SHOP"
	MarginSourceSalesman MarginSource = "SALESMAN"
	MarginSourceUnknown  MarginSource = "UNKNOWN"
)

// Return is the aggregate root for a product return. Approval is the
// only mutating transition and it is one-way.
type Return struct {
	shared.BaseAggregateRoot
	InvoiceID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceItemID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason           string          `gorm:"size:256;not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QualityStatus    ledger.QualityStatus `gorm:"size:16;not null"`
	BaseAmount       valueobject.Money    `gorm:"type:decimal(18,4);not null"`
	QualityDeduction valueobject.Money    `gorm:"type:decimal(18,4);not null"`
	TotalAmount      valueobject.Money    `gorm:"type:decimal(18,4);not null"`
	ShopMarginAmount valueobject.Money    `gorm:"type:decimal(18,4);not null;default:0"`
	MarginSource     MarginSource         `gorm:"size:16;not null;default:'UNKNOWN'"`
	Approved         bool                 `gorm:"not null;default:false"`
	ApprovedAt       *time.Time
}

// TableName returns the table name for GORM
func (Return) TableName() string {
	return "returns"
}

// NewReturn creates a pending return from a completed calculation
func NewReturn(invoiceID, invoiceItemID, batchID uuid.UUID, quantity decimal.Decimal, reason string, calc *ReturnComputation) (*Return, error) {
	if invoiceID == uuid.Nil || invoiceItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice reference cannot be empty")
	}
	if batchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch ID cannot be empty")
	}
	if reason == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Return reason is required")
	}
	if calc == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Return calculation is required")
	}

	return &Return{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceID:         invoiceID,
		InvoiceItemID:     invoiceItemID,
		BatchID:           batchID,
		Quantity:          quantity,
		Reason:            reason,
		UnitPrice:         calc.UnitPrice,
		QualityStatus:     calc.QualityStatus,
		BaseAmount:        calc.BaseAmount,
		QualityDeduction:  calc.QualityDeduction,
		TotalAmount:       calc.TotalAmount,
		ShopMarginAmount:  calc.ShopMarginAmount,
		MarginSource:      calc.MarginSource,
		Approved:          false,
	}, nil
}

// Approve flips the return into its approved state. Repeat approval is
// rejected so stock is never restored twice.
func (r *Return) Approve() error {
	if r.Approved {
		return shared.ErrAlreadyApproved
	}

	now := time.Now()
	r.Approved = true
	r.ApprovedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnApprovedEvent(r))

	return nil
}

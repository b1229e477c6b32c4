package ledger

import (
	"time"

	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QualityStatus classifies a batch for sale eligibility and return deductions
type QualityStatus string

const (
	QualityGood      QualityStatus = "GOOD"
	QualityWarning   QualityStatus = "WARNING"
	QualityDefective QualityStatus = "DEFECTIVE"
	QualityRecalled  QualityStatus = "RECALLED"
)

// IsValid checks if the status is a valid QualityStatus
func (s QualityStatus) IsValid() bool {
	switch s {
	case QualityGood, QualityWarning, QualityDefective, QualityRecalled:
		return true
	}
	return false
}

// String returns the string representation of QualityStatus
func (s QualityStatus) String() string {
	return string(s)
}

// Batch is the aggregate root for per-batch stock state. It is the single
// source of quantity truth: all quantity counters are owned here and must
// be mutated through the StockLedger operations.
//
// Conservation invariant, verified before any mutation commits:
//
//	CurrentQuantity + AllocatedQuantity + TotalSold - TotalReturned == InitialQuantity
//
// with every term >= 0 and TotalReturned <= TotalSold. AllocatedQuantity
// is stock handed to salesmen and not yet sold or brought back.
type Batch struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber       string          `gorm:"size:64;not null;uniqueIndex"`
	InitialQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CurrentQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AllocatedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalSold         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalReturned     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ManufacturingDate time.Time       `gorm:"not null"`
	ExpiryDate        *time.Time
	QualityStatus     QualityStatus `gorm:"size:16;not null;default:'GOOD'"`
	Active            bool          `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "batches"
}

// NewBatch creates a new batch on receipt of stock
func NewBatch(
	productID uuid.UUID,
	batchNumber string,
	quantity decimal.Decimal,
	manufacturingDate time.Time,
	expiryDate *time.Time,
) (*Batch, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Initial quantity must be positive")
	}
	if expiryDate != nil && !expiryDate.After(manufacturingDate) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Expiry date must be after manufacturing date")
	}

	b := &Batch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		BatchNumber:       batchNumber,
		InitialQuantity:   quantity,
		CurrentQuantity:   quantity,
		AllocatedQuantity: decimal.Zero,
		TotalSold:         decimal.Zero,
		TotalReturned:     decimal.Zero,
		ManufacturingDate: manufacturingDate,
		ExpiryDate:        expiryDate,
		QualityStatus:     QualityGood,
		Active:            true,
	}

	b.AddDomainEvent(NewBatchReceivedEvent(b))

	return b, nil
}

// Invariant verifies the quantity conservation invariant
func (b *Batch) Invariant() error {
	return checkCounters(b.InitialQuantity, b.CurrentQuantity, b.AllocatedQuantity, b.TotalSold, b.TotalReturned)
}

func checkCounters(initial, current, allocated, sold, returned decimal.Decimal) error {
	if current.IsNegative() || allocated.IsNegative() || sold.IsNegative() ||
		returned.IsNegative() || initial.IsNegative() {
		return shared.NewDomainError("LEDGER_CORRUPT", "Batch quantity counter is negative")
	}
	if returned.GreaterThan(sold) {
		return shared.NewDomainError("LEDGER_CORRUPT", "Batch returned quantity exceeds sold quantity")
	}
	if !current.Add(allocated).Add(sold).Sub(returned).Equal(initial) {
		return shared.NewDomainError("LEDGER_CORRUPT", "Batch quantities do not reconcile with initial quantity")
	}
	return nil
}

// commit validates a candidate counter state and only then applies it,
// so a rejected mutation leaves the batch untouched.
func (b *Batch) commit(current, allocated, sold, returned decimal.Decimal) error {
	if err := checkCounters(b.InitialQuantity, current, allocated, sold, returned); err != nil {
		return err
	}
	b.CurrentQuantity = current
	b.AllocatedQuantity = allocated
	b.TotalSold = sold
	b.TotalReturned = returned
	b.touch()
	return nil
}

// IsExpired returns true if the batch is past its expiry date
func (b *Batch) IsExpired() bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(time.Now())
}

// IsRecalled returns true if the batch has been recalled
func (b *Batch) IsRecalled() bool {
	return b.QualityStatus == QualityRecalled
}

// CanAllocate returns nil if stock can be allocated from this batch
func (b *Batch) CanAllocate(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Allocation quantity must be positive")
	}
	if b.IsRecalled() {
		return shared.ErrBatchRecalled
	}
	if b.IsExpired() {
		return shared.NewDomainError("BATCH_EXPIRED", "Batch is past its expiry date")
	}
	if quantity.GreaterThan(b.CurrentQuantity) {
		return shared.ErrInsufficientStock
	}
	return nil
}

// Allocate moves quantity out of central stock into the field
func (b *Batch) Allocate(quantity decimal.Decimal) error {
	if err := b.CanAllocate(quantity); err != nil {
		return err
	}
	return b.commit(
		b.CurrentQuantity.Sub(quantity),
		b.AllocatedQuantity.Add(quantity),
		b.TotalSold,
		b.TotalReturned,
	)
}

// RecordSale records quantity sold out of previously allocated stock
func (b *Batch) RecordSale(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Sale quantity must be positive")
	}
	if b.IsRecalled() {
		return shared.ErrBatchRecalled
	}
	if quantity.GreaterThan(b.AllocatedQuantity) {
		return shared.ErrInsufficientAllocated
	}
	return b.commit(
		b.CurrentQuantity,
		b.AllocatedQuantity.Sub(quantity),
		b.TotalSold.Add(quantity),
		b.TotalReturned,
	)
}

// RecordReturn restores sold quantity back into central stock
func (b *Batch) RecordReturn(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Return quantity must be positive")
	}
	if quantity.GreaterThan(b.TotalSold.Sub(b.TotalReturned)) {
		return shared.ErrInvalidReturnQuantity
	}
	return b.commit(
		b.CurrentQuantity.Add(quantity),
		b.AllocatedQuantity,
		b.TotalSold,
		b.TotalReturned.Add(quantity),
	)
}

// RestoreUnsold returns unsold allocated stock at settlement time.
// TotalSold and TotalReturned are untouched: this stock was never sold.
func (b *Batch) RestoreUnsold(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unsold quantity cannot be negative")
	}
	if quantity.GreaterThan(b.AllocatedQuantity) {
		return shared.ErrInsufficientAllocated
	}
	if quantity.IsZero() {
		return nil
	}
	return b.commit(
		b.CurrentQuantity.Add(quantity),
		b.AllocatedQuantity.Sub(quantity),
		b.TotalSold,
		b.TotalReturned,
	)
}

// ApplyQualityCheck moves the quality status following an inspection.
// RECALLED is terminal: it can only be entered through Recall and never left.
func (b *Batch) ApplyQualityCheck(status QualityStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unknown quality status")
	}
	if b.IsRecalled() {
		return shared.ErrBatchRecalled
	}
	if status == QualityRecalled {
		return shared.NewDomainError("VALIDATION_ERROR", "Use Recall to recall a batch")
	}
	if status == b.QualityStatus {
		return nil
	}

	previous := b.QualityStatus
	b.QualityStatus = status
	b.touch()

	b.AddDomainEvent(NewQualityStatusChangedEvent(b, previous, status))

	return nil
}

// Recall marks the batch as recalled, blocking all further allocation and sale
func (b *Batch) Recall(reason string) error {
	if b.IsRecalled() {
		return shared.ErrBatchRecalled
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Recall reason is required")
	}

	previous := b.QualityStatus
	b.QualityStatus = QualityRecalled
	b.Active = false
	b.touch()

	b.AddDomainEvent(NewBatchRecalledEvent(b, previous, reason))

	return nil
}

// RefreshActive recomputes the active flag in both directions. A batch
// is live while any stock remains in the warehouse or in the field;
// restored stock reactivates it. RECALLED stays inactive for good.
func (b *Batch) RefreshActive() {
	if b.IsRecalled() || b.IsExpired() {
		b.Active = false
		return
	}
	b.Active = b.CurrentQuantity.IsPositive() || b.AllocatedQuantity.IsPositive()
}

// ReturnRate returns total returns as a percentage of total sales, 0 when nothing sold
func (b *Batch) ReturnRate() decimal.Decimal {
	if b.TotalSold.IsZero() {
		return decimal.Zero
	}
	return b.TotalReturned.Div(b.TotalSold).Mul(decimal.NewFromInt(100)).Round(2)
}

func (b *Batch) touch() {
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

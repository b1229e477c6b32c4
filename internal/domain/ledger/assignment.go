package ledger

import (
	"fmt"
	"time"

	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssignmentStatus represents the lifecycle of a salesman assignment
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "PENDING"
	AssignmentDelivered AssignmentStatus = "DELIVERED"
	AssignmentPartial   AssignmentStatus = "PARTIAL"
	AssignmentSettled   AssignmentStatus = "SETTLED"
)

// IsValid checks if the status is a valid AssignmentStatus
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentPending, AssignmentDelivered, AssignmentPartial, AssignmentSettled:
		return true
	}
	return false
}

// String returns the string representation of AssignmentStatus
func (s AssignmentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s AssignmentStatus) CanTransitionTo(target AssignmentStatus) bool {
	switch s {
	case AssignmentPending:
		return target == AssignmentDelivered
	case AssignmentDelivered:
		return target == AssignmentPartial || target == AssignmentSettled
	case AssignmentPartial:
		return target == AssignmentSettled
	case AssignmentSettled:
		return false // Terminal
	}
	return false
}

// SalesmanAssignment tracks batch stock in the hands of one salesman.
// It references the batch it draws from but never mutates batch counters
// directly; all paired mutations go through the StockLedger.
type SalesmanAssignment struct {
	shared.BaseAggregateRoot
	BatchID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_batch_salesman,priority:1"`
	SalesmanID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_batch_salesman,priority:2"`
	AssignedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DeliveredQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SoldQuantity      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReturnedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status            AssignmentStatus `gorm:"size:16;not null;default:'PENDING'"`
	SettledAt         *time.Time
}

// TableName returns the table name for GORM
func (SalesmanAssignment) TableName() string {
	return "salesman_assignments"
}

// NewSalesmanAssignment creates a new assignment for a batch-salesman pair
func NewSalesmanAssignment(batchID, salesmanID uuid.UUID) (*SalesmanAssignment, error) {
	if batchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch ID cannot be empty")
	}
	if salesmanID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALESMAN", "Salesman ID cannot be empty")
	}

	return &SalesmanAssignment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchID:           batchID,
		SalesmanID:        salesmanID,
		AssignedQuantity:  decimal.Zero,
		DeliveredQuantity: decimal.Zero,
		SoldQuantity:      decimal.Zero,
		ReturnedQuantity:  decimal.Zero,
		Status:            AssignmentPending,
	}, nil
}

// Outstanding returns stock delivered to the salesman but not yet sold or returned
func (a *SalesmanAssignment) Outstanding() decimal.Decimal {
	return a.DeliveredQuantity.Sub(a.SoldQuantity).Sub(a.ReturnedQuantity)
}

// Returnable returns quantity sold through this assignment and not yet returned
func (a *SalesmanAssignment) Returnable() decimal.Decimal {
	return a.SoldQuantity.Sub(a.ReturnedQuantity)
}

// IsSettled returns true if the assignment has reached its terminal state
func (a *SalesmanAssignment) IsSettled() bool {
	return a.Status == AssignmentSettled
}

// Allocate adds newly allocated stock to the assignment. The physical
// handover to the salesman confirms delivery, so the first allocation
// also moves the assignment PENDING -> DELIVERED.
func (a *SalesmanAssignment) Allocate(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Allocation quantity must be positive")
	}
	if a.IsSettled() {
		return shared.NewDomainError("INVALID_STATE", "Cannot allocate to a settled assignment")
	}

	a.AssignedQuantity = a.AssignedQuantity.Add(quantity)
	a.DeliveredQuantity = a.DeliveredQuantity.Add(quantity)
	if a.Status == AssignmentPending {
		a.Status = AssignmentDelivered
	}
	a.touch()

	return nil
}

// RecordSale records quantity sold by the salesman against this assignment
func (a *SalesmanAssignment) RecordSale(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Sale quantity must be positive")
	}
	if a.IsSettled() {
		return shared.NewDomainError("INVALID_STATE", "Cannot record a sale on a settled assignment")
	}
	if quantity.GreaterThan(a.Outstanding()) {
		return shared.ErrInsufficientAllocated
	}

	a.SoldQuantity = a.SoldQuantity.Add(quantity)
	if a.Status == AssignmentDelivered && a.Outstanding().GreaterThan(decimal.Zero) {
		a.Status = AssignmentPartial
	}
	a.touch()

	return nil
}

// RecordReturn records an approved product return against this assignment
func (a *SalesmanAssignment) RecordReturn(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Return quantity must be positive")
	}
	if a.IsSettled() {
		return shared.NewDomainError("INVALID_STATE", "Cannot record a return on a settled assignment")
	}
	if quantity.GreaterThan(a.Returnable()) {
		return shared.ErrInvalidReturnQuantity
	}

	a.ReturnedQuantity = a.ReturnedQuantity.Add(quantity)
	a.touch()

	return nil
}

// Settle moves the assignment into its terminal state
func (a *SalesmanAssignment) Settle() error {
	if a.IsSettled() {
		return shared.ErrAlreadySettled
	}
	if !a.Status.CanTransitionTo(AssignmentSettled) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot settle assignment in %s status", a.Status))
	}

	now := time.Now()
	a.Status = AssignmentSettled
	a.SettledAt = &now
	a.touch()

	return nil
}

func (a *SalesmanAssignment) touch() {
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

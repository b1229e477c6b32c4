package ledger

import (
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockLedger coordinates paired mutations of a Batch and the
// SalesmanAssignments drawing from it. Every operation validates all
// preconditions before touching either aggregate, so a rejected call
// leaves no partial write behind. Persistence-level serialization of
// concurrent operations on the same batch is the repository's job
// (optimistic version check on save).
type StockLedger struct{}

// NewStockLedger creates a new StockLedger
func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// Allocate moves quantity from central batch stock to a salesman assignment.
// The assignment must belong to the batch.
func (l *StockLedger) Allocate(batch *Batch, assignment *SalesmanAssignment, quantity decimal.Decimal) error {
	if err := l.checkPair(batch, assignment); err != nil {
		return err
	}
	if assignment.IsSettled() {
		return shared.NewDomainError("INVALID_STATE", "Cannot allocate to a settled assignment")
	}
	if err := batch.CanAllocate(quantity); err != nil {
		return err
	}

	if err := batch.Allocate(quantity); err != nil {
		return err
	}
	if err := assignment.Allocate(quantity); err != nil {
		return err
	}

	batch.AddDomainEvent(NewStockAllocatedEvent(batch, assignment, quantity))
	batch.RefreshActive()

	return nil
}

// RecordSale books a sale of allocated stock against the assignment
func (l *StockLedger) RecordSale(batch *Batch, assignment *SalesmanAssignment, quantity decimal.Decimal) error {
	if err := l.checkPair(batch, assignment); err != nil {
		return err
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Sale quantity must be positive")
	}
	if batch.IsRecalled() {
		return shared.ErrBatchRecalled
	}
	if assignment.IsSettled() {
		return shared.NewDomainError("INVALID_STATE", "Cannot record a sale on a settled assignment")
	}
	if quantity.GreaterThan(assignment.Outstanding()) {
		return shared.ErrInsufficientAllocated
	}

	if err := batch.RecordSale(quantity); err != nil {
		return err
	}
	if err := assignment.RecordSale(quantity); err != nil {
		return err
	}

	batch.AddDomainEvent(NewSaleRecordedEvent(batch, assignment, quantity))

	return nil
}

// RecordReturn restores sold stock into the batch following an approved return
func (l *StockLedger) RecordReturn(batch *Batch, assignment *SalesmanAssignment, quantity decimal.Decimal) error {
	if err := l.checkPair(batch, assignment); err != nil {
		return err
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Return quantity must be positive")
	}
	if assignment.IsSettled() {
		return shared.NewDomainError("INVALID_STATE", "Cannot record a return on a settled assignment")
	}
	if quantity.GreaterThan(assignment.Returnable()) {
		return shared.ErrInvalidReturnQuantity
	}

	if err := batch.RecordReturn(quantity); err != nil {
		return err
	}
	if err := assignment.RecordReturn(quantity); err != nil {
		return err
	}

	batch.AddDomainEvent(NewReturnRecordedEvent(batch, assignment, quantity))
	batch.RefreshActive()

	return nil
}

// SettleRemaining restores unsold allocated stock during delivery settlement
func (l *StockLedger) SettleRemaining(batch *Batch, quantity decimal.Decimal) error {
	if batch == nil {
		return shared.NewDomainError("INVALID_BATCH", "Batch cannot be nil")
	}
	if quantity.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Remaining quantity cannot be negative")
	}

	if err := batch.RestoreUnsold(quantity); err != nil {
		return err
	}

	if quantity.IsPositive() {
		batch.AddDomainEvent(NewUnsoldStockRestoredEvent(batch, quantity))
	}
	batch.RefreshActive()

	return nil
}

func (l *StockLedger) checkPair(batch *Batch, assignment *SalesmanAssignment) error {
	if batch == nil {
		return shared.NewDomainError("INVALID_BATCH", "Batch cannot be nil")
	}
	if assignment == nil {
		return shared.NewDomainError("INVALID_ASSIGNMENT", "Assignment cannot be nil")
	}
	if assignment.BatchID != batch.ID {
		return shared.NewDomainError("INVALID_ASSIGNMENT", "Assignment does not belong to this batch")
	}
	return nil
}

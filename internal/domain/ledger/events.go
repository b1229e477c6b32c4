package ledger

import (
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for the stock ledger
const (
	EventBatchReceived        = "ledger.batch_received"
	EventStockAllocated       = "ledger.stock_allocated"
	EventSaleRecorded         = "ledger.sale_recorded"
	EventReturnRecorded       = "ledger.return_recorded"
	EventUnsoldStockRestored  = "ledger.unsold_stock_restored"
	EventQualityStatusChanged = "ledger.quality_status_changed"
	EventBatchRecalled        = "ledger.batch_recalled"
)

const batchAggregateType = "Batch"

// BatchReceivedEvent is emitted when a new batch enters central stock
type BatchReceivedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// NewBatchReceivedEvent creates a new BatchReceivedEvent
func NewBatchReceivedEvent(b *Batch) *BatchReceivedEvent {
	return &BatchReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventBatchReceived, batchAggregateType, b.ID),
		ProductID:       b.ProductID,
		BatchNumber:     b.BatchNumber,
		Quantity:        b.InitialQuantity,
	}
}

// StockAllocatedEvent is emitted when stock is allocated to a salesman
type StockAllocatedEvent struct {
	shared.BaseDomainEvent
	SalesmanID   uuid.UUID       `json:"salesman_id"`
	AssignmentID uuid.UUID       `json:"assignment_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Remaining    decimal.Decimal `json:"remaining"`
}

// NewStockAllocatedEvent creates a new StockAllocatedEvent
func NewStockAllocatedEvent(b *Batch, a *SalesmanAssignment, quantity decimal.Decimal) *StockAllocatedEvent {
	return &StockAllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStockAllocated, batchAggregateType, b.ID),
		SalesmanID:      a.SalesmanID,
		AssignmentID:    a.ID,
		Quantity:        quantity,
		Remaining:       b.CurrentQuantity,
	}
}

// SaleRecordedEvent is emitted when a sale is booked against a batch
type SaleRecordedEvent struct {
	shared.BaseDomainEvent
	SalesmanID   uuid.UUID       `json:"salesman_id"`
	AssignmentID uuid.UUID       `json:"assignment_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	TotalSold    decimal.Decimal `json:"total_sold"`
}

// NewSaleRecordedEvent creates a new SaleRecordedEvent
func NewSaleRecordedEvent(b *Batch, a *SalesmanAssignment, quantity decimal.Decimal) *SaleRecordedEvent {
	return &SaleRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSaleRecorded, batchAggregateType, b.ID),
		SalesmanID:      a.SalesmanID,
		AssignmentID:    a.ID,
		Quantity:        quantity,
		TotalSold:       b.TotalSold,
	}
}

// ReturnRecordedEvent is emitted when an approved return restores stock
type ReturnRecordedEvent struct {
	shared.BaseDomainEvent
	SalesmanID    uuid.UUID       `json:"salesman_id"`
	AssignmentID  uuid.UUID       `json:"assignment_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	TotalReturned decimal.Decimal `json:"total_returned"`
}

// NewReturnRecordedEvent creates a new ReturnRecordedEvent
func NewReturnRecordedEvent(b *Batch, a *SalesmanAssignment, quantity decimal.Decimal) *ReturnRecordedEvent {
	return &ReturnRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventReturnRecorded, batchAggregateType, b.ID),
		SalesmanID:      a.SalesmanID,
		AssignmentID:    a.ID,
		Quantity:        quantity,
		TotalReturned:   b.TotalReturned,
	}
}

// UnsoldStockRestoredEvent is emitted when settlement returns unsold stock
type UnsoldStockRestoredEvent struct {
	shared.BaseDomainEvent
	Quantity decimal.Decimal `json:"quantity"`
	Current  decimal.Decimal `json:"current"`
}

// NewUnsoldStockRestoredEvent creates a new UnsoldStockRestoredEvent
func NewUnsoldStockRestoredEvent(b *Batch, quantity decimal.Decimal) *UnsoldStockRestoredEvent {
	return &UnsoldStockRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUnsoldStockRestored, batchAggregateType, b.ID),
		Quantity:        quantity,
		Current:         b.CurrentQuantity,
	}
}

// QualityStatusChangedEvent is emitted when a quality check moves the status
type QualityStatusChangedEvent struct {
	shared.BaseDomainEvent
	Previous QualityStatus `json:"previous"`
	Current  QualityStatus `json:"current"`
}

// NewQualityStatusChangedEvent creates a new QualityStatusChangedEvent
func NewQualityStatusChangedEvent(b *Batch, previous, current QualityStatus) *QualityStatusChangedEvent {
	return &QualityStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventQualityStatusChanged, batchAggregateType, b.ID),
		Previous:        previous,
		Current:         current,
	}
}

// BatchRecalledEvent is emitted when a batch is recalled
type BatchRecalledEvent struct {
	shared.BaseDomainEvent
	Previous QualityStatus `json:"previous"`
	Reason   string        `json:"reason"`
}

// NewBatchRecalledEvent creates a new BatchRecalledEvent
func NewBatchRecalledEvent(b *Batch, previous QualityStatus, reason string) *BatchRecalledEvent {
	return &BatchRecalledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventBatchRecalled, batchAggregateType, b.ID),
		Previous:        previous,
		Reason:          reason,
	}
}

package trade

import (
	"time"

	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryStatus represents the settlement lifecycle of a delivery
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "PENDING"
	DeliverySettled DeliveryStatus = "SETTLED"
)

// IsValid checks if the status is a valid DeliveryStatus
func (s DeliveryStatus) IsValid() bool {
	return s == DeliveryPending || s == DeliverySettled
}

// String returns the string representation of DeliveryStatus
func (s DeliveryStatus) String() string {
	return string(s)
}

// Delivery records stock handed to a salesman for a sales trip. Once
// settled it is immutable: SETTLED is terminal.
type Delivery struct {
	shared.BaseAggregateRoot
	DeliveryNumber string          `gorm:"size:64;not null;uniqueIndex"`
	SalesmanID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeliveryDate   time.Time       `gorm:"not null"`
	Status         DeliveryStatus  `gorm:"size:16;not null;default:'PENDING'"`
	SettledAt      *time.Time
	Items          []DeliveryItem `gorm:"foreignKey:DeliveryID"`
}

// TableName returns the table name for GORM
func (Delivery) TableName() string {
	return "deliveries"
}

// DeliveryItem tracks one batch of stock within a delivery.
// RemainingQuantity and MarginEarned stay zero until settlement fills
// them in from the owner's reconciliation.
type DeliveryItem struct {
	shared.BaseEntity
	DeliveryID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null"`
	BatchID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	AssignmentID      uuid.UUID       `gorm:"type:uuid;not null"`
	DeliveredQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SoldQuantity      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MarginEarned      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (DeliveryItem) TableName() string {
	return "delivery_items"
}

// Unsettled returns the upper bound for remaining stock at settlement
func (i *DeliveryItem) Unsettled() decimal.Decimal {
	return i.DeliveredQuantity.Sub(i.SoldQuantity)
}

// NewDelivery creates a new pending delivery
func NewDelivery(deliveryNumber string, salesmanID uuid.UUID, deliveryDate time.Time) (*Delivery, error) {
	if deliveryNumber == "" {
		return nil, shared.NewDomainError("INVALID_DELIVERY_NUMBER", "Delivery number cannot be empty")
	}
	if salesmanID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALESMAN", "Salesman ID cannot be empty")
	}

	return &Delivery{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DeliveryNumber:    deliveryNumber,
		SalesmanID:        salesmanID,
		DeliveryDate:      deliveryDate,
		Status:            DeliveryPending,
	}, nil
}

// AddItem appends a batch line to a pending delivery
func (d *Delivery) AddItem(productID, batchID, assignmentID uuid.UUID, deliveredQuantity decimal.Decimal) error {
	if d.IsSettled() {
		return shared.ErrAlreadySettled
	}
	if deliveredQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Delivered quantity must be positive")
	}

	d.Items = append(d.Items, DeliveryItem{
		BaseEntity:        shared.NewBaseEntity(),
		DeliveryID:        d.ID,
		ProductID:         productID,
		BatchID:           batchID,
		AssignmentID:      assignmentID,
		DeliveredQuantity: deliveredQuantity,
		SoldQuantity:      decimal.Zero,
		RemainingQuantity: decimal.Zero,
		MarginEarned:      decimal.Zero,
	})

	return nil
}

// ItemByID finds a delivery item by its ID
func (d *Delivery) ItemByID(itemID uuid.UUID) (*DeliveryItem, error) {
	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			return &d.Items[idx], nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Delivery item not found")
}

// RecordSale bumps the sold quantity on the item holding the given batch
func (d *Delivery) RecordSale(batchID uuid.UUID, quantity decimal.Decimal) error {
	if d.IsSettled() {
		return shared.ErrAlreadySettled
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Sale quantity must be positive")
	}

	for idx := range d.Items {
		item := &d.Items[idx]
		if item.BatchID != batchID {
			continue
		}
		if quantity.GreaterThan(item.Unsettled()) {
			return shared.ErrInsufficientAllocated
		}
		item.SoldQuantity = item.SoldQuantity.Add(quantity)
		item.UpdatedAt = time.Now()
		d.UpdatedAt = time.Now()
		d.IncrementVersion()
		return nil
	}

	return shared.NewDomainError("NOT_FOUND", "Delivery has no item for this batch")
}

// IsSettled returns true once the delivery has been settled
func (d *Delivery) IsSettled() bool {
	return d.Status == DeliverySettled
}

// MarkSettled flips the delivery into its terminal state
func (d *Delivery) MarkSettled() error {
	if d.IsSettled() {
		return shared.ErrAlreadySettled
	}

	now := time.Now()
	d.Status = DeliverySettled
	d.SettledAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	return nil
}

// Settlement is the persisted reconciliation record of one delivery.
// The unique index on DeliveryID enforces at most one settlement per
// delivery at the persistence level.
type Settlement struct {
	shared.BaseAggregateRoot
	DeliveryID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	TotalReturning decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalMargin    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes          string          `gorm:"size:512"`
	SettledAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Settlement) TableName() string {
	return "settlements"
}

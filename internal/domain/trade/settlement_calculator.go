package trade

import (
	"fmt"
	"time"

	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementInput is one caller-supplied reconciliation line: how much
// stock the salesman brings back and how much margin they earned. Both
// values are authoritative manual overrides recorded as given.
type SettlementInput struct {
	DeliveryItemID    uuid.UUID
	RemainingQuantity decimal.Decimal
	MarginEarned      decimal.Decimal
}

// SettlementLine pairs a validated input with the delivery item it settles
type SettlementLine struct {
	Item              *DeliveryItem
	RemainingQuantity decimal.Decimal
	MarginEarned      decimal.Decimal
}

// SettlementResult carries the validated lines and accumulated totals.
// Nothing has been mutated yet when a result is produced; the caller
// applies it inside one transaction.
type SettlementResult struct {
	Lines          []SettlementLine
	TotalReturning decimal.Decimal
	TotalMargin    decimal.Decimal
}

// SettlementCalculator validates a delivery reconciliation. Validation
// is strictly separated from mutation so a failing line rejects the
// whole settlement before any ledger movement.
type SettlementCalculator struct{}

// NewSettlementCalculator creates a new SettlementCalculator
func NewSettlementCalculator() *SettlementCalculator {
	return &SettlementCalculator{}
}

// Calculate validates every input line against the delivery and returns
// the totals. Fails on the first invalid line with no partial result.
func (c *SettlementCalculator) Calculate(delivery *Delivery, inputs []SettlementInput) (*SettlementResult, error) {
	if delivery == nil {
		return nil, shared.NewDomainError("INVALID_DELIVERY", "Delivery cannot be nil")
	}
	if delivery.IsSettled() {
		return nil, shared.ErrAlreadySettled
	}
	if len(inputs) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Settlement requires at least one item")
	}

	seen := make(map[uuid.UUID]bool, len(inputs))
	result := &SettlementResult{
		Lines:          make([]SettlementLine, 0, len(inputs)),
		TotalReturning: decimal.Zero,
		TotalMargin:    decimal.Zero,
	}

	for _, input := range inputs {
		if seen[input.DeliveryItemID] {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Duplicate settlement input for delivery item %s", input.DeliveryItemID))
		}
		seen[input.DeliveryItemID] = true

		item, err := delivery.ItemByID(input.DeliveryItemID)
		if err != nil {
			return nil, err
		}

		if input.RemainingQuantity.IsNegative() {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Remaining quantity cannot be negative for delivery item %s", input.DeliveryItemID))
		}
		if input.RemainingQuantity.GreaterThan(item.Unsettled()) {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Remaining quantity %s exceeds unsold quantity %s for delivery item %s",
					input.RemainingQuantity, item.Unsettled(), input.DeliveryItemID))
		}
		if input.MarginEarned.IsNegative() {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Margin earned cannot be negative for delivery item %s", input.DeliveryItemID))
		}

		result.Lines = append(result.Lines, SettlementLine{
			Item:              item,
			RemainingQuantity: input.RemainingQuantity,
			MarginEarned:      input.MarginEarned,
		})
		result.TotalReturning = result.TotalReturning.Add(input.RemainingQuantity)
		result.TotalMargin = result.TotalMargin.Add(input.MarginEarned)
	}

	return result, nil
}

// Apply writes the validated lines onto the delivery items and produces
// the settlement record. The caller has already moved the ledger stock.
func (c *SettlementCalculator) Apply(delivery *Delivery, result *SettlementResult, notes string) (*Settlement, error) {
	if delivery.IsSettled() {
		return nil, shared.ErrAlreadySettled
	}

	now := time.Now()
	for _, line := range result.Lines {
		line.Item.RemainingQuantity = line.RemainingQuantity
		line.Item.MarginEarned = line.MarginEarned
		line.Item.UpdatedAt = now
	}

	if err := delivery.MarkSettled(); err != nil {
		return nil, err
	}

	settlement := &Settlement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DeliveryID:        delivery.ID,
		TotalReturning:    result.TotalReturning,
		TotalMargin:       result.TotalMargin,
		Notes:             notes,
		SettledAt:         now,
	}

	delivery.AddDomainEvent(NewDeliverySettledEvent(delivery, settlement))

	return settlement, nil
}

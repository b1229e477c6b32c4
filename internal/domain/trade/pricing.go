package trade

import (
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// PricingEngine computes sale prices from a base price and cascading
// margins. Margins compound sequentially: the salesman markup is applied
// to the base price and the shop markup to the already-marked-up price.
// Policy values (default margin percentages) live in configuration; the
// engine only applies what it is given.
type PricingEngine struct{}

// NewPricingEngine creates a new PricingEngine
func NewPricingEngine() *PricingEngine {
	return &PricingEngine{}
}

// LinePrice returns the per-unit sale price after both margins,
// rounded to 2 decimal places. A margin of 0 is a no-op.
func (e *PricingEngine) LinePrice(unitPrice, salesmanMarginPct, shopMarginPct decimal.Decimal) (decimal.Decimal, error) {
	if unitPrice.IsNegative() {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", "Unit price cannot be negative")
	}
	if salesmanMarginPct.IsNegative() || shopMarginPct.IsNegative() {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", "Margin percentage cannot be negative")
	}

	price := unitPrice
	if salesmanMarginPct.IsPositive() {
		price = price.Mul(decimal.NewFromInt(1).Add(salesmanMarginPct.Div(oneHundred)))
	}
	if shopMarginPct.IsPositive() {
		price = price.Mul(decimal.NewFromInt(1).Add(shopMarginPct.Div(oneHundred)))
	}

	return price.Round(2), nil
}

// LineTotal returns quantity times the marked-up line price,
// rounded to 2 decimal places
func (e *PricingEngine) LineTotal(unitPrice, salesmanMarginPct, shopMarginPct, quantity decimal.Decimal) (decimal.Decimal, error) {
	if quantity.IsNegative() {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", "Quantity cannot be negative")
	}

	price, err := e.LinePrice(unitPrice, salesmanMarginPct, shopMarginPct)
	if err != nil {
		return decimal.Zero, err
	}

	return quantity.Mul(price).Round(2), nil
}

// InvoiceTotal sums the line totals and applies flat tax and discount
// amounts. The result is not clamped; callers decide whether a negative
// grand total is acceptable.
func (e *PricingEngine) InvoiceTotal(lineTotals []decimal.Decimal, taxAmount, discountAmount decimal.Decimal) (decimal.Decimal, error) {
	if taxAmount.IsNegative() {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", "Tax amount cannot be negative")
	}
	if discountAmount.IsNegative() {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", "Discount amount cannot be negative")
	}

	subtotal := decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}

	return subtotal.Add(taxAmount).Sub(discountAmount).Round(2), nil
}

package trade

import (
	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/fieldsale/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DeductionRates holds the per-quality-status deduction applied to a
// return's value. Rates are fractions of the base amount (0.10 = 10%).
// Policy values come from configuration, not code.
type DeductionRates struct {
	Good      decimal.Decimal
	Warning   decimal.Decimal
	Defective decimal.Decimal
	Recalled  decimal.Decimal
}

// DefaultDeductionRates returns the standard deduction schedule
func DefaultDeductionRates() DeductionRates {
	return DeductionRates{
		Good:      decimal.Zero,
		Warning:   decimal.NewFromFloat(0.10),
		Defective: decimal.NewFromFloat(0.50),
		Recalled:  decimal.NewFromInt(1),
	}
}

// Rate returns the deduction rate for a quality status
func (r DeductionRates) Rate(status ledger.QualityStatus) (decimal.Decimal, error) {
	switch status {
	case ledger.QualityGood:
		return r.Good, nil
	case ledger.QualityWarning:
		return r.Warning, nil
	case ledger.QualityDefective:
		return r.Defective, nil
	case ledger.QualityRecalled:
		return r.Recalled, nil
	}
	return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", "Unknown quality status")
}

// ReturnComputation is the monetary breakdown of one return. Amounts
// are Money values; quantity and rate stay plain decimals.
type ReturnComputation struct {
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	QualityStatus    ledger.QualityStatus
	DeductionRate    decimal.Decimal
	BaseAmount       valueobject.Money
	QualityDeduction valueobject.Money
	TotalAmount      valueobject.Money
	ShopMarginAmount valueobject.Money
	MarginSource     MarginSource
}

// ReturnCalculator computes the monetary value of a product return net
// of the quality-based deduction
type ReturnCalculator struct {
	rates DeductionRates
}

// NewReturnCalculator creates a calculator with the given deduction schedule
func NewReturnCalculator(rates DeductionRates) *ReturnCalculator {
	return &ReturnCalculator{rates: rates}
}

// Calculate produces the return breakdown. maxReturnable is the invoice
// line's sold-minus-already-returned quantity; costPrice is optional and
// drives the informational margin reversal breakdown.
func (c *ReturnCalculator) Calculate(quantity, unitPrice, maxReturnable decimal.Decimal, status ledger.QualityStatus, costPrice *decimal.Decimal) (*ReturnComputation, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Return quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unit price cannot be negative")
	}
	if quantity.GreaterThan(maxReturnable) {
		return nil, shared.ErrInvalidReturnQuantity
	}

	rate, err := c.rates.Rate(status)
	if err != nil {
		return nil, err
	}

	base := valueobject.NewDefaultMoney(quantity.Mul(unitPrice)).Round(2)
	deduction := base.Multiply(rate).Round(2)
	total, err := base.Subtract(deduction)
	if err != nil {
		return nil, err
	}

	comp := &ReturnComputation{
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		QualityStatus:    status,
		DeductionRate:    rate,
		BaseAmount:       base,
		QualityDeduction: deduction,
		TotalAmount:      total,
		ShopMarginAmount: valueobject.ZeroMoney(),
		MarginSource:     MarginSourceUnknown,
	}

	if costPrice != nil {
		comp.ShopMarginAmount = valueobject.NewDefaultMoney(unitPrice.Sub(*costPrice).Mul(quantity)).Round(2)
		comp.MarginSource = MarginSourceShop
	}

	return comp, nil
}

package catalog

import (
	"time"

	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a distributable product in the catalog.
// Identity (SKU) is immutable after creation; price fields are owner-editable.
type Product struct {
	shared.BaseAggregateRoot
	Name      string          `gorm:"size:200;not null"`
	SKU       string          `gorm:"size:64;not null;uniqueIndex"`
	BasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Selling price before margins
	CostPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Owner's acquisition cost
	Unit      string          `gorm:"size:32;not null;default:'pcs'"`
	Active    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, sku, unit string, basePrice, costPrice decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Base price cannot be negative")
	}
	if costPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cost price cannot be negative")
	}
	if unit == "" {
		unit = "pcs"
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		BasePrice:         basePrice,
		CostPrice:         costPrice,
		Unit:              unit,
		Active:            true,
	}, nil
}

// UpdatePrices updates the owner-editable price fields
func (p *Product) UpdatePrices(basePrice, costPrice decimal.Decimal) error {
	if basePrice.IsNegative() || costPrice.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Prices cannot be negative")
	}
	p.BasePrice = basePrice
	p.CostPrice = costPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Deactivate marks the product as inactive
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// UnitMargin returns the per-unit margin between base and cost price
func (p *Product) UnitMargin() decimal.Decimal {
	return p.BasePrice.Sub(p.CostPrice)
}

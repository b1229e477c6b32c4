package report

import (
	"context"
	"time"

	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleTraceEntry is one sale line in a batch's lifecycle, sourced from
// invoice items referencing the batch
type SaleTraceEntry struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	ShopID        uuid.UUID       `json:"shop_id"`
	SalesmanID    uuid.UUID       `json:"salesman_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	LineTotal     decimal.Decimal `json:"line_total"`
	SoldAt        time.Time       `json:"sold_at"`
}

// ReturnTraceEntry is one approved return in a batch's lifecycle
type ReturnTraceEntry struct {
	ReturnID   uuid.UUID       `json:"return_id"`
	ShopID     uuid.UUID       `json:"shop_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	ApprovedAt time.Time       `json:"approved_at"`
}

// AssignmentTraceEntry is one salesman's holding of the batch
type AssignmentTraceEntry struct {
	AssignmentID      uuid.UUID               `json:"assignment_id"`
	SalesmanID        uuid.UUID               `json:"salesman_id"`
	AssignedQuantity  decimal.Decimal         `json:"assigned_quantity"`
	DeliveredQuantity decimal.Decimal         `json:"delivered_quantity"`
	SoldQuantity      decimal.Decimal         `json:"sold_quantity"`
	ReturnedQuantity  decimal.Decimal         `json:"returned_quantity"`
	Outstanding       decimal.Decimal         `json:"outstanding"`
	Status            ledger.AssignmentStatus `json:"status"`
}

// BatchTraceability is the full reconstructed lifecycle of one batch.
// EffectiveQualityStatus is display-downgraded to RECALLED while an
// active recall notice references the batch; the stored status only
// changes through explicit recall processing.
type BatchTraceability struct {
	BatchID                uuid.UUID              `json:"batch_id"`
	BatchNumber            string                 `json:"batch_number"`
	ProductID              uuid.UUID              `json:"product_id"`
	ProductName            string                 `json:"product_name"`
	InitialQuantity        decimal.Decimal        `json:"initial_quantity"`
	CurrentQuantity        decimal.Decimal        `json:"current_quantity"`
	AllocatedQuantity      decimal.Decimal        `json:"allocated_quantity"`
	TotalSold              decimal.Decimal        `json:"total_sold"`
	TotalReturned          decimal.Decimal        `json:"total_returned"`
	ReturnRate             decimal.Decimal        `json:"return_rate"`
	IsExpired              bool                   `json:"is_expired"`
	QualityStatus          ledger.QualityStatus   `json:"quality_status"`
	EffectiveQualityStatus ledger.QualityStatus   `json:"effective_quality_status"`
	ManufacturingDate      time.Time              `json:"manufacturing_date"`
	ExpiryDate             *time.Time             `json:"expiry_date,omitempty"`
	Sales                  []SaleTraceEntry       `json:"sales"`
	Returns                []ReturnTraceEntry     `json:"returns"`
	Assignments            []AssignmentTraceEntry `json:"assignments"`
}

// ReturnsByReasonRow aggregates approved returns by their reason
type ReturnsByReasonRow struct {
	Reason        string          `json:"reason"`
	ReturnCount   int64           `json:"return_count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// BatchAnalysisRow summarizes one batch's ledger position
type BatchAnalysisRow struct {
	BatchID         uuid.UUID            `json:"batch_id"`
	BatchNumber     string               `json:"batch_number"`
	ProductName     string               `json:"product_name"`
	InitialQuantity decimal.Decimal      `json:"initial_quantity"`
	CurrentQuantity decimal.Decimal      `json:"current_quantity"`
	TotalSold       decimal.Decimal      `json:"total_sold"`
	TotalReturned   decimal.Decimal      `json:"total_returned"`
	ReturnRate      decimal.Decimal      `json:"return_rate"`
	QualityStatus   ledger.QualityStatus `json:"quality_status"`
}

// DailyTrendRow is one day of sales and returns volume
type DailyTrendRow struct {
	Date         time.Time       `json:"date"`
	InvoiceCount int64           `json:"invoice_count"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	TotalReturns decimal.Decimal `json:"total_returns"`
}

// ReportRepository defines the read-only query interface backing
// traceability and reports. Implementations run each traceability call
// set inside one transaction so the snapshot is consistent.
type ReportRepository interface {
	// SalesByBatch returns sale lines for a batch, oldest first
	SalesByBatch(ctx context.Context, batchID uuid.UUID) ([]SaleTraceEntry, error)

	// ReturnsByBatch returns approved returns for a batch, oldest first
	ReturnsByBatch(ctx context.Context, batchID uuid.UUID) ([]ReturnTraceEntry, error)

	// ReturnsByReason aggregates approved returns by reason in a date range
	ReturnsByReason(ctx context.Context, from, to time.Time) ([]ReturnsByReasonRow, error)

	// BatchAnalysis summarizes all batches, newest manufacturing date first
	BatchAnalysis(ctx context.Context) ([]BatchAnalysisRow, error)

	// DailyTrend returns per-day sales and returns volume in a date range
	DailyTrend(ctx context.Context, from, to time.Time) ([]DailyTrendRow, error)
}

package persistence

import (
	"context"
	"sort"
	"time"

	"github.com/fieldsale/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.ReportRepository with read-only
// queries over the ledger and trade tables. Traceability reads run inside
// one transaction so the reconstructed lifecycle is a consistent snapshot.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GORM-based report repository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// SalesByBatch returns sale lines for a batch, oldest first
func (r *GormReportRepository) SalesByBatch(ctx context.Context, batchID uuid.UUID) ([]report.SaleTraceEntry, error) {
	var entries []report.SaleTraceEntry
	err := r.db.WithContext(ctx).
		Table("invoice_items").
		Select(`invoices.id AS invoice_id,
			invoices.invoice_number,
			invoices.shop_id,
			invoices.salesman_id,
			invoice_items.quantity,
			invoice_items.unit_price,
			invoice_items.line_total,
			invoices.invoice_date AS sold_at`).
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoice_items.batch_id = ?", batchID).
		Order("invoices.invoice_date ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ReturnsByBatch returns approved returns for a batch, oldest first
func (r *GormReportRepository) ReturnsByBatch(ctx context.Context, batchID uuid.UUID) ([]report.ReturnTraceEntry, error) {
	var entries []report.ReturnTraceEntry
	err := r.db.WithContext(ctx).
		Table("returns").
		Select(`returns.id AS return_id,
			invoices.shop_id,
			returns.quantity,
			returns.total_amount AS amount,
			returns.reason,
			returns.approved_at`).
		Joins("JOIN invoices ON invoices.id = returns.invoice_id").
		Where("returns.batch_id = ? AND returns.approved = ?", batchID, true).
		Order("returns.approved_at ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ReturnsByReason aggregates approved returns by reason in a date range
func (r *GormReportRepository) ReturnsByReason(ctx context.Context, from, to time.Time) ([]report.ReturnsByReasonRow, error) {
	var rows []report.ReturnsByReasonRow
	err := r.db.WithContext(ctx).
		Table("returns").
		Select(`reason,
			COUNT(*) AS return_count,
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COALESCE(SUM(total_amount), 0) AS total_amount`).
		Where("approved = ? AND approved_at >= ? AND approved_at < ?", true, from, to).
		Group("reason").
		Order("total_amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// BatchAnalysis summarizes all batches, newest manufacturing date first
func (r *GormReportRepository) BatchAnalysis(ctx context.Context) ([]report.BatchAnalysisRow, error) {
	var rows []report.BatchAnalysisRow
	err := r.db.WithContext(ctx).
		Table("batches").
		Select(`batches.id AS batch_id,
			batches.batch_number,
			products.name AS product_name,
			batches.initial_quantity,
			batches.current_quantity,
			batches.total_sold,
			batches.total_returned,
			batches.quality_status`).
		Joins("JOIN products ON products.id = batches.product_id").
		Order("batches.manufacturing_date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Return rate is derived, not stored
	oneHundred := decimal.NewFromInt(100)
	for i := range rows {
		if rows[i].TotalSold.IsZero() {
			rows[i].ReturnRate = decimal.Zero
			continue
		}
		rows[i].ReturnRate = rows[i].TotalReturned.Div(rows[i].TotalSold).Mul(oneHundred).Round(2)
	}
	return rows, nil
}

// DailyTrend returns per-day sales and returns volume in a date range.
// Sales and returns are aggregated separately and merged by day, so a day
// with only returns still appears.
func (r *GormReportRepository) DailyTrend(ctx context.Context, from, to time.Time) ([]report.DailyTrendRow, error) {
	type dayRow struct {
		Day   time.Time
		Count int64
		Total decimal.Decimal
	}

	var sales []dayRow
	err := r.db.WithContext(ctx).
		Table("invoices").
		Select(`DATE(invoice_date) AS day,
			COUNT(*) AS count,
			COALESCE(SUM(grand_total), 0) AS total`).
		Where("invoice_date >= ? AND invoice_date < ?", from, to).
		Group("DATE(invoice_date)").
		Scan(&sales).Error
	if err != nil {
		return nil, err
	}

	var returns []dayRow
	err = r.db.WithContext(ctx).
		Table("returns").
		Select(`DATE(approved_at) AS day,
			COUNT(*) AS count,
			COALESCE(SUM(total_amount), 0) AS total`).
		Where("approved = ? AND approved_at >= ? AND approved_at < ?", true, from, to).
		Group("DATE(approved_at)").
		Scan(&returns).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]*report.DailyTrendRow)
	for _, s := range sales {
		byDay[s.Day] = &report.DailyTrendRow{
			Date:         s.Day,
			InvoiceCount: s.Count,
			TotalSales:   s.Total,
			TotalReturns: decimal.Zero,
		}
	}
	for _, ret := range returns {
		row, ok := byDay[ret.Day]
		if !ok {
			row = &report.DailyTrendRow{
				Date:       ret.Day,
				TotalSales: decimal.Zero,
			}
			byDay[ret.Day] = row
		}
		row.TotalReturns = ret.Total
	}

	result := make([]report.DailyTrendRow, 0, len(byDay))
	for _, row := range byDay {
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

var _ report.ReportRepository = (*GormReportRepository)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/fieldsale/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements trade.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GORM-based invoice repository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Invoice, error) {
	var invoice trade.Invoice
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByInvoiceNumber finds an invoice by its number
func (r *GormInvoiceRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*trade.Invoice, error) {
	var invoice trade.Invoice
	err := r.db.WithContext(ctx).Preload("Items").
		Where("invoice_number = ?", invoiceNumber).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByBatch finds invoices holding at least one item from the batch,
// invoice date ascending
func (r *GormInvoiceRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]trade.Invoice, error) {
	var invoices []trade.Invoice
	err := r.db.WithContext(ctx).Preload("Items").
		Where("id IN (SELECT invoice_id FROM invoice_items WHERE batch_id = ?)", batchID).
		Order("invoice_date ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice and its items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *trade.Invoice) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(invoice).Error
}

// SaveWithLock saves an invoice with optimistic locking. The header
// carries the version; items are rewritten under its protection.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *trade.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(invoice).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Updates(map[string]interface{}{
			"outstanding_balance": invoice.OutstandingBalance,
			"status":              invoice.Status,
			"notes":               invoice.Notes,
			"version":             invoice.Version,
			"updated_at":          invoice.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	for i := range invoice.Items {
		if err := r.db.WithContext(ctx).Save(&invoice.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

var _ trade.InvoiceRepository = (*GormInvoiceRepository)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/fieldsale/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReturnRepository implements trade.ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GORM-based return repository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return by its ID
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Return, error) {
	var ret trade.Return
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ret).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindByBatch finds approved returns for a batch, oldest first
func (r *GormReturnRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]trade.Return, error) {
	var returns []trade.Return
	err := r.db.WithContext(ctx).
		Where("batch_id = ? AND approved = ?", batchID, true).
		Order("approved_at ASC").
		Find(&returns).Error
	if err != nil {
		return nil, err
	}
	return returns, nil
}

// FindByInvoice finds returns raised against an invoice
func (r *GormReturnRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]trade.Return, error) {
	var returns []trade.Return
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&returns).Error
	if err != nil {
		return nil, err
	}
	return returns, nil
}

// Save creates or updates a return
func (r *GormReturnRepository) Save(ctx context.Context, ret *trade.Return) error {
	return r.db.WithContext(ctx).Save(ret).Error
}

// SaveWithLock saves a return with optimistic locking
func (r *GormReturnRepository) SaveWithLock(ctx context.Context, ret *trade.Return) error {
	result := r.db.WithContext(ctx).
		Model(ret).
		Where("id = ? AND version = ?", ret.ID, ret.Version-1).
		Updates(map[string]interface{}{
			"approved":    ret.Approved,
			"approved_at": ret.ApprovedAt,
			"version":     ret.Version,
			"updated_at":  ret.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ trade.ReturnRepository = (*GormReturnRepository)(nil)

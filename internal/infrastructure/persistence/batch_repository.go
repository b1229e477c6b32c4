package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBatchRepository implements ledger.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GORM-based batch repository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Batch, error) {
	var batch ledger.Batch
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByBatchNumber finds a batch by its batch number
func (r *GormBatchRepository) FindByBatchNumber(ctx context.Context, batchNumber string) (*ledger.Batch, error) {
	var batch ledger.Batch
	err := r.db.WithContext(ctx).Where("batch_number = ?", batchNumber).First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByProduct finds batches for a product, oldest manufacturing date first
func (r *GormBatchRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]ledger.Batch, error) {
	var batches []ledger.Batch
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("manufacturing_date ASC").
		Find(&batches).Error
	if err != nil {
		return nil, err
	}
	return batches, nil
}

// Search finds batches matching the search filter
func (r *GormBatchRepository) Search(ctx context.Context, filter ledger.BatchFilter) ([]ledger.Batch, error) {
	var batches []ledger.Batch
	query := r.applyFilter(r.db.WithContext(ctx).Model(&ledger.Batch{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	err := query.Order("manufacturing_date DESC").Find(&batches).Error
	if err != nil {
		return nil, err
	}
	return batches, nil
}

// FindExpiringBefore finds active batches expiring before the given time
func (r *GormBatchRepository) FindExpiringBefore(ctx context.Context, t time.Time) ([]ledger.Batch, error) {
	var batches []ledger.Batch
	err := r.db.WithContext(ctx).
		Where("active = ? AND expiry_date IS NOT NULL AND expiry_date < ?", true, t).
		Order("expiry_date ASC").
		Find(&batches).Error
	if err != nil {
		return nil, err
	}
	return batches, nil
}

// Save creates or updates a batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *ledger.Batch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// SaveWithLock saves a batch with optimistic locking. The quantity
// counters only move through StockLedger operations, which bump the
// version; a stale version loses the write.
func (r *GormBatchRepository) SaveWithLock(ctx context.Context, batch *ledger.Batch) error {
	result := r.db.WithContext(ctx).
		Model(batch).
		Where("id = ? AND version = ?", batch.ID, batch.Version-1).
		Updates(map[string]interface{}{
			"current_quantity":   batch.CurrentQuantity,
			"allocated_quantity": batch.AllocatedQuantity,
			"total_sold":         batch.TotalSold,
			"total_returned":     batch.TotalReturned,
			"quality_status":     batch.QualityStatus,
			"active":             batch.Active,
			"version":            batch.Version,
			"updated_at":         batch.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts batches matching the filter
func (r *GormBatchRepository) Count(ctx context.Context, filter ledger.BatchFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&ledger.Batch{}), filter).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBatchRepository) applyFilter(query *gorm.DB, filter ledger.BatchFilter) *gorm.DB {
	if filter.BatchNumber != "" {
		query = query.Where("batch_number ILIKE ?", "%"+filter.BatchNumber+"%")
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.SalesmanID != nil {
		query = query.Where(
			"id IN (SELECT batch_id FROM salesman_assignments WHERE salesman_id = ?)",
			*filter.SalesmanID,
		)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	return query
}

var _ ledger.BatchRepository = (*GormBatchRepository)(nil)

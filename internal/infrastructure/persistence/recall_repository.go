package persistence

import (
	"context"
	"errors"

	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecallRepository implements ledger.RecallRepository using GORM
type GormRecallRepository struct {
	db *gorm.DB
}

// NewGormRecallRepository creates a new GORM-based recall notice repository
func NewGormRecallRepository(db *gorm.DB) *GormRecallRepository {
	return &GormRecallRepository{db: db}
}

// FindByID finds a recall notice by its ID
func (r *GormRecallRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.RecallNotice, error) {
	var notice ledger.RecallNotice
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&notice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &notice, nil
}

// FindActiveByBatch finds active recall notices for a batch
func (r *GormRecallRepository) FindActiveByBatch(ctx context.Context, batchID uuid.UUID) ([]ledger.RecallNotice, error) {
	var notices []ledger.RecallNotice
	err := r.db.WithContext(ctx).
		Where("batch_id = ? AND active = ?", batchID, true).
		Order("issued_at DESC").
		Find(&notices).Error
	if err != nil {
		return nil, err
	}
	return notices, nil
}

// Save creates or updates a recall notice
func (r *GormRecallRepository) Save(ctx context.Context, notice *ledger.RecallNotice) error {
	return r.db.WithContext(ctx).Save(notice).Error
}

var _ ledger.RecallRepository = (*GormRecallRepository)(nil)

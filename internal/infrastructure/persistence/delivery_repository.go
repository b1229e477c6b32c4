package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/fieldsale/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDeliveryRepository implements trade.DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GORM-based delivery repository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindByID finds a delivery with its items
func (r *GormDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Delivery, error) {
	var delivery trade.Delivery
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&delivery).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &delivery, nil
}

// FindBySalesman finds deliveries for a salesman, newest first
func (r *GormDeliveryRepository) FindBySalesman(ctx context.Context, salesmanID uuid.UUID) ([]trade.Delivery, error) {
	var deliveries []trade.Delivery
	err := r.db.WithContext(ctx).Preload("Items").
		Where("salesman_id = ?", salesmanID).
		Order("delivery_date DESC").
		Find(&deliveries).Error
	if err != nil {
		return nil, err
	}
	return deliveries, nil
}

// FindUnsettledBefore finds pending deliveries older than the given time
func (r *GormDeliveryRepository) FindUnsettledBefore(ctx context.Context, t time.Time) ([]trade.Delivery, error) {
	var deliveries []trade.Delivery
	err := r.db.WithContext(ctx).Preload("Items").
		Where("status = ? AND delivery_date < ?", trade.DeliveryPending, t).
		Order("delivery_date ASC").
		Find(&deliveries).Error
	if err != nil {
		return nil, err
	}
	return deliveries, nil
}

// Save creates or updates a delivery and its items
func (r *GormDeliveryRepository) Save(ctx context.Context, delivery *trade.Delivery) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(delivery).Error
}

// SaveWithLock saves a delivery with optimistic locking. The header
// carries the version; items are rewritten under its protection.
func (r *GormDeliveryRepository) SaveWithLock(ctx context.Context, delivery *trade.Delivery) error {
	result := r.db.WithContext(ctx).
		Model(delivery).
		Where("id = ? AND version = ?", delivery.ID, delivery.Version-1).
		Updates(map[string]interface{}{
			"status":     delivery.Status,
			"settled_at": delivery.SettledAt,
			"version":    delivery.Version,
			"updated_at": delivery.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	for i := range delivery.Items {
		if err := r.db.WithContext(ctx).Save(&delivery.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// SaveSettlement persists the settlement record. The unique index on
// delivery_id makes a second settlement for the same delivery fail.
func (r *GormDeliveryRepository) SaveSettlement(ctx context.Context, settlement *trade.Settlement) error {
	err := r.db.WithContext(ctx).Create(settlement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadySettled
		}
		return err
	}
	return nil
}

// FindSettlementByDelivery finds the settlement for a delivery
func (r *GormDeliveryRepository) FindSettlementByDelivery(ctx context.Context, deliveryID uuid.UUID) (*trade.Settlement, error) {
	var settlement trade.Settlement
	err := r.db.WithContext(ctx).Where("delivery_id = ?", deliveryID).First(&settlement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &settlement, nil
}

var _ trade.DeliveryRepository = (*GormDeliveryRepository)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssignmentRepository implements ledger.AssignmentRepository using GORM
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GORM-based assignment repository
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// FindByID finds an assignment by its ID
func (r *GormAssignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.SalesmanAssignment, error) {
	var assignment ledger.SalesmanAssignment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// FindByBatchAndSalesman finds the assignment for a batch-salesman pair
func (r *GormAssignmentRepository) FindByBatchAndSalesman(ctx context.Context, batchID, salesmanID uuid.UUID) (*ledger.SalesmanAssignment, error) {
	var assignment ledger.SalesmanAssignment
	err := r.db.WithContext(ctx).
		Where("batch_id = ? AND salesman_id = ?", batchID, salesmanID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// FindByBatch finds all assignments for a batch
func (r *GormAssignmentRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]ledger.SalesmanAssignment, error) {
	var assignments []ledger.SalesmanAssignment
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindBySalesman finds all assignments held by a salesman
func (r *GormAssignmentRepository) FindBySalesman(ctx context.Context, salesmanID uuid.UUID) ([]ledger.SalesmanAssignment, error) {
	var assignments []ledger.SalesmanAssignment
	err := r.db.WithContext(ctx).
		Where("salesman_id = ?", salesmanID).
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindOutstandingBySalesmanAndProduct finds the salesman's unsettled
// assignments for a product with outstanding stock, oldest batch
// manufacturing date first. Invoice lines drain holdings in this order.
func (r *GormAssignmentRepository) FindOutstandingBySalesmanAndProduct(ctx context.Context, salesmanID, productID uuid.UUID) ([]ledger.SalesmanAssignment, error) {
	var assignments []ledger.SalesmanAssignment
	err := r.db.WithContext(ctx).
		Joins("JOIN batches ON batches.id = salesman_assignments.batch_id").
		Where("salesman_assignments.salesman_id = ?", salesmanID).
		Where("batches.product_id = ?", productID).
		Where("salesman_assignments.status <> ?", ledger.AssignmentSettled).
		Where("salesman_assignments.delivered_quantity - salesman_assignments.sold_quantity - salesman_assignments.returned_quantity > 0").
		Order("batches.manufacturing_date ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// Save creates or updates an assignment
func (r *GormAssignmentRepository) Save(ctx context.Context, assignment *ledger.SalesmanAssignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

// SaveWithLock saves an assignment with optimistic locking
func (r *GormAssignmentRepository) SaveWithLock(ctx context.Context, assignment *ledger.SalesmanAssignment) error {
	result := r.db.WithContext(ctx).
		Model(assignment).
		Where("id = ? AND version = ?", assignment.ID, assignment.Version-1).
		Updates(map[string]interface{}{
			"assigned_quantity":  assignment.AssignedQuantity,
			"delivered_quantity": assignment.DeliveredQuantity,
			"sold_quantity":      assignment.SoldQuantity,
			"returned_quantity":  assignment.ReturnedQuantity,
			"status":             assignment.Status,
			"settled_at":         assignment.SettledAt,
			"version":            assignment.Version,
			"updated_at":         assignment.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ ledger.AssignmentRepository = (*GormAssignmentRepository)(nil)

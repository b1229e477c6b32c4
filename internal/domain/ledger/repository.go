package ledger

import (
	"context"
	"time"

	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BatchRepository defines the interface for batch persistence
type BatchRepository interface {
	// FindByID finds a batch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)

	// FindByBatchNumber finds a batch by its batch number
	FindByBatchNumber(ctx context.Context, batchNumber string) (*Batch, error)

	// FindByProduct finds batches for a product, oldest manufacturing date first
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Batch, error)

	// Search finds batches matching the search filter
	Search(ctx context.Context, filter BatchFilter) ([]Batch, error)

	// FindExpiringBefore finds active batches expiring before the given time
	FindExpiringBefore(ctx context.Context, t time.Time) ([]Batch, error)

	// Save creates or updates a batch
	Save(ctx context.Context, batch *Batch) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, batch *Batch) error

	// Count counts batches matching the filter
	Count(ctx context.Context, filter BatchFilter) (int64, error)
}

// BatchFilter carries batch search criteria
type BatchFilter struct {
	shared.Filter
	BatchNumber string
	ProductID   *uuid.UUID
	SalesmanID  *uuid.UUID
	ActiveOnly  bool
}

// AssignmentRepository defines the interface for salesman assignment persistence
type AssignmentRepository interface {
	// FindByID finds an assignment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SalesmanAssignment, error)

	// FindByBatchAndSalesman finds the assignment for a batch-salesman pair
	FindByBatchAndSalesman(ctx context.Context, batchID, salesmanID uuid.UUID) (*SalesmanAssignment, error)

	// FindByBatch finds all assignments for a batch
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]SalesmanAssignment, error)

	// FindBySalesman finds all assignments held by a salesman
	FindBySalesman(ctx context.Context, salesmanID uuid.UUID) ([]SalesmanAssignment, error)

	// FindOutstandingBySalesmanAndProduct finds the salesman's unsettled
	// assignments for a product, oldest batch manufacturing date first
	FindOutstandingBySalesmanAndProduct(ctx context.Context, salesmanID, productID uuid.UUID) ([]SalesmanAssignment, error)

	// Save creates or updates an assignment
	Save(ctx context.Context, assignment *SalesmanAssignment) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, assignment *SalesmanAssignment) error
}

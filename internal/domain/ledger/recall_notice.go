package ledger

import (
	"context"
	"time"

	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RecallNotice records a recall issued against a batch. The notice can
// exist before the batch's own status transition is processed; while a
// notice is active, traceability displays the batch as RECALLED even if
// the stored status has not caught up yet.
type RecallNotice struct {
	shared.BaseAggregateRoot
	BatchID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Reason   string    `gorm:"size:256;not null"`
	IssuedAt time.Time `gorm:"not null"`
	Active   bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (RecallNotice) TableName() string {
	return "recall_notices"
}

// NewRecallNotice creates an active recall notice for a batch
func NewRecallNotice(batchID uuid.UUID, reason string) (*RecallNotice, error) {
	if batchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch ID cannot be empty")
	}
	if reason == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Recall reason is required")
	}

	return &RecallNotice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchID:           batchID,
		Reason:            reason,
		IssuedAt:          time.Now(),
		Active:            true,
	}, nil
}

// Withdraw deactivates the notice
func (n *RecallNotice) Withdraw() {
	n.Active = false
	n.UpdatedAt = time.Now()
	n.IncrementVersion()
}

// RecallRepository defines the interface for recall notice persistence
type RecallRepository interface {
	// FindByID finds a recall notice by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*RecallNotice, error)

	// FindActiveByBatch finds active recall notices for a batch
	FindActiveByBatch(ctx context.Context, batchID uuid.UUID) ([]RecallNotice, error)

	// Save creates or updates a recall notice
	Save(ctx context.Context, notice *RecallNotice) error
}

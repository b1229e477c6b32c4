package ledger

import (
	"context"
	"time"

	"github.com/fieldsale/backend/internal/domain/catalog"
	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiveBatchRequest is the input for booking new stock into the ledger
type ReceiveBatchRequest struct {
	ProductID         uuid.UUID       `json:"product_id" binding:"required"`
	BatchNumber       string          `json:"batch_number" binding:"required"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required,dgt0"`
	ManufacturingDate time.Time       `json:"manufacturing_date" binding:"required"`
	ExpiryDate        *time.Time      `json:"expiry_date"`
}

// QualityCheckRequest moves a batch's quality status after inspection
type QualityCheckRequest struct {
	Status string `json:"status" binding:"required"`
}

// RecallRequest recalls a batch
type RecallRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// BatchResponse is the ledger view of one batch
type BatchResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	BatchNumber       string          `json:"batch_number"`
	InitialQuantity   decimal.Decimal `json:"initial_quantity"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	AllocatedQuantity decimal.Decimal `json:"allocated_quantity"`
	TotalSold         decimal.Decimal `json:"total_sold"`
	TotalReturned     decimal.Decimal `json:"total_returned"`
	ManufacturingDate time.Time       `json:"manufacturing_date"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	QualityStatus     string          `json:"quality_status"`
	ReturnRate        decimal.Decimal `json:"return_rate"`
	IsExpired         bool            `json:"is_expired"`
	Active            bool            `json:"active"`
}

// BatchService handles batch lifecycle operations outside of trading:
// receipt of stock, quality checks, and recall processing
type BatchService struct {
	batchRepo      ledger.BatchRepository
	recallRepo     ledger.RecallRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewBatchService creates a new BatchService
func NewBatchService(
	batchRepo ledger.BatchRepository,
	recallRepo ledger.RecallRepository,
	productRepo catalog.ProductRepository,
) *BatchService {
	return &BatchService{
		batchRepo:   batchRepo,
		recallRepo:  recallRepo,
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BatchService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ReceiveBatch books newly received stock as a fresh batch
func (s *BatchService) ReceiveBatch(ctx context.Context, req *ReceiveBatchRequest) (*BatchResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	if existing, err := s.batchRepo.FindByBatchNumber(ctx, req.BatchNumber); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	batch, err := ledger.NewBatch(req.ProductID, req.BatchNumber, req.Quantity,
		req.ManufacturingDate, req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, batch)

	return toBatchResponse(batch), nil
}

// GetBatch returns one batch
func (s *BatchService) GetBatch(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// SearchBatches returns a page of batches matching the filter
func (s *BatchService) SearchBatches(ctx context.Context, filter ledger.BatchFilter) (*shared.Paginated[BatchResponse], error) {
	batches, err := s.batchRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.batchRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]BatchResponse, 0, len(batches))
	for idx := range batches {
		items = append(items, *toBatchResponse(&batches[idx]))
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ApplyQualityCheck moves a batch's quality status after inspection
func (s *BatchService) ApplyQualityCheck(ctx context.Context, batchID uuid.UUID, req *QualityCheckRequest) (*BatchResponse, error) {
	status := ledger.QualityStatus(req.Status)
	if !status.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown quality status")
	}

	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	if err := batch.ApplyQualityCheck(status); err != nil {
		return nil, err
	}
	batch.RefreshActive()

	if err := s.batchRepo.SaveWithLock(ctx, batch); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, batch)

	return toBatchResponse(batch), nil
}

// ProcessRecall recalls a batch and files the recall notice. The stored
// quality status flips to RECALLED here; until this runs, an active
// notice only downgrades the displayed status.
func (s *BatchService) ProcessRecall(ctx context.Context, batchID uuid.UUID, req *RecallRequest) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	notice, err := ledger.NewRecallNotice(batch.ID, req.Reason)
	if err != nil {
		return nil, err
	}
	if err := batch.Recall(req.Reason); err != nil {
		return nil, err
	}

	if err := s.batchRepo.SaveWithLock(ctx, batch); err != nil {
		return nil, err
	}
	if err := s.recallRepo.Save(ctx, notice); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, batch)

	return toBatchResponse(batch), nil
}

func toBatchResponse(b *ledger.Batch) *BatchResponse {
	return &BatchResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		BatchNumber:       b.BatchNumber,
		InitialQuantity:   b.InitialQuantity,
		CurrentQuantity:   b.CurrentQuantity,
		AllocatedQuantity: b.AllocatedQuantity,
		TotalSold:         b.TotalSold,
		TotalReturned:     b.TotalReturned,
		ManufacturingDate: b.ManufacturingDate,
		ExpiryDate:        b.ExpiryDate,
		QualityStatus:     b.QualityStatus.String(),
		ReturnRate:        b.ReturnRate(),
		IsExpired:         b.IsExpired(),
		Active:            b.Active,
	}
}

func (s *BatchService) publishEvents(ctx context.Context, batch *ledger.Batch) {
	if s.eventPublisher == nil {
		return
	}
	events := batch.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	batch.ClearDomainEvents()
}

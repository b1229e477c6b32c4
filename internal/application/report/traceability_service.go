package report

import (
	"context"
	"time"

	"github.com/fieldsale/backend/internal/domain/catalog"
	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/report"
	"github.com/google/uuid"
)

// TraceabilityService reconstructs the full lifecycle of a batch and
// produces the fixed-shape reports. It is strictly read-only: every
// query reads committed state, and ledger mutations commit atomically,
// so no view ever shows a half-applied settlement or return.
type TraceabilityService struct {
	batchRepo      ledger.BatchRepository
	assignmentRepo ledger.AssignmentRepository
	recallRepo     ledger.RecallRepository
	productRepo    catalog.ProductRepository
	reportRepo     report.ReportRepository
}

// NewTraceabilityService creates a new TraceabilityService
func NewTraceabilityService(
	batchRepo ledger.BatchRepository,
	assignmentRepo ledger.AssignmentRepository,
	recallRepo ledger.RecallRepository,
	productRepo catalog.ProductRepository,
	reportRepo report.ReportRepository,
) *TraceabilityService {
	return &TraceabilityService{
		batchRepo:      batchRepo,
		assignmentRepo: assignmentRepo,
		recallRepo:     recallRepo,
		productRepo:    productRepo,
		reportRepo:     reportRepo,
	}
}

// GetBatchTraceability composes the full lineage view for one batch
func (s *TraceabilityService) GetBatchTraceability(ctx context.Context, batchID uuid.UUID) (*report.BatchTraceability, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	productName := ""
	if product, err := s.productRepo.FindByID(ctx, batch.ProductID); err == nil {
		productName = product.Name
	}

	sales, err := s.reportRepo.SalesByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	returns, err := s.reportRepo.ReturnsByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.FindByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	assignmentEntries := make([]report.AssignmentTraceEntry, 0, len(assignments))
	for idx := range assignments {
		a := &assignments[idx]
		assignmentEntries = append(assignmentEntries, report.AssignmentTraceEntry{
			AssignmentID:      a.ID,
			SalesmanID:        a.SalesmanID,
			AssignedQuantity:  a.AssignedQuantity,
			DeliveredQuantity: a.DeliveredQuantity,
			SoldQuantity:      a.SoldQuantity,
			ReturnedQuantity:  a.ReturnedQuantity,
			Outstanding:       a.Outstanding(),
			Status:            a.Status,
		})
	}

	effective := batch.QualityStatus
	if notices, err := s.recallRepo.FindActiveByBatch(ctx, batchID); err == nil && len(notices) > 0 {
		effective = ledger.QualityRecalled
	}

	return &report.BatchTraceability{
		BatchID:                batch.ID,
		BatchNumber:            batch.BatchNumber,
		ProductID:              batch.ProductID,
		ProductName:            productName,
		InitialQuantity:        batch.InitialQuantity,
		CurrentQuantity:        batch.CurrentQuantity,
		AllocatedQuantity:      batch.AllocatedQuantity,
		TotalSold:              batch.TotalSold,
		TotalReturned:          batch.TotalReturned,
		ReturnRate:             batch.ReturnRate(),
		IsExpired:              batch.IsExpired(),
		QualityStatus:          batch.QualityStatus,
		EffectiveQualityStatus: effective,
		ManufacturingDate:      batch.ManufacturingDate,
		ExpiryDate:             batch.ExpiryDate,
		Sales:                  sales,
		Returns:                returns,
		Assignments:            assignmentEntries,
	}, nil
}

// GetReturnsByReason aggregates approved returns by reason in a date range
func (s *TraceabilityService) GetReturnsByReason(ctx context.Context, from, to time.Time) ([]report.ReturnsByReasonRow, error) {
	return s.reportRepo.ReturnsByReason(ctx, from, to)
}

// GetBatchAnalysis summarizes every batch's ledger position
func (s *TraceabilityService) GetBatchAnalysis(ctx context.Context) ([]report.BatchAnalysisRow, error) {
	return s.reportRepo.BatchAnalysis(ctx)
}

// GetDailyTrend returns per-day sales and returns volume in a date range
func (s *TraceabilityService) GetDailyTrend(ctx context.Context, from, to time.Time) ([]report.DailyTrendRow, error) {
	return s.reportRepo.DailyTrend(ctx, from, to)
}

package trade

import (
	"context"

	"github.com/fieldsale/backend/internal/domain/catalog"
	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/fieldsale/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnService quotes and approves product returns. Calculation creates
// a pending Return record; approval is the only mutating transition and
// runs the ledger restoration plus the invoice balance reduction in one
// transaction.
type ReturnService struct {
	txScope        TransactionScope
	productRepo    catalog.ProductRepository
	stockLedger    *ledger.StockLedger
	calculator     *trade.ReturnCalculator
	eventPublisher shared.EventPublisher
}

// NewReturnService creates a new ReturnService with the given deduction schedule
func NewReturnService(txScope TransactionScope, productRepo catalog.ProductRepository, rates trade.DeductionRates) *ReturnService {
	return &ReturnService{
		txScope:     txScope,
		productRepo: productRepo,
		stockLedger: ledger.NewStockLedger(),
		calculator:  trade.NewReturnCalculator(rates),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CalculateReturn quotes a return against an invoice line and records it
// as a pending Return. The deduction uses the batch's quality status at
// calculation time.
func (s *ReturnService) CalculateReturn(ctx context.Context, req *CalculateReturnRequest) (*ReturnCalculationResponse, error) {
	var ret *trade.Return
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByID(ctx, req.OriginalInvoiceID)
		if err != nil {
			return err
		}

		item, err := itemForBatch(invoice, req.BatchID)
		if err != nil {
			return err
		}

		batch, err := repos.BatchRepo().FindByID(ctx, req.BatchID)
		if err != nil {
			return err
		}

		var costPrice *decimal.Decimal
		if product, err := s.productRepo.FindByID(ctx, item.ProductID); err == nil {
			costPrice = &product.CostPrice
		}

		comp, err := s.calculator.Calculate(req.Quantity, item.UnitPrice, item.Returnable(),
			batch.QualityStatus, costPrice)
		if err != nil {
			return err
		}

		ret, err = trade.NewReturn(invoice.ID, item.ID, batch.ID, req.Quantity, req.Reason, comp)
		if err != nil {
			return err
		}

		return repos.ReturnRepo().Save(ctx, ret)
	})
	if err != nil {
		return nil, err
	}

	return toReturnCalculationResponse(ret), nil
}

// ApproveReturn approves a pending return: the ledger restores the stock,
// the invoice line books the returned quantity, and the invoice's payable
// balance drops by the return amount. Approval is irreversible; a second
// call fails with ALREADY_APPROVED and mutates nothing.
func (s *ReturnService) ApproveReturn(ctx context.Context, returnID uuid.UUID) (*ApproveReturnResponse, error) {
	var ret *trade.Return
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		ret, err = repos.ReturnRepo().FindByID(ctx, returnID)
		if err != nil {
			return err
		}

		if err := ret.Approve(); err != nil {
			return err
		}

		invoice, err := repos.InvoiceRepo().FindByID(ctx, ret.InvoiceID)
		if err != nil {
			return err
		}
		item, err := invoice.ItemByID(ret.InvoiceItemID)
		if err != nil {
			return err
		}
		if err := item.RecordReturn(ret.Quantity); err != nil {
			return err
		}
		if err := invoice.ReduceOutstanding(ret.TotalAmount.Amount()); err != nil {
			return err
		}

		batch, err := repos.BatchRepo().FindByID(ctx, ret.BatchID)
		if err != nil {
			return err
		}
		assignment, err := repos.AssignmentRepo().FindByID(ctx, item.AssignmentID)
		if err != nil {
			return err
		}
		if err := s.stockLedger.RecordReturn(batch, assignment, ret.Quantity); err != nil {
			return err
		}

		if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
			return err
		}
		if err := repos.AssignmentRepo().SaveWithLock(ctx, assignment); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		if err := repos.ReturnRepo().SaveWithLock(ctx, ret); err != nil {
			return err
		}

		s.publishEvents(ctx, batch)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, ret)

	return &ApproveReturnResponse{
		ReturnID:    ret.ID,
		BatchID:     ret.BatchID,
		Quantity:    ret.Quantity,
		TotalAmount: ret.TotalAmount.Amount(),
		ApprovedAt:  *ret.ApprovedAt,
	}, nil
}

// itemForBatch finds the invoice item that sold from the given batch
func itemForBatch(invoice *trade.Invoice, batchID uuid.UUID) (*trade.InvoiceItem, error) {
	for idx := range invoice.Items {
		if invoice.Items[idx].BatchID == batchID {
			return &invoice.Items[idx], nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Invoice has no item from this batch")
}

func (s *ReturnService) publishEvents(ctx context.Context, carrier eventCarrier) {
	if s.eventPublisher == nil {
		return
	}
	events := carrier.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	carrier.ClearDomainEvents()
}

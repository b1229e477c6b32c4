package trade

import (
	"context"
	"fmt"

	"github.com/fieldsale/backend/internal/domain/catalog"
	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/fieldsale/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceService creates shop invoices. Each requested line is drawn
// from the salesman's outstanding assignments in FIFO order by batch
// manufacturing date; a single requested line can therefore produce
// several invoice items when it spans batches.
type InvoiceService struct {
	txScope            TransactionScope
	productRepo        catalog.ProductRepository
	stockLedger        *ledger.StockLedger
	pricingEngine      *trade.PricingEngine
	defaultSalesmanPct decimal.Decimal
	defaultShopPct     decimal.Decimal
	eventPublisher     shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(txScope TransactionScope, productRepo catalog.ProductRepository) *InvoiceService {
	return &InvoiceService{
		txScope:       txScope,
		productRepo:   productRepo,
		stockLedger:   ledger.NewStockLedger(),
		pricingEngine: trade.NewPricingEngine(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetDefaultMargins sets the margin percentages applied to lines that
// carry no margins of their own. A line with any explicit margin keeps
// exactly what it asked for.
func (s *InvoiceService) SetDefaultMargins(salesmanPct, shopPct decimal.Decimal) {
	s.defaultSalesmanPct = salesmanPct
	s.defaultShopPct = shopPct
}

// CreateInvoice prices and persists a new invoice, booking every sold
// quantity against the ledger in the same transaction
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := trade.NewInvoice(req.InvoiceNumber, req.ShopID, req.SalesmanID,
		req.DueDate, req.TaxAmount, req.DiscountAmount, req.Notes)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range req.Items {
			if _, err := s.productRepo.FindByID(ctx, line.ProductID); err != nil {
				return err
			}
			if err := s.sellLine(ctx, repos, invoice, line); err != nil {
				return err
			}
		}

		if err := invoice.Finalize(s.pricingEngine); err != nil {
			return err
		}

		return repos.InvoiceRepo().Save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	return toInvoiceResponse(invoice), nil
}

// GetInvoice returns one invoice with its items
func (s *InvoiceService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	var invoice *trade.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return toInvoiceResponse(invoice), nil
}

// sellLine drains one requested line from the salesman's assignments in
// FIFO order, booking each drawn chunk against batch and assignment
func (s *InvoiceService) sellLine(ctx context.Context, repos TransactionalRepositories, invoice *trade.Invoice, line CreateInvoiceItemRequest) error {
	if line.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Item quantity must be positive")
	}

	assignments, err := repos.AssignmentRepo().FindOutstandingBySalesmanAndProduct(ctx, invoice.SalesmanID, line.ProductID)
	if err != nil {
		return err
	}

	salesmanPct, shopPct := line.SalesmanMarginPct, line.ShopMarginPct
	if salesmanPct.IsZero() && shopPct.IsZero() {
		salesmanPct, shopPct = s.defaultSalesmanPct, s.defaultShopPct
	}

	remaining := line.Quantity
	for idx := range assignments {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		assignment := &assignments[idx]
		available := assignment.Outstanding()
		if available.LessThanOrEqual(decimal.Zero) {
			continue
		}

		chunk := decimal.Min(remaining, available)

		batch, err := repos.BatchRepo().FindByID(ctx, assignment.BatchID)
		if err != nil {
			return err
		}
		if err := s.stockLedger.RecordSale(batch, assignment, chunk); err != nil {
			return err
		}
		if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
			return err
		}
		if err := repos.AssignmentRepo().SaveWithLock(ctx, assignment); err != nil {
			return err
		}
		s.publishEvents(ctx, batch)

		if err := invoice.AddItem(s.pricingEngine, line.ProductID, batch.ID, assignment.ID,
			chunk, line.UnitPrice, salesmanPct, shopPct); err != nil {
			return err
		}

		s.recordDeliverySale(ctx, repos, invoice.SalesmanID, batch.ID, chunk)

		remaining = remaining.Sub(chunk)
	}

	if remaining.IsPositive() {
		return shared.NewDomainError("INSUFFICIENT_ALLOCATED_STOCK",
			fmt.Sprintf("Salesman holds too little stock of product %s, short by %s", line.ProductID, remaining))
	}

	return nil
}

// recordDeliverySale mirrors the sold quantity onto the salesman's open
// delivery so the settlement sheet shows it. A sale with no matching
// open delivery line is legal and simply skipped.
func (s *InvoiceService) recordDeliverySale(ctx context.Context, repos TransactionalRepositories, salesmanID, batchID uuid.UUID, quantity decimal.Decimal) {
	deliveries, err := repos.DeliveryRepo().FindBySalesman(ctx, salesmanID)
	if err != nil {
		return
	}
	for idx := range deliveries {
		delivery := &deliveries[idx]
		if delivery.IsSettled() {
			continue
		}
		if err := delivery.RecordSale(batchID, quantity); err != nil {
			continue
		}
		_ = repos.DeliveryRepo().SaveWithLock(ctx, delivery)
		return
	}
}

func (s *InvoiceService) publishEvents(ctx context.Context, carrier eventCarrier) {
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

package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldsale/backend/internal/domain/catalog"
	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/fieldsale/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// SettlementService orchestrates delivery creation and reconciliation.
// Settlement is the compound transaction of the system: it moves unsold
// stock back into every touched batch, flips the assignments and the
// delivery to SETTLED, and persists the settlement record, all within
// one transaction scope.
type SettlementService struct {
	txScope          TransactionScope
	productRepo      catalog.ProductRepository
	stockLedger      *ledger.StockLedger
	calculator       *trade.SettlementCalculator
	idempotencyStore shared.IdempotencyStore
	idempotencyTTL   time.Duration
	eventPublisher   shared.EventPublisher
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	txScope TransactionScope,
	productRepo catalog.ProductRepository,
	idempotencyStore shared.IdempotencyStore,
) *SettlementService {
	return &SettlementService{
		txScope:          txScope,
		productRepo:      productRepo,
		stockLedger:      ledger.NewStockLedger(),
		calculator:       trade.NewSettlementCalculator(),
		idempotencyStore: idempotencyStore,
		idempotencyTTL:   shared.DefaultIdempotencyConfig().TTL,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SettlementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyTTL overrides how long settlement dedup keys are retained
func (s *SettlementService) SetIdempotencyTTL(ttl time.Duration) {
	if ttl > 0 {
		s.idempotencyTTL = ttl
	}
}

// CreateDelivery hands batches to a salesman: each item allocates stock
// out of the batch into the salesman's assignment and records the
// delivery line, all in one transaction.
func (s *SettlementService) CreateDelivery(ctx context.Context, req *CreateDeliveryRequest) (*SettlementDataResponse, error) {
	deliveryDate := req.DeliveryDate
	if deliveryDate.IsZero() {
		deliveryDate = time.Now()
	}

	delivery, err := trade.NewDelivery(req.DeliveryNumber, req.SalesmanID, deliveryDate)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, item := range req.Items {
			batch, err := repos.BatchRepo().FindByID(ctx, item.BatchID)
			if err != nil {
				return err
			}

			assignment, err := s.findOrCreateAssignment(ctx, repos, batch.ID, req.SalesmanID)
			if err != nil {
				return err
			}

			if err := s.stockLedger.Allocate(batch, assignment, item.Quantity); err != nil {
				return err
			}
			if err := delivery.AddItem(batch.ProductID, batch.ID, assignment.ID, item.Quantity); err != nil {
				return err
			}

			if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
				return err
			}
			if err := repos.AssignmentRepo().Save(ctx, assignment); err != nil {
				return err
			}
			s.publishEvents(ctx, batch)
		}

		return repos.DeliveryRepo().Save(ctx, delivery)
	})
	if err != nil {
		return nil, err
	}

	return s.toSettlementData(ctx, delivery)
}

// GetSettlementData returns the reconciliation sheet for a delivery
func (s *SettlementService) GetSettlementData(ctx context.Context, deliveryID uuid.UUID) (*SettlementDataResponse, error) {
	var delivery *trade.Delivery
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		delivery, err = repos.DeliveryRepo().FindByID(ctx, deliveryID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.toSettlementData(ctx, delivery)
}

// SettleDelivery reconciles a delivery. The whole operation is
// all-or-nothing; re-invocation on a settled delivery is rejected with
// ALREADY_SETTLED and performs no mutation.
func (s *SettlementService) SettleDelivery(ctx context.Context, deliveryID uuid.UUID, req *SettleDeliveryRequest) (*SettlementResponse, error) {
	// Fast-path dedup; the delivery status check inside the transaction
	// remains the authoritative guard.
	if s.idempotencyStore != nil {
		processed, err := s.idempotencyStore.IsProcessed(ctx, settlementKey(deliveryID))
		if err != nil {
			return nil, err
		}
		if processed {
			return nil, shared.ErrAlreadySettled
		}
	}

	inputs := make([]trade.SettlementInput, 0, len(req.Items))
	for _, item := range req.Items {
		inputs = append(inputs, trade.SettlementInput{
			DeliveryItemID:    item.DeliveryItemID,
			RemainingQuantity: item.RemainingQuantity,
			MarginEarned:      item.MarginEarned,
		})
	}

	var settlement *trade.Settlement
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		delivery, err := repos.DeliveryRepo().FindByID(ctx, deliveryID)
		if err != nil {
			return err
		}

		result, err := s.calculator.Calculate(delivery, inputs)
		if err != nil {
			return err
		}

		// Several lines may draw from the same batch and hence the same
		// assignment; the assignment flips terminal once per settlement.
		settled := make(map[uuid.UUID]bool, len(result.Lines))
		for _, line := range result.Lines {
			batch, err := repos.BatchRepo().FindByID(ctx, line.Item.BatchID)
			if err != nil {
				return err
			}
			if err := s.stockLedger.SettleRemaining(batch, line.RemainingQuantity); err != nil {
				return err
			}
			if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
				return err
			}
			s.publishEvents(ctx, batch)

			if settled[line.Item.AssignmentID] {
				continue
			}
			settled[line.Item.AssignmentID] = true

			assignment, err := repos.AssignmentRepo().FindByID(ctx, line.Item.AssignmentID)
			if err != nil {
				return err
			}
			if err := assignment.Settle(); err != nil {
				return err
			}
			if err := repos.AssignmentRepo().SaveWithLock(ctx, assignment); err != nil {
				return err
			}
		}

		settlement, err = s.calculator.Apply(delivery, result, req.SettlementNotes)
		if err != nil {
			return err
		}

		if err := repos.DeliveryRepo().SaveWithLock(ctx, delivery); err != nil {
			return err
		}
		if err := repos.DeliveryRepo().SaveSettlement(ctx, settlement); err != nil {
			return err
		}
		s.publishEvents(ctx, delivery)

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.idempotencyStore != nil {
		_, _ = s.idempotencyStore.MarkProcessed(ctx, settlementKey(deliveryID), s.idempotencyTTL)
	}

	return &SettlementResponse{
		DeliveryID:     settlement.DeliveryID,
		TotalReturning: settlement.TotalReturning,
		TotalMargin:    settlement.TotalMargin,
		SettledAt:      settlement.SettledAt,
	}, nil
}

func (s *SettlementService) findOrCreateAssignment(ctx context.Context, repos TransactionalRepositories, batchID, salesmanID uuid.UUID) (*ledger.SalesmanAssignment, error) {
	assignment, err := repos.AssignmentRepo().FindByBatchAndSalesman(ctx, batchID, salesmanID)
	if err == nil {
		return assignment, nil
	}
	if de, ok := err.(*shared.DomainError); !ok || de.Code != "NOT_FOUND" {
		return nil, err
	}
	return ledger.NewSalesmanAssignment(batchID, salesmanID)
}

func (s *SettlementService) toSettlementData(ctx context.Context, delivery *trade.Delivery) (*SettlementDataResponse, error) {
	items := make([]SettlementDataItemResponse, 0, len(delivery.Items))
	for _, item := range delivery.Items {
		productName := ""
		if product, err := s.productRepo.FindByID(ctx, item.ProductID); err == nil {
			productName = product.Name
		}
		items = append(items, SettlementDataItemResponse{
			DeliveryItemID:    item.ID,
			ProductID:         item.ProductID,
			ProductName:       productName,
			BatchID:           item.BatchID,
			DeliveredQuantity: item.DeliveredQuantity,
			SoldQuantity:      item.SoldQuantity,
			RemainingQuantity: item.RemainingQuantity,
			MarginEarned:      item.MarginEarned,
		})
	}

	return &SettlementDataResponse{
		DeliveryID:   delivery.ID,
		SalesmanID:   delivery.SalesmanID,
		DeliveryDate: delivery.DeliveryDate,
		Status:       delivery.Status.String(),
		Items:        items,
	}, nil
}

type eventCarrier interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

func (s *SettlementService) publishEvents(ctx context.Context, carrier eventCarrier) {
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

func settlementKey(deliveryID uuid.UUID) string {
	return fmt.Sprintf("settlement:%s", deliveryID)
}

package trade

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fieldsale/backend/internal/domain/catalog"
	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/fieldsale/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// In-memory repositories backing the service tests. SaveWithLock does
// not simulate version conflicts; optimistic locking is covered by the
// persistence tests.

type memBatchRepo struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*ledger.Batch
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{batches: make(map[uuid.UUID]*ledger.Batch)}
}

func (r *memBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.batches[id]; ok {
		return b, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memBatchRepo) FindByBatchNumber(_ context.Context, batchNumber string) (*ledger.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.batches {
		if b.BatchNumber == batchNumber {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memBatchRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]ledger.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.Batch
	for _, b := range r.batches {
		if b.ProductID == productID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ManufacturingDate.Before(out[j].ManufacturingDate)
	})
	return out, nil
}

func (r *memBatchRepo) Search(_ context.Context, _ ledger.BatchFilter) ([]ledger.Batch, error) {
	return nil, nil
}

func (r *memBatchRepo) FindExpiringBefore(_ context.Context, _ time.Time) ([]ledger.Batch, error) {
	return nil, nil
}

func (r *memBatchRepo) Save(_ context.Context, batch *ledger.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[batch.ID] = batch
	return nil
}

func (r *memBatchRepo) SaveWithLock(ctx context.Context, batch *ledger.Batch) error {
	return r.Save(ctx, batch)
}

func (r *memBatchRepo) Count(_ context.Context, _ ledger.BatchFilter) (int64, error) {
	return int64(len(r.batches)), nil
}

type memAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[uuid.UUID]*ledger.SalesmanAssignment
	batches     *memBatchRepo
}

func newMemAssignmentRepo(batches *memBatchRepo) *memAssignmentRepo {
	return &memAssignmentRepo{
		assignments: make(map[uuid.UUID]*ledger.SalesmanAssignment),
		batches:     batches,
	}
}

func (r *memAssignmentRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.SalesmanAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.assignments[id]; ok {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memAssignmentRepo) FindByBatchAndSalesman(_ context.Context, batchID, salesmanID uuid.UUID) (*ledger.SalesmanAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.BatchID == batchID && a.SalesmanID == salesmanID {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAssignmentRepo) FindByBatch(_ context.Context, batchID uuid.UUID) ([]ledger.SalesmanAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.SalesmanAssignment
	for _, a := range r.assignments {
		if a.BatchID == batchID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAssignmentRepo) FindBySalesman(_ context.Context, salesmanID uuid.UUID) ([]ledger.SalesmanAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.SalesmanAssignment
	for _, a := range r.assignments {
		if a.SalesmanID == salesmanID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAssignmentRepo) FindOutstandingBySalesmanAndProduct(ctx context.Context, salesmanID, productID uuid.UUID) ([]ledger.SalesmanAssignment, error) {
	r.mu.Lock()
	candidates := make([]*ledger.SalesmanAssignment, 0)
	for _, a := range r.assignments {
		if a.SalesmanID == salesmanID && !a.IsSettled() && a.Outstanding().IsPositive() {
			candidates = append(candidates, a)
		}
	}
	r.mu.Unlock()

	var out []ledger.SalesmanAssignment
	dates := make(map[uuid.UUID]time.Time)
	for _, a := range candidates {
		batch, err := r.batches.FindByID(ctx, a.BatchID)
		if err != nil || batch.ProductID != productID {
			continue
		}
		dates[a.ID] = batch.ManufacturingDate
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		return dates[out[i].ID].Before(dates[out[j].ID])
	})
	return out, nil
}

func (r *memAssignmentRepo) Save(_ context.Context, assignment *ledger.SalesmanAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments[assignment.ID] = assignment
	return nil
}

func (r *memAssignmentRepo) SaveWithLock(ctx context.Context, assignment *ledger.SalesmanAssignment) error {
	return r.Save(ctx, assignment)
}

type memInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*trade.Invoice
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{invoices: make(map[uuid.UUID]*trade.Invoice)}
}

func (r *memInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invoices[id]; ok {
		return inv, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memInvoiceRepo) FindByInvoiceNumber(_ context.Context, invoiceNumber string) (*trade.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == invoiceNumber {
			return inv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memInvoiceRepo) FindByBatch(_ context.Context, batchID uuid.UUID) ([]trade.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.Invoice
	for _, inv := range r.invoices {
		for _, item := range inv.Items {
			if item.BatchID == batchID {
				out = append(out, *inv)
				break
			}
		}
	}
	return out, nil
}

func (r *memInvoiceRepo) Save(_ context.Context, invoice *trade.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *memInvoiceRepo) SaveWithLock(ctx context.Context, invoice *trade.Invoice) error {
	return r.Save(ctx, invoice)
}

type memDeliveryRepo struct {
	mu          sync.Mutex
	deliveries  map[uuid.UUID]*trade.Delivery
	settlements map[uuid.UUID]*trade.Settlement
}

func newMemDeliveryRepo() *memDeliveryRepo {
	return &memDeliveryRepo{
		deliveries:  make(map[uuid.UUID]*trade.Delivery),
		settlements: make(map[uuid.UUID]*trade.Settlement),
	}
}

func (r *memDeliveryRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.deliveries[id]; ok {
		return d, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memDeliveryRepo) FindBySalesman(_ context.Context, salesmanID uuid.UUID) ([]trade.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.Delivery
	for _, d := range r.deliveries {
		if d.SalesmanID == salesmanID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *memDeliveryRepo) FindUnsettledBefore(_ context.Context, _ time.Time) ([]trade.Delivery, error) {
	return nil, nil
}

func (r *memDeliveryRepo) Save(_ context.Context, delivery *trade.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries[delivery.ID] = delivery
	return nil
}

func (r *memDeliveryRepo) SaveWithLock(ctx context.Context, delivery *trade.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries[delivery.ID] = delivery
	return nil
}

func (r *memDeliveryRepo) SaveSettlement(_ context.Context, settlement *trade.Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.settlements[settlement.DeliveryID]; exists {
		return shared.ErrAlreadySettled
	}
	r.settlements[settlement.DeliveryID] = settlement
	return nil
}

func (r *memDeliveryRepo) FindSettlementByDelivery(_ context.Context, deliveryID uuid.UUID) (*trade.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.settlements[deliveryID]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

type memReturnRepo struct {
	mu      sync.Mutex
	returns map[uuid.UUID]*trade.Return
}

func newMemReturnRepo() *memReturnRepo {
	return &memReturnRepo{returns: make(map[uuid.UUID]*trade.Return)}
}

func (r *memReturnRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Return, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ret, ok := r.returns[id]; ok {
		return ret, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memReturnRepo) FindByBatch(_ context.Context, batchID uuid.UUID) ([]trade.Return, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.Return
	for _, ret := range r.returns {
		if ret.BatchID == batchID && ret.Approved {
			out = append(out, *ret)
		}
	}
	return out, nil
}

func (r *memReturnRepo) FindByInvoice(_ context.Context, invoiceID uuid.UUID) ([]trade.Return, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.Return
	for _, ret := range r.returns {
		if ret.InvoiceID == invoiceID {
			out = append(out, *ret)
		}
	}
	return out, nil
}

func (r *memReturnRepo) Save(_ context.Context, ret *trade.Return) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.returns[ret.ID] = ret
	return nil
}

func (r *memReturnRepo) SaveWithLock(ctx context.Context, ret *trade.Return) error {
	return r.Save(ctx, ret)
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *memProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

// fixture bundles the in-memory world one test operates on
type fixture struct {
	batches     *memBatchRepo
	assignments *memAssignmentRepo
	invoices    *memInvoiceRepo
	deliveries  *memDeliveryRepo
	returns     *memReturnRepo
	products    *memProductRepo
	txScope     TransactionScope
}

func newFixture() *fixture {
	batches := newMemBatchRepo()
	assignments := newMemAssignmentRepo(batches)
	invoices := newMemInvoiceRepo()
	deliveries := newMemDeliveryRepo()
	returns := newMemReturnRepo()
	return &fixture{
		batches:     batches,
		assignments: assignments,
		invoices:    invoices,
		deliveries:  deliveries,
		returns:     returns,
		products:    newMemProductRepo(),
		txScope:     NewNoOpTransactionScope(batches, assignments, invoices, deliveries, returns),
	}
}

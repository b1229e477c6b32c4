package trade

import (
	"context"

	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the ledger and trade
// repositories. When a function is executed within a transaction scope,
// all repository operations are part of the same database transaction
// and commit or roll back atomically. Settlement and return approval
// depend on this: a failing line must leave no ledger mutation behind.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// BatchRepo returns the batch repository scoped to the current transaction
	BatchRepo() ledger.BatchRepository
	// AssignmentRepo returns the assignment repository scoped to the current transaction
	AssignmentRepo() ledger.AssignmentRepository
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() trade.InvoiceRepository
	// DeliveryRepo returns the delivery repository scoped to the current transaction
	DeliveryRepo() trade.DeliveryRepository
	// ReturnRepo returns the return repository scoped to the current transaction
	ReturnRepo() trade.ReturnRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	batchRepo      ledger.BatchRepository
	assignmentRepo ledger.AssignmentRepository
	invoiceRepo    trade.InvoiceRepository
	deliveryRepo   trade.DeliveryRepository
	returnRepo     trade.ReturnRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	batchRepo ledger.BatchRepository,
	assignmentRepo ledger.AssignmentRepository,
	invoiceRepo trade.InvoiceRepository,
	deliveryRepo trade.DeliveryRepository,
	returnRepo trade.ReturnRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		batchRepo:      batchRepo,
		assignmentRepo: assignmentRepo,
		invoiceRepo:    invoiceRepo,
		deliveryRepo:   deliveryRepo,
		returnRepo:     returnRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BatchRepo returns the batch repository
func (s *NoOpTransactionScope) BatchRepo() ledger.BatchRepository { return s.batchRepo }

// AssignmentRepo returns the assignment repository
func (s *NoOpTransactionScope) AssignmentRepo() ledger.AssignmentRepository {
	return s.assignmentRepo
}

// InvoiceRepo returns the invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() trade.InvoiceRepository { return s.invoiceRepo }

// DeliveryRepo returns the delivery repository
func (s *NoOpTransactionScope) DeliveryRepo() trade.DeliveryRepository { return s.deliveryRepo }

// ReturnRepo returns the return repository
func (s *NoOpTransactionScope) ReturnRepo() trade.ReturnRepository { return s.returnRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

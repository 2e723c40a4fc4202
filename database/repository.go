package database

import (
	"context"
	"time"

	"github.com/batchlinehq/batchline/model"
)

// IDataSource defines the interface for data source operations, grouping
// related functionalities.
type IDataSource interface {
	transaction
	reactor
	product
	delayReason
}

// transaction defines methods for handling production runs.
type transaction interface {
	RecordTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction, expectedUpdatedAt time.Time) (*model.Transaction, error)
	GetAllTransactions(ctx context.Context, limit, offset int) ([]*model.Transaction, error)
	GetTransactionsCreatedBetween(ctx context.Context, from, to time.Time) ([]*model.Transaction, error)
}

// reactor defines methods for the equipment registry.
type reactor interface {
	CreateReactor(ctx context.Context, reactor model.Reactor) (model.Reactor, error)
	GetReactorByID(ctx context.Context, id string) (*model.Reactor, error)
	GetAllReactors(ctx context.Context) ([]model.Reactor, error)
}

// product defines methods for the product catalog.
type product interface {
	CreateProduct(ctx context.Context, product model.Product) (model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
}

// delayReason defines methods for delay reason administration.
type delayReason interface {
	CreateDelayReason(ctx context.Context, reason model.DelayReason) (model.DelayReason, error)
	GetAllDelayReasons(ctx context.Context) ([]model.DelayReason, error)
}

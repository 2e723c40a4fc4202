package batchline

import (
	"context"

	"github.com/batchlinehq/batchline/internal/apierror"
	"github.com/batchlinehq/batchline/model"
)

// CreateReactor registers a new reactor.
func (l *Batchline) CreateReactor(ctx context.Context, reactor model.Reactor) (model.Reactor, error) {
	if reactor.Name == "" {
		return model.Reactor{}, apierror.NewAPIError(apierror.ErrInvalidInput, "Reactor name is required", nil)
	}
	return l.datasource.CreateReactor(ctx, reactor)
}

// GetReactor retrieves a single reactor by ID.
func (l *Batchline) GetReactor(ctx context.Context, id string) (*model.Reactor, error) {
	return l.datasource.GetReactorByID(ctx, id)
}

// ListReactors retrieves every registered reactor.
func (l *Batchline) ListReactors(ctx context.Context) ([]model.Reactor, error) {
	return l.datasource.GetAllReactors(ctx)
}

package batchline

import (
	"context"

	"github.com/batchlinehq/batchline/internal/apierror"
	"github.com/batchlinehq/batchline/model"
)

// CreateProduct registers a new product recipe.
func (l *Batchline) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	if product.Name == "" {
		return model.Product{}, apierror.NewAPIError(apierror.ErrInvalidInput, "Product name is required", nil)
	}
	return l.datasource.CreateProduct(ctx, product)
}

// ListProducts retrieves every registered product.
func (l *Batchline) ListProducts(ctx context.Context) ([]model.Product, error) {
	return l.datasource.GetAllProducts(ctx)
}

// CreateDelayReason registers a new delay reason category.
func (l *Batchline) CreateDelayReason(ctx context.Context, reason model.DelayReason) (model.DelayReason, error) {
	if reason.Name == "" {
		return model.DelayReason{}, apierror.NewAPIError(apierror.ErrInvalidInput, "Delay reason name is required", nil)
	}
	return l.datasource.CreateDelayReason(ctx, reason)
}

// ListDelayReasons retrieves every delay reason category.
func (l *Batchline) ListDelayReasons(ctx context.Context) ([]model.DelayReason, error) {
	return l.datasource.GetAllDelayReasons(ctx)
}

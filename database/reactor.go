package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/batchlinehq/batchline/internal/apierror"
	"github.com/batchlinehq/batchline/model"
)

func (d Datasource) CreateReactor(ctx context.Context, reactor model.Reactor) (model.Reactor, error) {
	metaDataJSON, err := json.Marshal(reactor.MetaData)
	if err != nil {
		return model.Reactor{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	reactor.ReactorID = model.GenerateUUIDWithSuffix("rct")
	reactor.CreatedAt = time.Now()

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO reactors (reactor_id, name, created_at, meta_data)
		VALUES ($1, $2, $3, $4)
	`, reactor.ReactorID, reactor.Name, reactor.CreatedAt, metaDataJSON)

	if err != nil {
		return model.Reactor{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create reactor", err)
	}

	if d.Cache != nil {
		if err := d.Cache.Delete(ctx, "reactors:all"); err != nil {
			log.Printf("Failed to invalidate reactor cache: %v", err)
		}
	}

	return reactor, nil
}

func (d Datasource) GetReactorByID(ctx context.Context, id string) (*model.Reactor, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT reactor_id, name, created_at, meta_data
		FROM reactors
		WHERE reactor_id = $1
	`, id)

	reactor := &model.Reactor{}
	var metaDataJSON []byte
	err := row.Scan(&reactor.ReactorID, &reactor.Name, &reactor.CreatedAt, &metaDataJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Reactor with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve reactor", err)
	}

	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &reactor.MetaData); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}
	}

	return reactor, nil
}

func (d Datasource) GetAllReactors(ctx context.Context) ([]model.Reactor, error) {
	cacheKey := "reactors:all"

	var reactors []model.Reactor
	if d.Cache != nil {
		err := d.Cache.Get(ctx, cacheKey, &reactors)
		if err == nil && len(reactors) > 0 {
			return reactors, nil
		}
	}

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT reactor_id, name, created_at, meta_data
		FROM reactors
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve reactors", err)
	}
	defer rows.Close()

	reactors = []model.Reactor{}
	for rows.Next() {
		reactor := model.Reactor{}
		var metaDataJSON []byte
		err = rows.Scan(&reactor.ReactorID, &reactor.Name, &reactor.CreatedAt, &metaDataJSON)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan reactor data", err)
		}
		if len(metaDataJSON) > 0 {
			if err := json.Unmarshal(metaDataJSON, &reactor.MetaData); err != nil {
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
			}
		}
		reactors = append(reactors, reactor)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over reactors", err)
	}

	if d.Cache != nil && len(reactors) > 0 {
		if err := d.Cache.Set(ctx, cacheKey, reactors, 5*time.Minute); err != nil {
			log.Printf("Failed to cache reactors: %v", err)
		}
	}

	return reactors, nil
}

func (d Datasource) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	product.ProductID = model.GenerateUUIDWithSuffix("prd")
	product.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO products (product_id, name, created_at)
		VALUES ($1, $2, $3)
	`, product.ProductID, product.Name, product.CreatedAt)

	if err != nil {
		return model.Product{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create product", err)
	}

	return product, nil
}

func (d Datasource) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT product_id, name, created_at
		FROM products
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve products", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		product := model.Product{}
		err = rows.Scan(&product.ProductID, &product.Name, &product.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan product data", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over products", err)
	}

	return products, nil
}

func (d Datasource) CreateDelayReason(ctx context.Context, reason model.DelayReason) (model.DelayReason, error) {
	reason.DelayReasonID = model.GenerateUUIDWithSuffix("dly")
	reason.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO delay_reasons (delay_reason_id, name, created_at)
		VALUES ($1, $2, $3)
	`, reason.DelayReasonID, reason.Name, reason.CreatedAt)

	if err != nil {
		return model.DelayReason{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create delay reason", err)
	}

	return reason, nil
}

func (d Datasource) GetAllDelayReasons(ctx context.Context) ([]model.DelayReason, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT delay_reason_id, name, created_at
		FROM delay_reasons
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve delay reasons", err)
	}
	defer rows.Close()

	var reasons []model.DelayReason
	for rows.Next() {
		reason := model.DelayReason{}
		err = rows.Scan(&reason.DelayReasonID, &reason.Name, &reason.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan delay reason data", err)
		}
		reasons = append(reasons, reason)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over delay reasons", err)
	}

	return reasons, nil
}

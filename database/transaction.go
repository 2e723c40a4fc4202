package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/batchlinehq/batchline/internal/apierror"
	"github.com/batchlinehq/batchline/model"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

const transactionColumns = `transaction_id, reactor_id, product_id, work_order_no, lot_no, status, start_of_work, end_time, washing_started_at, actual_production_duration, delay_duration, washing_duration, caustic_amount_kg, delay_reason_id, description, created_at, updated_at, meta_data`

func (d Datasource) RecordTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	ctx, span := otel.Tracer("batchline.database").Start(ctx, "Saving production run to db")
	defer span.End()

	metaDataJSON, err := json.Marshal(txn.MetaData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	_, err = d.Conn.ExecContext(ctx,
		`INSERT INTO transactions(transaction_id,reactor_id,product_id,work_order_no,lot_no,status,start_of_work,end_time,washing_started_at,actual_production_duration,delay_duration,washing_duration,caustic_amount_kg,delay_reason_id,description,created_at,updated_at,meta_data) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		txn.TransactionID, txn.ReactorID, txn.ProductID, txn.WorkOrderNo, txn.LotNo, txn.Status, txn.StartOfWork, txn.End, txn.WashingStartedAt, txn.ActualProductionDuration, txn.DelayDuration, txn.WashingDuration, txn.CausticAmountKg, nullString(txn.DelayReasonID), txn.Description, txn.CreatedAt, txn.UpdatedAt, metaDataJSON,
	)

	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record production run", err)
	}

	return txn, nil
}

func (d Datasource) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE transaction_id = $1
	`, id)

	txn, err := scanTransactionRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Transaction with ID '%s' not found", id), err)
		}
		return nil, err
	}

	return txn, nil
}

// UpdateTransaction persists a mutated production run. The update only
// applies when the stored updated_at still equals expectedUpdatedAt; a
// stale token means another writer got there first.
func (d Datasource) UpdateTransaction(ctx context.Context, txn *model.Transaction, expectedUpdatedAt time.Time) (*model.Transaction, error) {
	ctx, span := otel.Tracer("batchline.database").Start(ctx, "Updating production run in db")
	defer span.End()

	metaDataJSON, err := json.Marshal(txn.MetaData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE transactions
		SET status = $3, start_of_work = $4, end_time = $5, washing_started_at = $6, actual_production_duration = $7, delay_duration = $8, washing_duration = $9, caustic_amount_kg = $10, delay_reason_id = $11, description = $12, updated_at = $13, meta_data = $14
		WHERE transaction_id = $1 AND updated_at = $2
	`, txn.TransactionID, expectedUpdatedAt, txn.Status, txn.StartOfWork, txn.End, txn.WashingStartedAt, txn.ActualProductionDuration, txn.DelayDuration, txn.WashingDuration, txn.CausticAmountKg, nullString(txn.DelayReasonID), txn.Description, txn.UpdatedAt, metaDataJSON)

	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update production run", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		exists, existsErr := d.transactionExists(ctx, txn.TransactionID)
		if existsErr != nil {
			return nil, existsErr
		}
		if exists {
			return nil, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Transaction with ID '%s' was modified by another request", txn.TransactionID), nil)
		}
		return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Transaction with ID '%s' not found", txn.TransactionID), nil)
	}

	return txn, nil
}

func (d Datasource) transactionExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM transactions WHERE transaction_id = $1)
	`, id).Scan(&exists)

	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check if transaction exists", err)
	}

	return exists, nil
}

func (d Datasource) GetAllTransactions(ctx context.Context, limit, offset int) ([]*model.Transaction, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve production runs", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

// GetTransactionsCreatedBetween returns every production run whose created_at
// falls inside [from, to]. Utilization reporting reads its input through here.
func (d Datasource) GetTransactionsCreatedBetween(ctx context.Context, from, to time.Time) ([]*model.Transaction, error) {
	ctx, span := otel.Tracer("batchline.database").Start(ctx, "Fetching production runs for reporting window")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC
	`, from, to)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve production runs for window", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransactionRow(row rowScanner) (*model.Transaction, error) {
	txn := &model.Transaction{}
	var (
		metaDataJSON     []byte
		startOfWork      sql.NullTime
		endTime          sql.NullTime
		washingStartedAt sql.NullTime
		productionDur    sql.NullString
		delayDur         sql.NullString
		washingDur       sql.NullString
		delayReasonID    sql.NullString
		description      sql.NullString
	)
	err := row.Scan(
		&txn.TransactionID,
		&txn.ReactorID,
		&txn.ProductID,
		&txn.WorkOrderNo,
		&txn.LotNo,
		&txn.Status,
		&startOfWork,
		&endTime,
		&washingStartedAt,
		&productionDur,
		&delayDur,
		&washingDur,
		&txn.CausticAmountKg,
		&delayReasonID,
		&description,
		&txn.CreatedAt,
		&txn.UpdatedAt,
		&metaDataJSON,
	)
	if err != nil {
		return nil, err
	}

	if startOfWork.Valid {
		txn.StartOfWork = &startOfWork.Time
	}
	if endTime.Valid {
		txn.End = &endTime.Time
	}
	if washingStartedAt.Valid {
		txn.WashingStartedAt = &washingStartedAt.Time
	}
	txn.ActualProductionDuration = productionDur.String
	txn.DelayDuration = delayDur.String
	txn.WashingDuration = washingDur.String
	txn.DelayReasonID = delayReasonID.String
	txn.Description = description.String

	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &txn.MetaData); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}
	}

	return txn, nil
}

func scanTransactionRows(rows *sql.Rows) ([]*model.Transaction, error) {
	var transactions []*model.Transaction

	for rows.Next() {
		txn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan production run data", err)
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over production runs", err)
	}

	return transactions, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

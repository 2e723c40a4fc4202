package batchline

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/batchlinehq/batchline/internal/apierror"
	redlock "github.com/batchlinehq/batchline/internal/lock"
	"github.com/batchlinehq/batchline/model"
)

var tracer = otel.Tracer("batchline.transactions")

// acquireLock serializes writers on a single production run. Distinct runs
// stay independent because each lock key is the run's own ID.
func (l *Batchline) acquireLock(ctx context.Context, transactionID string) (*redlock.Locker, error) {
	locker := redlock.NewLocker(l.redis, transactionID, model.GenerateUUIDWithSuffix("loc"))
	err := locker.Lock(ctx, time.Minute*30)
	if err != nil {
		return nil, err
	}
	return locker, nil
}

// CreateTransaction records a new planned production run after checking the
// reactor it is assigned to exists.
func (l *Batchline) CreateTransaction(ctx context.Context, transaction *model.Transaction) (*model.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Creating production run")
	defer span.End()

	if transaction.ReactorID == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Reactor ID is required", nil)
	}
	if _, err := l.datasource.GetReactorByID(ctx, transaction.ReactorID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	now := l.now()
	transaction.TransactionID = model.GenerateUUIDWithSuffix("txn")
	if transaction.Status == "" {
		transaction.Status = model.StatusPlanned
	} else if _, err := model.ParseStatus(string(transaction.Status)); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}
	transaction.CreatedAt = now
	transaction.UpdatedAt = now

	saved, err := l.datasource.RecordTransaction(ctx, transaction)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := l.SendWebhook(ctx, saved); err != nil {
		logrus.Error("webhook error", err)
	}

	return saved, nil
}

// TransitionTransaction moves a production run to newStatus, applying the
// status derivations and committing all-or-nothing. The run is locked for the
// duration of the read-modify-write, and the commit is additionally guarded by
// the updated_at token so a racing writer surfaces as a conflict instead of a
// lost update.
func (l *Batchline) TransitionTransaction(ctx context.Context, id string, newStatus model.Status, note string) (*model.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Transitioning production run")
	defer span.End()

	locker, err := l.acquireLock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer func(locker *redlock.Locker, ctx context.Context) {
		err := locker.Unlock(ctx)
		if err != nil {
			logrus.Error("lock error", err)
		}
	}(locker, ctx)

	transaction, err := l.datasource.GetTransaction(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	expectedUpdatedAt := transaction.UpdatedAt
	if err := transaction.ApplyTransition(newStatus, note, l.now()); err != nil {
		span.RecordError(err)
		if errors.Is(err, model.ErrMalformedDuration) {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrConflict, err.Error(), err)
	}

	saved, err := l.datasource.UpdateTransaction(ctx, transaction, expectedUpdatedAt)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := l.SendWebhook(ctx, saved); err != nil {
		logrus.Error("webhook error", err)
	}

	return saved, nil
}

// RecordDelay accumulates a delay interval onto a production run. Like
// transitions the read-modify-write runs under the record lock and commits
// through the conditional update.
func (l *Batchline) RecordDelay(ctx context.Context, id string, duration string, delayReasonID string, note string) (*model.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Recording production delay")
	defer span.End()

	locker, err := l.acquireLock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer func(locker *redlock.Locker, ctx context.Context) {
		err := locker.Unlock(ctx)
		if err != nil {
			logrus.Error("lock error", err)
		}
	}(locker, ctx)

	transaction, err := l.datasource.GetTransaction(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	now := l.now()
	expectedUpdatedAt := transaction.UpdatedAt
	if err := transaction.AddDelay(duration, delayReasonID, now); err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}
	transaction.AppendNote(note, now)

	saved, err := l.datasource.UpdateTransaction(ctx, transaction, expectedUpdatedAt)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return saved, nil
}

// GetTransaction retrieves a single production run by ID.
func (l *Batchline) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	return l.datasource.GetTransaction(ctx, id)
}

// ListTransactions retrieves production runs with limit/offset pagination.
func (l *Batchline) ListTransactions(ctx context.Context, limit, offset int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return l.datasource.GetAllTransactions(ctx, limit, offset)
}

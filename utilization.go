package batchline

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/batchlinehq/batchline/internal/apierror"
	"github.com/batchlinehq/batchline/model"
)

// ErrInvalidRange is returned when an analytics range has non-positive length.
var ErrInvalidRange = errors.New("invalid report range")

// ComputeUtilization aggregates reactor utilization over [from, to]. It is a
// pure function of its inputs: no persistence, no clock, safe to re-run.
//
// Every reactor in the input produces a row, zero-filled when none of its
// production runs fall inside the range. The aggregate row carries summed
// minutes but averaged percentages across the per-reactor rows; the averaged
// form matches the historical reports this replaces, even though it is not a
// range-weighted mean.
//
// A malformed duration on any in-range record aborts the whole report. Partial
// rows would mask a data-quality problem.
func ComputeUtilization(reactors []model.Reactor, transactions []*model.Transaction, from, to time.Time) (*model.UtilizationSummary, error) {
	rangeMinutes := to.Sub(from).Minutes()
	if rangeMinutes <= 0 {
		return nil, pkgerrors.Wrapf(ErrInvalidRange, "from %s to %s", from.Format(time.RFC3339), to.Format(time.RFC3339))
	}

	byReactor := make(map[string][]*model.Transaction)
	for _, txn := range transactions {
		createdAt := txn.CreatedAt
		if createdAt.Before(from) || createdAt.After(to) {
			continue
		}
		byReactor[txn.ReactorID] = append(byReactor[txn.ReactorID], txn)
	}

	summary := &model.UtilizationSummary{
		From:         from,
		To:           to,
		RangeMinutes: rangeMinutes,
		Rows:         make([]model.UtilizationRow, 0, len(reactors)),
	}

	var usageSum, idealSum float64

	for _, reactor := range reactors {
		row := model.UtilizationRow{
			ReactorID:   reactor.ReactorID,
			ReactorName: reactor.Name,
		}

		for _, txn := range byReactor[reactor.ReactorID] {
			production, err := model.ParseDurationMinutes(txn.ActualProductionDuration)
			if err != nil {
				return nil, err
			}
			washing, err := model.ParseDurationMinutes(txn.WashingDuration)
			if err != nil {
				return nil, err
			}
			delay, err := model.ParseDurationMinutes(txn.DelayDuration)
			if err != nil {
				return nil, err
			}
			row.TransactionCount++
			row.ProductionMinutes += production
			row.WashingMinutes += washing
			row.DelayMinutes += delay
		}

		activeMinutes := row.ProductionMinutes + row.WashingMinutes
		row.IdleMinutes = rangeMinutes - activeMinutes
		if row.IdleMinutes < 0 {
			row.IdleMinutes = 0
		}
		row.UsagePercent = activeMinutes / rangeMinutes * 100
		row.IdealUsagePercent = row.ProductionMinutes / rangeMinutes * 100
		row.Difference = row.UsagePercent - row.IdealUsagePercent

		row.ProductionTime = model.FormatDurationHuman(row.ProductionMinutes)
		row.WashingTime = model.FormatDurationHuman(row.WashingMinutes)
		row.DelayTime = model.FormatDurationHuman(row.DelayMinutes)
		row.IdleTime = model.FormatDurationHuman(row.IdleMinutes)

		usageSum += row.UsagePercent
		idealSum += row.IdealUsagePercent

		summary.Aggregate.TransactionCount += row.TransactionCount
		summary.Aggregate.ProductionMinutes += row.ProductionMinutes
		summary.Aggregate.WashingMinutes += row.WashingMinutes
		summary.Aggregate.DelayMinutes += row.DelayMinutes
		summary.Aggregate.IdleMinutes += row.IdleMinutes

		summary.Rows = append(summary.Rows, row)
	}

	if len(summary.Rows) > 0 {
		summary.Aggregate.UsagePercent = usageSum / float64(len(summary.Rows))
		summary.Aggregate.IdealUsagePercent = idealSum / float64(len(summary.Rows))
		summary.Aggregate.Difference = summary.Aggregate.UsagePercent - summary.Aggregate.IdealUsagePercent
	}
	summary.Aggregate.ReactorName = "all"
	summary.Aggregate.ProductionTime = model.FormatDurationHuman(summary.Aggregate.ProductionMinutes)
	summary.Aggregate.WashingTime = model.FormatDurationHuman(summary.Aggregate.WashingMinutes)
	summary.Aggregate.DelayTime = model.FormatDurationHuman(summary.Aggregate.DelayMinutes)
	summary.Aggregate.IdleTime = model.FormatDurationHuman(summary.Aggregate.IdleMinutes)

	return summary, nil
}

// UtilizationReport runs the analytics engine over the stored records. The
// report covers whole days: to is pushed to the last instant of its calendar
// day before the range is evaluated.
func (l *Batchline) UtilizationReport(ctx context.Context, from, to time.Time) (*model.UtilizationSummary, error) {
	ctx, span := tracer.Start(ctx, "Computing utilization report")
	defer span.End()

	to = endOfDay(to)

	reactors, err := l.datasource.GetAllReactors(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	transactions, err := l.datasource.GetTransactionsCreatedBetween(ctx, from, to)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	summary, err := ComputeUtilization(reactors, transactions, from, to)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrInvalidRange) {
			return nil, apierror.NewAPIError(apierror.ErrBadRequest, err.Error(), err)
		}
		if errors.Is(err, model.ErrMalformedDuration) {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
		}
		return nil, err
	}
	summary.GeneratedAt = l.now()

	return summary, nil
}

func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

package batchline

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/batchlinehq/batchline/internal/apierror"
	"github.com/batchlinehq/batchline/model"
)

func reportReactors() []model.Reactor {
	return []model.Reactor{
		{ReactorID: "rct_1", Name: "R-301"},
		{ReactorID: "rct_2", Name: "R-302"},
	}
}

func TestComputeUtilizationSingleRun(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	txns := []*model.Transaction{
		{
			TransactionID:            "txn_1",
			ReactorID:                "rct_1",
			ActualProductionDuration: "01:00:00",
			CreatedAt:                from.Add(8 * time.Hour),
		},
	}

	summary, err := ComputeUtilization(reportReactors()[:1], txns, from, to)
	assert.NoError(t, err)
	assert.Equal(t, 1440.0, summary.RangeMinutes)
	assert.Len(t, summary.Rows, 1)

	row := summary.Rows[0]
	assert.Equal(t, 1, row.TransactionCount)
	assert.Equal(t, 60.0, row.ProductionMinutes)
	assert.InDelta(t, 4.17, row.UsagePercent, 0.01)
	assert.InDelta(t, row.UsagePercent, row.IdealUsagePercent, 1e-9)
	assert.InDelta(t, 0, row.Difference, 1e-9)
	assert.Equal(t, 1380.0, row.IdleMinutes)
}

func TestComputeUtilizationZeroTransactionReactor(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	txns := []*model.Transaction{
		{
			TransactionID:            "txn_1",
			ReactorID:                "rct_1",
			ActualProductionDuration: "02:00:00",
			WashingDuration:          "00:30:00",
			DelayDuration:            "00:15:00",
			CreatedAt:                from.Add(time.Hour),
		},
	}

	summary, err := ComputeUtilization(reportReactors(), txns, from, to)
	assert.NoError(t, err)
	assert.Len(t, summary.Rows, 2)

	idle := summary.Rows[1]
	assert.Equal(t, "rct_2", idle.ReactorID)
	assert.Equal(t, 0, idle.TransactionCount)
	assert.Equal(t, 0.0, idle.ProductionMinutes)
	assert.Equal(t, 0.0, idle.WashingMinutes)
	assert.Equal(t, 0.0, idle.DelayMinutes)
	assert.Equal(t, 1440.0, idle.IdleMinutes)
	assert.Equal(t, 0.0, idle.UsagePercent)
}

func TestComputeUtilizationAggregateAveragesPercentages(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	txns := []*model.Transaction{
		{TransactionID: "txn_1", ReactorID: "rct_1", ActualProductionDuration: "12:00:00", CreatedAt: from.Add(time.Hour)},
		{TransactionID: "txn_2", ReactorID: "rct_2", ActualProductionDuration: "06:00:00", CreatedAt: from.Add(2 * time.Hour)},
	}

	summary, err := ComputeUtilization(reportReactors(), txns, from, to)
	assert.NoError(t, err)

	// 50% and 25% average to 37.5, which a recomputation from the summed
	// minutes (1080/2880) would also give here; the distinguishing case is
	// below with a single in-range reactor out of two.
	assert.InDelta(t, 37.5, summary.Aggregate.UsagePercent, 1e-9)
	assert.Equal(t, 1080.0, summary.Aggregate.ProductionMinutes)

	txns = txns[:1]
	summary, err = ComputeUtilization(reportReactors(), txns, from, to)
	assert.NoError(t, err)
	// mean of 50% and 0%, not 720/2880
	assert.InDelta(t, 25.0, summary.Aggregate.UsagePercent, 1e-9)
}

func TestComputeUtilizationIdleFloorsAtZero(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)

	txns := []*model.Transaction{
		{TransactionID: "txn_1", ReactorID: "rct_1", ActualProductionDuration: "02:00:00", CreatedAt: from.Add(time.Minute)},
	}

	summary, err := ComputeUtilization(reportReactors()[:1], txns, from, to)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, summary.Rows[0].IdleMinutes)
	assert.InDelta(t, 200.0, summary.Rows[0].UsagePercent, 1e-9)
}

func TestComputeUtilizationFiltersByCreatedAt(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	txns := []*model.Transaction{
		{TransactionID: "txn_in", ReactorID: "rct_1", ActualProductionDuration: "01:00:00", CreatedAt: from.Add(time.Hour)},
		{TransactionID: "txn_before", ReactorID: "rct_1", ActualProductionDuration: "05:00:00", CreatedAt: from.Add(-time.Hour)},
		{TransactionID: "txn_after", ReactorID: "rct_1", ActualProductionDuration: "05:00:00", CreatedAt: to.Add(time.Hour)},
	}

	summary, err := ComputeUtilization(reportReactors()[:1], txns, from, to)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Rows[0].TransactionCount)
	assert.Equal(t, 60.0, summary.Rows[0].ProductionMinutes)
}

func TestComputeUtilizationInvalidRange(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := ComputeUtilization(reportReactors(), nil, at, at)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ComputeUtilization(reportReactors(), nil, at, at.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestComputeUtilizationMalformedDurationAborts(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	txns := []*model.Transaction{
		{TransactionID: "txn_1", ReactorID: "rct_1", ActualProductionDuration: "01:00:00", CreatedAt: from.Add(time.Hour)},
		{TransactionID: "txn_2", ReactorID: "rct_2", ActualProductionDuration: "not a duration", CreatedAt: from.Add(time.Hour)},
	}

	summary, err := ComputeUtilization(reportReactors(), txns, from, to)
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, model.ErrMalformedDuration)
}

func TestUtilizationReport(t *testing.T) {
	d, mock, now := newTestBatchline(t)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .* FROM reactors").
		WillReturnRows(sqlmock.NewRows([]string{"reactor_id", "name", "created_at", "meta_data"}).
			AddRow("rct_1", "R-301", now, []byte(`{}`)))
	mock.ExpectQuery("SELECT .* FROM transactions WHERE created_at").
		WillReturnRows(sqlmock.NewRows([]string{
			"transaction_id", "reactor_id", "product_id", "work_order_no", "lot_no", "status",
			"start_of_work", "end_time", "washing_started_at",
			"actual_production_duration", "delay_duration", "washing_duration",
			"caustic_amount_kg", "delay_reason_id", "description", "created_at", "updated_at", "meta_data",
		}).AddRow("txn_1", "rct_1", "prd_1", "400123", "88", string(model.StatusCompleted),
			from, from.Add(3*time.Hour), nil,
			"03:00:00", "", "00:30:00",
			"10", nil, "", from.Add(time.Hour), from.Add(3*time.Hour), []byte(`{}`)))

	summary, err := d.UtilizationReport(context.Background(), from, to)
	assert.NoError(t, err)
	// the window runs to the last instant of the to day
	assert.Equal(t, 10, summary.To.Day())
	assert.Equal(t, 23, summary.To.Hour())
	assert.Equal(t, now, summary.GeneratedAt)
	assert.Len(t, summary.Rows, 1)
	assert.Equal(t, 180.0, summary.Rows[0].ProductionMinutes)
	assert.Equal(t, 30.0, summary.Rows[0].WashingMinutes)
}

func TestUtilizationReportInvalidRange(t *testing.T) {
	d, mock, _ := newTestBatchline(t)

	from := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .* FROM reactors").
		WillReturnRows(sqlmock.NewRows([]string{"reactor_id", "name", "created_at", "meta_data"}))
	mock.ExpectQuery("SELECT .* FROM transactions WHERE created_at").
		WillReturnRows(sqlmock.NewRows([]string{"transaction_id"}))

	_, err := d.UtilizationReport(context.Background(), from, to)
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrBadRequest, apierror.Code(err))
}

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/batchlinehq/batchline"
	model2 "github.com/batchlinehq/batchline/api/model"
	"github.com/batchlinehq/batchline/config"
	"github.com/batchlinehq/batchline/database"
	"github.com/batchlinehq/batchline/model"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)
	if s.Response != nil {
		if err := json.NewDecoder(resp.Body).Decode(s.Response); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when starting miniredis", err)
	}
	t.Cleanup(mr.Close)
	config.MockConfig(&config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
		Queue: config.QueueConfig{WebhookQueue: "new:webhook"},
	})

	db, mock, err := sqlmock.New()
	if err != nil {
		log.Printf("an error '%s' was not expected when opening a stub database Connection", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	b, err := batchline.NewBatchline(&database.Datasource{Conn: db})
	if err != nil {
		t.Fatalf("Error creating Batchline instance: %s", err)
	}
	return NewAPI(b).Router(), mock
}

func TestCreateTransactionAPI(t *testing.T) {
	router, mock := setupRouter(t)

	reactorID := "rct_" + gofakeit.UUID()
	payload := model2.CreateTransaction{
		ReactorID:       reactorID,
		ProductID:       "prd_" + gofakeit.UUID(),
		WorkOrderNo:     gofakeit.DigitN(6),
		LotNo:           gofakeit.DigitN(4),
		CausticAmountKg: 12.5,
	}
	body, _ := json.Marshal(payload)

	mock.ExpectQuery("SELECT .* FROM reactors WHERE reactor_id").
		WithArgs(reactorID).
		WillReturnRows(sqlmock.NewRows([]string{"reactor_id", "name", "created_at", "meta_data"}).
			AddRow(reactorID, "R-301", time.Now(), []byte(`{}`)))
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	var response model.Transaction
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  bytes.NewBuffer(body),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/transactions",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, response.TransactionID, "txn_")
	assert.Equal(t, model.StatusPlanned, response.Status)
}

func TestCreateTransactionAPIMissingFields(t *testing.T) {
	router, _ := setupRouter(t)

	body, _ := json.Marshal(model2.CreateTransaction{ReactorID: "rct_1"})

	resp, err := SetUpTestRequest(TestRequest{
		Payload: bytes.NewBuffer(body),
		Router:  router,
		Method:  http.MethodPost,
		Route:   "/transactions",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTransitionTransactionAPI(t *testing.T) {
	router, mock := setupRouter(t)

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM transactions WHERE transaction_id").
		WithArgs("txn_123").
		WillReturnRows(sqlmock.NewRows([]string{
			"transaction_id", "reactor_id", "product_id", "work_order_no", "lot_no", "status",
			"start_of_work", "end_time", "washing_started_at",
			"actual_production_duration", "delay_duration", "washing_duration",
			"caustic_amount_kg", "delay_reason_id", "description", "created_at", "updated_at", "meta_data",
		}).AddRow("txn_123", "rct_1", "prd_1", "400123", "88", string(model.StatusPlanned),
			nil, nil, nil, "", "", "", "10", nil, "", now.Add(-time.Hour), now.Add(-time.Hour), []byte(`{}`)))
	mock.ExpectExec("UPDATE transactions").
		WillReturnResult(sqlmock.NewResult(0, 1))

	body, _ := json.Marshal(model2.TransitionTransaction{Status: string(model.StatusInProgress), Note: "charging started"})

	var response model.Transaction
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  bytes.NewBuffer(body),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/transactions/txn_123/transitions",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.StatusInProgress, response.Status)
	assert.Contains(t, response.Description, "charging started")
}

func TestTransitionTransactionAPIIllegal(t *testing.T) {
	router, mock := setupRouter(t)

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM transactions WHERE transaction_id").
		WithArgs("txn_123").
		WillReturnRows(sqlmock.NewRows([]string{
			"transaction_id", "reactor_id", "product_id", "work_order_no", "lot_no", "status",
			"start_of_work", "end_time", "washing_started_at",
			"actual_production_duration", "delay_duration", "washing_duration",
			"caustic_amount_kg", "delay_reason_id", "description", "created_at", "updated_at", "meta_data",
		}).AddRow("txn_123", "rct_1", "prd_1", "400123", "88", string(model.StatusCompleted),
			nil, nil, nil, "", "", "", "10", nil, "", now.Add(-time.Hour), now.Add(-time.Hour), []byte(`{}`)))

	body, _ := json.Marshal(model2.TransitionTransaction{Status: string(model.StatusWashing)})

	resp, err := SetUpTestRequest(TestRequest{
		Payload: bytes.NewBuffer(body),
		Router:  router,
		Method:  http.MethodPost,
		Route:   "/transactions/txn_123/transitions",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestTransitionTransactionAPIUnknownStatus(t *testing.T) {
	router, _ := setupRouter(t)

	body, _ := json.Marshal(model2.TransitionTransaction{Status: "Paused"})

	resp, err := SetUpTestRequest(TestRequest{
		Payload: bytes.NewBuffer(body),
		Router:  router,
		Method:  http.MethodPost,
		Route:   "/transactions/txn_123/transitions",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRecordDelayAPIMalformedDuration(t *testing.T) {
	router, _ := setupRouter(t)

	body, _ := json.Marshal(model2.RecordDelay{Duration: "ninety minutes"})

	resp, err := SetUpTestRequest(TestRequest{
		Payload: bytes.NewBuffer(body),
		Router:  router,
		Method:  http.MethodPost,
		Route:   "/transactions/txn_123/delays",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUtilizationReportAPIBadDate(t *testing.T) {
	router, _ := setupRouter(t)

	resp, err := SetUpTestRequest(TestRequest{
		Router: router,
		Method: http.MethodGet,
		Route:  "/reports/utilization?from=March-1&to=2024-03-31",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

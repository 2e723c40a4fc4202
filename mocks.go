package batchline

import (
	"context"

	"github.com/batchlinehq/batchline/model"
)

type MockBatchline struct {
	Batchline
	mockGetTransaction func(string) (*model.Transaction, error)
}

func (m *MockBatchline) GetTransaction(id string) (*model.Transaction, error) {
	if m.mockGetTransaction != nil {
		return m.mockGetTransaction(id)
	}
	return m.Batchline.GetTransaction(context.Background(), id)
}

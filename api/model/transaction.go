package model

import (
	"github.com/shopspring/decimal"

	"github.com/batchlinehq/batchline/model"
)

type CreateTransaction struct {
	ReactorID       string                 `json:"reactor_id"`
	ProductID       string                 `json:"product_id"`
	WorkOrderNo     string                 `json:"work_order_no"`
	LotNo           string                 `json:"lot_no"`
	CausticAmountKg float64                `json:"caustic_amount_kg"`
	Description     string                 `json:"description"`
	MetaData        map[string]interface{} `json:"meta_data"`
}

type TransitionTransaction struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type RecordDelay struct {
	Duration      string `json:"duration"`
	DelayReasonID string `json:"delay_reason_id"`
	Note          string `json:"note"`
}

type CreateReactor struct {
	Name     string                 `json:"name"`
	MetaData map[string]interface{} `json:"meta_data"`
}

type CreateProduct struct {
	Name string `json:"name"`
}

type CreateDelayReason struct {
	Name string `json:"name"`
}

func (t *CreateTransaction) ToTransaction() *model.Transaction {
	return &model.Transaction{
		ReactorID:       t.ReactorID,
		ProductID:       t.ProductID,
		WorkOrderNo:     t.WorkOrderNo,
		LotNo:           t.LotNo,
		CausticAmountKg: decimal.NewFromFloat(t.CausticAmountKg),
		Description:     t.Description,
		MetaData:        t.MetaData,
	}
}

func (r *CreateReactor) ToReactor() model.Reactor {
	return model.Reactor{Name: r.Name, MetaData: r.MetaData}
}

func (p *CreateProduct) ToProduct() model.Product {
	return model.Product{Name: p.Name}
}

func (d *CreateDelayReason) ToDelayReason() model.DelayReason {
	return model.DelayReason{Name: d.Name}
}

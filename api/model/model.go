package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/batchlinehq/batchline/model"
)

func durationGrammarValidation(value interface{}) error {
	str, ok := value.(string)
	if !ok {
		return errors.New("invalid type for duration")
	}
	if _, err := model.ParseDurationMinutes(str); err != nil {
		return errors.New("please format the duration as 'HH:MM:SS' or 'D.HH:MM:SS' (e.g., 01:30:00)")
	}
	return nil
}

func (t *CreateTransaction) ValidateCreateTransaction() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.ReactorID, validation.Required),
		validation.Field(&t.ProductID, validation.Required),
		validation.Field(&t.WorkOrderNo, validation.Required),
		validation.Field(&t.LotNo, validation.Required),
		validation.Field(&t.CausticAmountKg, validation.Min(0.0)),
	)
}

func (t *TransitionTransaction) ValidateTransitionTransaction() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Status, validation.Required, validation.By(func(value interface{}) error {
			str, ok := value.(string)
			if !ok {
				return errors.New("invalid type for status")
			}
			_, err := model.ParseStatus(str)
			return err
		})),
	)
}

func (t *RecordDelay) ValidateRecordDelay() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Duration, validation.Required, validation.By(durationGrammarValidation)),
	)
}

func (r *CreateReactor) ValidateCreateReactor() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
	)
}

func (p *CreateProduct) ValidateCreateProduct() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.Required),
	)
}

func (d *CreateDelayReason) ValidateCreateDelayReason() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Name, validation.Required),
	)
}

package model

import (
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidTransition is returned when a requested status is not a legal
// successor of the record's current status. The record is never mutated on
// this path.
var ErrInvalidTransition = errors.New("invalid status transition")

// Transaction is a single production run assigned to a reactor. It is mutated
// exclusively through ApplyTransition and the service-layer operations that
// wrap it.
type Transaction struct {
	ID                       int64                  `json:"-"`
	TransactionID            string                 `json:"id"`
	ReactorID                string                 `json:"reactor_id"`
	ProductID                string                 `json:"product_id"`
	WorkOrderNo              string                 `json:"work_order_no"`
	LotNo                    string                 `json:"lot_no"`
	Status                   Status                 `json:"status"`
	StartOfWork              *time.Time             `json:"start_of_work,omitempty"`
	End                      *time.Time             `json:"end_time,omitempty"`
	WashingStartedAt         *time.Time             `json:"-"`
	ActualProductionDuration string                 `json:"actual_production_duration,omitempty"`
	DelayDuration            string                 `json:"delay_duration,omitempty"`
	WashingDuration          string                 `json:"washing_duration,omitempty"`
	CausticAmountKg          decimal.Decimal        `json:"caustic_amount_kg"`
	DelayReasonID            string                 `json:"delay_reason_id,omitempty"`
	Description              string                 `json:"description,omitempty"`
	CreatedAt                time.Time              `json:"created_at"`
	UpdatedAt                time.Time              `json:"updated_at"`
	MetaData                 map[string]interface{} `json:"meta_data,omitempty"`
}

func (transaction *Transaction) ToJSON() ([]byte, error) {
	return json.Marshal(transaction)
}

// AppendNote appends a timestamped line to the description log. The log is
// append-only; existing content is never truncated.
func (transaction *Transaction) AppendNote(note string, now time.Time) {
	if note == "" {
		return
	}
	line := "[" + now.UTC().Format(time.RFC3339) + "] " + note
	if transaction.Description == "" {
		transaction.Description = line
		return
	}
	transaction.Description = transaction.Description + "\n" + line
}

// ApplyTransition validates newStatus against the transition graph and applies
// the status-specific derivations in a fixed order before committing the new
// status. On any error the receiver is left untouched.
func (transaction *Transaction) ApplyTransition(newStatus Status, note string, now time.Time) error {
	if _, err := ParseStatus(string(newStatus)); err != nil {
		return pkgerrors.Wrap(ErrInvalidTransition, err.Error())
	}
	if !transaction.Status.CanTransitionTo(newStatus) {
		return pkgerrors.Wrapf(ErrInvalidTransition, "cannot move from %s to %s", transaction.Status, newStatus)
	}

	switch newStatus {
	case StatusInProgress:
		if transaction.StartOfWork == nil {
			startOfWork := now
			transaction.StartOfWork = &startOfWork
		}
	case StatusWashing:
		washingStart := now
		transaction.WashingStartedAt = &washingStart
	case StatusWashingCompleted:
		if err := transaction.accumulateWashing(now); err != nil {
			return err
		}
	case StatusCompleted:
		if transaction.End == nil {
			end := now
			transaction.End = &end
			if transaction.StartOfWork != nil {
				elapsed := end.Sub(*transaction.StartOfWork).Minutes()
				transaction.ActualProductionDuration = FormatDurationClock(elapsed)
			}
		}
	}

	transaction.AppendNote(note, now)
	transaction.Status = newStatus
	transaction.UpdatedAt = now
	return nil
}

// accumulateWashing folds the time spent in the Washing state into the
// washing duration. Externally seeded values are kept and added onto; a
// malformed seeded value fails the transition rather than being overwritten.
func (transaction *Transaction) accumulateWashing(now time.Time) error {
	if transaction.WashingStartedAt == nil {
		return nil
	}
	existing, err := ParseDurationMinutes(transaction.WashingDuration)
	if err != nil {
		return err
	}
	elapsed := now.Sub(*transaction.WashingStartedAt).Minutes()
	if elapsed < 0 {
		elapsed = 0
	}
	transaction.WashingDuration = FormatDurationClock(existing + elapsed)
	return nil
}

// AddDelay accumulates a parsed delay interval onto the record and tags the
// delay reason when one is given.
func (transaction *Transaction) AddDelay(duration, delayReasonID string, now time.Time) error {
	added, err := ParseDurationMinutes(duration)
	if err != nil {
		return err
	}
	existing, err := ParseDurationMinutes(transaction.DelayDuration)
	if err != nil {
		return err
	}
	transaction.DelayDuration = FormatDurationClock(existing + added)
	if delayReasonID != "" {
		transaction.DelayReasonID = delayReasonID
	}
	transaction.UpdatedAt = now
	return nil
}

package domain

import (
	"errors"
	"time"
)

// ErrUnknownAction is returned when an acknowledgment references an action id
// that was never registered (or belongs to a previous process).
var ErrUnknownAction = errors.New("unknown review action id")

// AckRecord tracks who acknowledged one posted review. State machine per
// action id: posted -> acknowledged, terminal. Records live only as long as
// the process; they are never persisted.
type AckRecord struct {
	ActionID       string
	Review         Review
	PostedAt       time.Time
	AcknowledgedBy string
	AcknowledgedAt time.Time
}

// Acknowledged reports whether the record has reached its terminal state.
func (a AckRecord) Acknowledged() bool { return a.AcknowledgedBy != "" }

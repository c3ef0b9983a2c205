package amqp

import (
	"encoding/json"
	"time"
)

// Reasons an export is requested, carried for logging only.
const (
	ReasonExpenseCreated = "expense_created"
	ReasonExpenseDeleted = "expense_deleted"
	ReasonIncomeUpdated  = "income_updated"
	ReasonGoalUpdated    = "goal_updated"
	ReasonPeriodicSweep  = "periodic_sweep"
)

// ExportRequestMessage asks the worker to re-export one user's month. It is
// deliberately light: the worker recomputes the summary from the store, so a
// stale message can never export stale numbers.
type ExportRequestMessage struct {
	UserID    string    `json:"user_id"`
	Month     string    `json:"month"` // YYYY-MM
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExportRequestMessage(userID, month, reason string) *ExportRequestMessage {
	return &ExportRequestMessage{
		UserID:    userID,
		Month:     month,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *ExportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExportRequestMessageFromJSON(data []byte) (*ExportRequestMessage, error) {
	var msg ExportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

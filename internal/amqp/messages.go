package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"noskip/internal/core"
)

// TransactionSyncMessage asks the worker to export one expense or income.
// Only the ID travels; the worker loads the row from the database.
type TransactionSyncMessage struct {
	Kind      core.TransactionKind `json:"kind"`
	ID        string               `json:"id"`
	Timestamp time.Time            `json:"timestamp"`
}

func NewTransactionSyncMessage(kind core.TransactionKind, id string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionSyncMessageFromJSON decodes and validates a sync message.
func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Kind.IsValid() {
		return nil, fmt.Errorf("unknown transaction kind %q", msg.Kind)
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("missing transaction id")
	}
	return &msg, nil
}

// HabitReminderMessage tells a notifier that a habit is due now.
type HabitReminderMessage struct {
	UserID        string    `json:"user_id"`
	HabitID       string    `json:"habit_id"`
	HabitName     string    `json:"habit_name"`
	Emoji         string    `json:"emoji,omitempty"`
	PreferredTime string    `json:"preferred_time"`
	Date          core.Date `json:"date"`
	CurrentStreak int       `json:"current_streak"`
	Timestamp     time.Time `json:"timestamp"`
}

func (m *HabitReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func HabitReminderMessageFromJSON(data []byte) (*HabitReminderMessage, error) {
	var msg HabitReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

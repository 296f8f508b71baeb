package events

import (
	"encoding/json"
	"time"
)

// Record kinds and actions carried by sync events.
const (
	KindInvoice = "invoice"
	KindExpense = "expense"

	ActionAppended = "appended"
	ActionUpdated  = "updated"
	ActionRemoved  = "removed"
)

// RecordEvent is a lightweight sync message: kind, action and record id.
// The worker re-reads the full record from the repository, so a stale
// message can never overwrite newer local state.
type RecordEvent struct {
	Kind      string    `json:"kind"`
	Action    string    `json:"action"`
	RecordID  string    `json:"recordId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordEvent(kind, action, recordID string) *RecordEvent {
	return &RecordEvent{
		Kind:      kind,
		Action:    action,
		RecordID:  recordID,
		Timestamp: time.Now(),
	}
}

func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var e RecordEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

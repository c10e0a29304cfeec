package amqp

import (
	"encoding/json"
	"time"
)

// ActivitySyncMessage asks the worker to export one activity record to the
// spreadsheet. It carries only the id; the worker fetches the full record
// from the database so the queue never holds stale data.
type ActivitySyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewActivitySyncMessage(id, version int64) *ActivitySyncMessage {
	return &ActivitySyncMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ActivitySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ActivitySyncMessageFromJSON creates a message from JSON bytes.
func ActivitySyncMessageFromJSON(data []byte) (*ActivitySyncMessage, error) {
	var msg ActivitySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

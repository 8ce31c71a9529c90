package amqp

import (
	"encoding/json"
	"time"

	"poupabem/internal/core"
)

// AlertDispatchMessage carries a due alert from the API to the dispatch
// worker. The alert payload travels in the message so the worker can notify
// without re-reading the database.
type AlertDispatchMessage struct {
	AlertID     int64     `json:"alert_id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AlertDate   string    `json:"alert_date"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewAlertDispatchMessage(a core.Alert) *AlertDispatchMessage {
	return &AlertDispatchMessage{
		AlertID:     a.ID,
		UserID:      a.UserID,
		Title:       a.Title,
		Description: a.Description,
		AlertDate:   a.AlertDate.String(),
		Timestamp:   time.Now(),
	}
}

func (m *AlertDispatchMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AlertDispatchMessageFromJSON(data []byte) (*AlertDispatchMessage, error) {
	var msg AlertDispatchMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package transport

import (
	"encoding/json"
	"time"

	"bollette/internal/core"
)

// DraftMessage is the wire form of a finished draft. The worker writes the
// body and attachment list to the outbox as-is, so the message carries the
// full draft rather than a database reference.
type DraftMessage struct {
	HouseNumber string    `json:"house_number"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Attachments []string  `json:"attachments"`
	Recipient   string    `json:"recipient"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewDraftMessage(draft core.DraftContent) *DraftMessage {
	return &DraftMessage{
		HouseNumber: draft.HouseNumber,
		Subject:     draft.Subject,
		Body:        draft.Body,
		Attachments: draft.Attachments,
		Recipient:   draft.Recipient,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DraftMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DraftMessageFromJSON creates a message from JSON bytes
func DraftMessageFromJSON(data []byte) (*DraftMessage, error) {
	var msg DraftMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeProductCreated Type = "product.created"
	TypeProductUpdated Type = "product.updated"
	TypeProductDeleted Type = "product.deleted"
	TypeUserRegistered Type = "user.registered"
	TypeFileUploaded   Type = "file.uploaded"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Key       string `json:"key"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}

// New stamps an event with a fresh id and the current UTC time.
// key identifies the affected resource and becomes the Kafka message key.
func New(eventType Type, key string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Key:       key,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

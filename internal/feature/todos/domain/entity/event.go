package entity

import "time"

// EventType names a todo mutation.
type EventType string

const (
	EventCreated EventType = "todo.created"
	EventUpdated EventType = "todo.updated"
	EventDeleted EventType = "todo.deleted"
	EventCleared EventType = "todo.cleared"
)

// TodoEvent is emitted after a todo mutation has been persisted.
type TodoEvent struct {
	Type       EventType `json:"type"`
	UserID     uint      `json:"user_id"`
	TodoID     uint      `json:"todo_id,omitempty"`
	Count      int64     `json:"count,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

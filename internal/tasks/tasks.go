// Package tasks defines the asynq task types and payloads.
package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/costantinodig/youdj-vote/internal/event"
)

const (
	// TypeEventBroadcast carries one committed room change to the
	// fan-out worker.
	TypeEventBroadcast = "event:broadcast"
	// TypeRoomSweep is the periodic idle-room cleanup.
	TypeRoomSweep = "rooms:sweep"
)

// EventBroadcastPayload wraps the event being fanned out.
type EventBroadcastPayload struct {
	Event event.Event `json:"event"`
}

// NewEventBroadcastTask builds the broadcast task for a room event.
func NewEventBroadcastTask(ev event.Event) (*asynq.Task, error) {
	payload, err := json.Marshal(EventBroadcastPayload{Event: ev})
	if err != nil {
		return nil, err
	}
	// A stale change notification is worthless; cap retries low.
	return asynq.NewTask(TypeEventBroadcast, payload, asynq.MaxRetry(3)), nil
}

// NewRoomSweepTask builds the periodic sweep task.
func NewRoomSweepTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeRoomSweep, nil), nil
}

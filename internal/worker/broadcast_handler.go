package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/costantinodig/youdj-vote/internal/event"
	"github.com/costantinodig/youdj-vote/internal/tasks"
)

// EventBroadcastHandler publishes committed room events to the room's
// redis channel, from which every server process's hub picks them up.
type EventBroadcastHandler struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewEventBroadcastHandler(redisClient *redis.Client, keyPrefix string) *EventBroadcastHandler {
	if redisClient == nil {
		panic("redis client cannot be nil for EventBroadcastHandler")
	}
	return &EventBroadcastHandler{redisClient: redisClient, keyPrefix: keyPrefix}
}

// ProcessTask implements asynq.Handler.
func (h *EventBroadcastHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.EventBroadcastPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal broadcast payload: %v: %w", err, asynq.SkipRetry)
	}

	msg, err := json.Marshal(payload.Event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %v: %w", err, asynq.SkipRetry)
	}

	channel := event.Channel(h.keyPrefix, payload.Event.RoomCode)
	if err := h.redisClient.Publish(ctx, channel, msg).Err(); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", channel, err)
	}

	logrus.WithFields(logrus.Fields{
		"room_code": payload.Event.RoomCode,
		"kind":      payload.Event.Kind,
	}).Debug("Event published")
	return nil
}

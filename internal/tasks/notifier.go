package tasks

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/costantinodig/youdj-vote/internal/event"
)

// AsynqNotifier implements service.Notifier by enqueueing a broadcast
// task. The queue decouples the mutating request from delivery: the
// handler returns as soon as the task is accepted, and a full or
// unreachable queue only costs subscribers a stale read.
type AsynqNotifier struct {
	client *asynq.Client
}

func NewAsynqNotifier(client *asynq.Client) *AsynqNotifier {
	if client == nil {
		panic("asynq client cannot be nil for AsynqNotifier")
	}
	return &AsynqNotifier{client: client}
}

func (n *AsynqNotifier) Notify(ctx context.Context, ev event.Event) {
	task, err := NewEventBroadcastTask(ev)
	if err != nil {
		logrus.WithError(err).WithField("room_code", ev.RoomCode).Error("Failed to build broadcast task")
		return
	}
	if _, err := n.client.EnqueueContext(ctx, task, asynq.Queue("critical")); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"room_code": ev.RoomCode,
			"kind":      ev.Kind,
		}).Error("Failed to enqueue broadcast task")
	}
}

package service

import (
	"context"

	"github.com/costantinodig/youdj-vote/internal/event"
)

// Notifier hands a committed mutation's change event off for fan-out.
// Delivery is fire and forget: the mutation has already committed when
// Notify is called, so a dispatch failure costs at most a stale read.
type Notifier interface {
	Notify(ctx context.Context, ev event.Event)
}

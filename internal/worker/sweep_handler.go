package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/costantinodig/youdj-vote/internal/repository"
)

// RoomSweepHandler deletes rooms that have been idle past their TTL,
// together with their songs, votes, playlist entries and state. Cleanup
// lives here, outside the request path: no core operation ever deletes
// a room.
type RoomSweepHandler struct {
	roomRepo repository.RoomRepository
	idleTTL  time.Duration
}

func NewRoomSweepHandler(roomRepo repository.RoomRepository, idleTTL time.Duration) *RoomSweepHandler {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomSweepHandler")
	}
	if idleTTL <= 0 {
		idleTTL = 72 * time.Hour
	}
	return &RoomSweepHandler{roomRepo: roomRepo, idleTTL: idleTTL}
}

// ProcessTask implements asynq.Handler.
func (h *RoomSweepHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	cutoff := time.Now().Add(-h.idleTTL)
	log := logrus.WithField("component", "room_sweep")

	codes, err := h.roomRepo.FindIdleSince(ctx, cutoff)
	if err != nil {
		log.WithError(err).Error("Failed to list idle rooms")
		return err
	}
	if len(codes) == 0 {
		log.Debug("No idle rooms to sweep")
		return nil
	}

	for _, code := range codes {
		if err := h.roomRepo.DeleteCascade(ctx, code); err != nil {
			// Keep sweeping the rest; this room gets retried next run.
			log.WithError(err).WithField("room_code", code).Warn("Failed to delete idle room")
			continue
		}
		log.WithField("room_code", code).Info("Idle room swept")
	}
	return nil
}

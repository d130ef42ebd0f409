package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/costantinodig/youdj-vote/internal/domain"
	"github.com/costantinodig/youdj-vote/internal/event"
	"github.com/costantinodig/youdj-vote/internal/repository"
)

// PlaybackService owns the per-room "now playing" record.
type PlaybackService struct {
	stateRepo repository.StateRepository
	songRepo  repository.SongRepository
	rooms     *RoomService
	notifier  Notifier
}

func NewPlaybackService(stateRepo repository.StateRepository, songRepo repository.SongRepository, rooms *RoomService, notifier Notifier) *PlaybackService {
	if stateRepo == nil || songRepo == nil || rooms == nil || notifier == nil {
		panic("PlaybackService dependencies cannot be nil")
	}
	return &PlaybackService{stateRepo: stateRepo, songRepo: songRepo, rooms: rooms, notifier: notifier}
}

// SetPlaying points the room at a song, or clears playback when songID
// is nil. A non-nil id must reference a song of this room.
func (s *PlaybackService) SetPlaying(ctx context.Context, code string, songID *uint, djPin string) error {
	code = NormalizeCode(code)
	if !s.rooms.VerifyDJ(ctx, code, djPin) {
		return ErrUnauthorized
	}
	logCtx := logrus.WithField("room_code", code)

	if songID != nil {
		ok, err := s.songRepo.ExistsInRoom(ctx, code, *songID)
		if err != nil {
			logCtx.WithError(err).Error("Failed to check song membership")
			return ErrInternalServer
		}
		if !ok {
			return ErrSongNotFound
		}
		logCtx = logCtx.WithField("song_id", *songID)
	}

	if err := s.stateRepo.SetCurrent(ctx, code, songID); err != nil {
		logCtx.WithError(err).Error("Failed to set current song")
		return ErrInternalServer
	}
	s.rooms.TouchActive(ctx, code)

	ev := event.Event{Kind: event.KindPlayingChanged, RoomCode: code}
	if songID != nil {
		ev.SongID = *songID
	}
	s.notifier.Notify(ctx, ev)
	logCtx.Info("Playback state updated")
	return nil
}

// GetState returns the "now playing" projection. Nil (no error) means
// nothing is playing.
func (s *PlaybackService) GetState(ctx context.Context, code string) (*domain.NowPlaying, error) {
	state, err := s.stateRepo.GetNowPlaying(ctx, NormalizeCode(code))
	if err != nil {
		logrus.WithError(err).WithField("room_code", code).Error("Failed to get playback state")
		return nil, ErrInternalServer
	}
	return state, nil
}

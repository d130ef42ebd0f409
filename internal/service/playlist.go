package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/costantinodig/youdj-vote/internal/domain"
	"github.com/costantinodig/youdj-vote/internal/event"
	"github.com/costantinodig/youdj-vote/internal/repository"
)

// PlaylistService owns the DJ-curated mini-playlist.
type PlaylistService struct {
	playlistRepo repository.PlaylistRepository
	songRepo     repository.SongRepository
	rooms        *RoomService
	notifier     Notifier
}

func NewPlaylistService(playlistRepo repository.PlaylistRepository, songRepo repository.SongRepository, rooms *RoomService, notifier Notifier) *PlaylistService {
	if playlistRepo == nil || songRepo == nil || rooms == nil || notifier == nil {
		panic("PlaylistService dependencies cannot be nil")
	}
	return &PlaylistService{playlistRepo: playlistRepo, songRepo: songRepo, rooms: rooms, notifier: notifier}
}

// SetMiniPlaylist replaces the room's curated list as one unit. Input
// beyond the cap is silently dropped. Every referenced id must belong
// to the room.
func (s *PlaylistService) SetMiniPlaylist(ctx context.Context, code string, songIDs []uint, djPin string) error {
	code = NormalizeCode(code)
	if !s.rooms.VerifyDJ(ctx, code, djPin) {
		return ErrUnauthorized
	}
	// Only the first ten raw entries are considered; the rest is
	// silently dropped, never an error. Within that window entry
	// identity is (room, song), so a repeated id keeps its first
	// position and cannot pull a later id back into range.
	if len(songIDs) > domain.MiniPlaylistCap {
		songIDs = songIDs[:domain.MiniPlaylistCap]
	}
	songIDs = dedupeIDs(songIDs)
	logCtx := logrus.WithFields(logrus.Fields{"room_code": code, "entries": len(songIDs)})

	if len(songIDs) > 0 {
		count, err := s.songRepo.CountInRoom(ctx, code, songIDs)
		if err != nil {
			logCtx.WithError(err).Error("Failed to validate playlist song ids")
			return ErrInternalServer
		}
		if count != int64(len(songIDs)) {
			return ErrSongNotFound
		}
	}

	if err := s.playlistRepo.Replace(ctx, code, songIDs); err != nil {
		logCtx.WithError(err).Error("Failed to replace mini playlist")
		return ErrInternalServer
	}
	s.rooms.TouchActive(ctx, code)
	s.notifier.Notify(ctx, event.Event{Kind: event.KindMiniChanged, RoomCode: code})
	logCtx.Info("Mini playlist replaced")
	return nil
}

// GetMiniPlaylist returns the curated entries in stored position order.
// The DJ's order and the vote ranking are independent signals; votes
// never reorder this list.
func (s *PlaylistService) GetMiniPlaylist(ctx context.Context, code string) ([]domain.SongWithVotes, error) {
	entries, err := s.playlistRepo.ListWithVotes(ctx, NormalizeCode(code))
	if err != nil {
		logrus.WithError(err).WithField("room_code", code).Error("Failed to list mini playlist")
		return nil, ErrInternalServer
	}
	return entries, nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

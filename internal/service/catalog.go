package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/costantinodig/youdj-vote/internal/domain"
	"github.com/costantinodig/youdj-vote/internal/event"
	"github.com/costantinodig/youdj-vote/internal/repository"
)

// CatalogService owns the per-room song catalog.
type CatalogService struct {
	songRepo repository.SongRepository
	rooms    *RoomService
	notifier Notifier
}

func NewCatalogService(songRepo repository.SongRepository, rooms *RoomService, notifier Notifier) *CatalogService {
	if songRepo == nil || rooms == nil || notifier == nil {
		panic("CatalogService dependencies cannot be nil")
	}
	return &CatalogService{songRepo: songRepo, rooms: rooms, notifier: notifier}
}

// AddSong inserts a song into the room's catalog. DJ only; authorization
// is checked before anything else is touched.
func (s *CatalogService) AddSong(ctx context.Context, code, title, artist, url, djPin string) (*domain.SongWithVotes, error) {
	code = NormalizeCode(code)
	if !s.rooms.VerifyDJ(ctx, code, djPin) {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrValidation
	}
	logCtx := logrus.WithFields(logrus.Fields{"room_code": code, "title": title})

	song := &domain.Song{
		RoomCode: code,
		Title:    strings.TrimSpace(title),
		Artist:   artist,
		URL:      url,
		AddedBy:  "DJ",
	}
	if err := s.songRepo.Insert(ctx, song); err != nil {
		logCtx.WithError(err).Error("Failed to insert song")
		return nil, ErrInternalServer
	}
	s.rooms.TouchActive(ctx, code)
	s.notifier.Notify(ctx, event.Event{Kind: event.KindSongsChanged, RoomCode: code})
	logCtx.WithField("song_id", song.ID).Info("Song added")

	return &domain.SongWithVotes{
		ID:        song.ID,
		RoomCode:  song.RoomCode,
		Title:     song.Title,
		Artist:    song.Artist,
		URL:       song.URL,
		AddedBy:   song.AddedBy,
		CreatedAt: song.CreatedAt,
		Votes:     0,
	}, nil
}

// ListSongs returns the catalog ranked by votes descending with
// first-submitted winning ties. Guest-facing, no authorization.
func (s *CatalogService) ListSongs(ctx context.Context, code string) ([]domain.SongWithVotes, error) {
	songs, err := s.songRepo.ListWithVotes(ctx, NormalizeCode(code))
	if err != nil {
		logrus.WithError(err).WithField("room_code", code).Error("Failed to list songs")
		return nil, ErrInternalServer
	}
	return songs, nil
}

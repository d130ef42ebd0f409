package service

import (
	"context"

	"github.com/costantinodig/youdj-vote/internal/domain"
)

// RoomSync is the full picture of a room pushed to a freshly joined
// subscriber, sparing it one fetch per category before first render.
type RoomSync struct {
	RoomCode string                 `json:"roomCode"`
	Songs    []domain.SongWithVotes `json:"songs"`
	Mini     []domain.SongWithVotes `json:"mini"`
	Playing  *domain.NowPlaying     `json:"playing"`
}

// SyncService assembles RoomSync snapshots for the broadcaster.
type SyncService struct {
	catalog  *CatalogService
	playlist *PlaylistService
	playback *PlaybackService
}

func NewSyncService(catalog *CatalogService, playlist *PlaylistService, playback *PlaybackService) *SyncService {
	if catalog == nil || playlist == nil || playback == nil {
		panic("SyncService dependencies cannot be nil")
	}
	return &SyncService{catalog: catalog, playlist: playlist, playback: playback}
}

func (s *SyncService) RoomSync(ctx context.Context, code string) (*RoomSync, error) {
	code = NormalizeCode(code)
	songs, err := s.catalog.ListSongs(ctx, code)
	if err != nil {
		return nil, err
	}
	mini, err := s.playlist.GetMiniPlaylist(ctx, code)
	if err != nil {
		return nil, err
	}
	playing, err := s.playback.GetState(ctx, code)
	if err != nil {
		return nil, err
	}
	return &RoomSync{RoomCode: code, Songs: songs, Mini: mini, Playing: playing}, nil
}

// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/costantinodig/youdj-vote/internal/domain"
)

// RoomRepository mocks repository.RoomRepository.
type RoomRepository struct {
	mock.Mock
}

func (m *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *RoomRepository) FindByCode(ctx context.Context, code string) (*domain.Room, error) {
	args := m.Called(ctx, code)
	var room *domain.Room
	if args.Get(0) != nil {
		room = args.Get(0).(*domain.Room)
	}
	return room, args.Error(1)
}

func (m *RoomRepository) TouchActive(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *RoomRepository) FindIdleSince(ctx context.Context, cutoff time.Time) ([]string, error) {
	args := m.Called(ctx, cutoff)
	var codes []string
	if args.Get(0) != nil {
		codes = args.Get(0).([]string)
	}
	return codes, args.Error(1)
}

func (m *RoomRepository) DeleteCascade(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// SongRepository mocks repository.SongRepository.
type SongRepository struct {
	mock.Mock
}

func (m *SongRepository) Insert(ctx context.Context, song *domain.Song) error {
	args := m.Called(ctx, song)
	return args.Error(0)
}

func (m *SongRepository) ListWithVotes(ctx context.Context, roomCode string) ([]domain.SongWithVotes, error) {
	args := m.Called(ctx, roomCode)
	var songs []domain.SongWithVotes
	if args.Get(0) != nil {
		songs = args.Get(0).([]domain.SongWithVotes)
	}
	return songs, args.Error(1)
}

func (m *SongRepository) ExistsInRoom(ctx context.Context, roomCode string, songID uint) (bool, error) {
	args := m.Called(ctx, roomCode, songID)
	return args.Bool(0), args.Error(1)
}

func (m *SongRepository) CountInRoom(ctx context.Context, roomCode string, songIDs []uint) (int64, error) {
	args := m.Called(ctx, roomCode, songIDs)
	return args.Get(0).(int64), args.Error(1)
}

// VoteRepository mocks repository.VoteRepository.
type VoteRepository struct {
	mock.Mock
}

func (m *VoteRepository) Insert(ctx context.Context, songID uint, userID string) (bool, error) {
	args := m.Called(ctx, songID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *VoteRepository) CountForSong(ctx context.Context, songID uint) (int64, error) {
	args := m.Called(ctx, songID)
	return args.Get(0).(int64), args.Error(1)
}

// PlaylistRepository mocks repository.PlaylistRepository.
type PlaylistRepository struct {
	mock.Mock
}

func (m *PlaylistRepository) Replace(ctx context.Context, roomCode string, songIDs []uint) error {
	args := m.Called(ctx, roomCode, songIDs)
	return args.Error(0)
}

func (m *PlaylistRepository) ListWithVotes(ctx context.Context, roomCode string) ([]domain.SongWithVotes, error) {
	args := m.Called(ctx, roomCode)
	var entries []domain.SongWithVotes
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.SongWithVotes)
	}
	return entries, args.Error(1)
}

// StateRepository mocks repository.StateRepository.
type StateRepository struct {
	mock.Mock
}

func (m *StateRepository) SetCurrent(ctx context.Context, roomCode string, songID *uint) error {
	args := m.Called(ctx, roomCode, songID)
	return args.Error(0)
}

func (m *StateRepository) GetNowPlaying(ctx context.Context, roomCode string) (*domain.NowPlaying, error) {
	args := m.Called(ctx, roomCode)
	var state *domain.NowPlaying
	if args.Get(0) != nil {
		state = args.Get(0).(*domain.NowPlaying)
	}
	return state, args.Error(1)
}

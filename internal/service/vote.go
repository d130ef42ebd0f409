package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/costantinodig/youdj-vote/internal/event"
	"github.com/costantinodig/youdj-vote/internal/repository"
)

// VoteService owns the one-vote-per-(song,user) ledger.
type VoteService struct {
	voteRepo repository.VoteRepository
	songRepo repository.SongRepository
	rooms    *RoomService
	notifier Notifier
}

func NewVoteService(voteRepo repository.VoteRepository, songRepo repository.SongRepository, rooms *RoomService, notifier Notifier) *VoteService {
	if voteRepo == nil || songRepo == nil || rooms == nil || notifier == nil {
		panic("VoteService dependencies cannot be nil")
	}
	return &VoteService{voteRepo: voteRepo, songRepo: songRepo, rooms: rooms, notifier: notifier}
}

// CastVote records a guest's vote. Repeating the same (song, user) pair
// is a success no-op. The votesChanged broadcast fires on every accepted
// call, repeats included: clients cannot cheaply tell a first vote from
// a repeat, so they must not read a broadcast as "the tally changed".
func (s *VoteService) CastVote(ctx context.Context, code string, songID uint, userID string) error {
	code = NormalizeCode(code)
	if songID == 0 || userID == "" {
		return ErrValidation
	}
	logCtx := logrus.WithFields(logrus.Fields{"room_code": code, "song_id": songID})

	ok, err := s.songRepo.ExistsInRoom(ctx, code, songID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to check song membership")
		return ErrInternalServer
	}
	if !ok {
		return ErrSongNotFound
	}

	inserted, err := s.voteRepo.Insert(ctx, songID, userID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to insert vote")
		return ErrInternalServer
	}
	if inserted {
		logCtx.Info("Vote recorded")
	} else {
		logCtx.Debug("Duplicate vote ignored")
	}

	s.rooms.TouchActive(ctx, code)
	s.notifier.Notify(ctx, event.Event{Kind: event.KindVotesChanged, RoomCode: code, SongID: songID})
	return nil
}

// Tally returns the live count of distinct voters for a song.
func (s *VoteService) Tally(ctx context.Context, songID uint) (int64, error) {
	count, err := s.voteRepo.CountForSong(ctx, songID)
	if err != nil {
		logrus.WithError(err).WithField("song_id", songID).Error("Failed to count votes")
		return 0, ErrInternalServer
	}
	return count, nil
}

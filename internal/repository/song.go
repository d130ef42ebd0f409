package repository

import (
	"context"

	"github.com/costantinodig/youdj-vote/internal/domain"
)

// SongRepository stores the per-room song catalog.
type SongRepository interface {
	// Insert persists a new song and fills its ID and CreatedAt.
	Insert(ctx context.Context, song *domain.Song) error

	// ListWithVotes returns every song of the room with its live tally,
	// ordered by votes descending, then creation time ascending.
	// Recomputed on every call.
	ListWithVotes(ctx context.Context, roomCode string) ([]domain.SongWithVotes, error)

	// ExistsInRoom reports whether the song id belongs to the room.
	ExistsInRoom(ctx context.Context, roomCode string, songID uint) (bool, error)

	// CountInRoom counts how many of the given ids belong to the room.
	// Used to validate playlist replacements in one query.
	CountInRoom(ctx context.Context, roomCode string, songIDs []uint) (int64, error)
}

// VoteRepository stores the one-vote-per-(song,user) ledger.
type VoteRepository interface {
	// Insert records a vote. The store's unique constraint decides the
	// outcome: inserted is false when the pair already existed, which
	// is the expected idempotent path, not an error.
	Insert(ctx context.Context, songID uint, userID string) (inserted bool, err error)

	// CountForSong returns the live tally of distinct voters.
	CountForSong(ctx context.Context, songID uint) (int64, error)
}

// PlaylistRepository stores the DJ-curated mini-playlist.
type PlaylistRepository interface {
	// Replace swaps the room's whole mini-playlist atomically,
	// assigning dense positions 1..len(songIDs) in input order.
	// Concurrent readers never observe a partially cleared list.
	Replace(ctx context.Context, roomCode string, songIDs []uint) error

	// ListWithVotes returns the entries ordered by position ascending,
	// with vote counts joined live from the ledger.
	ListWithVotes(ctx context.Context, roomCode string) ([]domain.SongWithVotes, error)
}

// StateRepository stores the per-room playback state.
type StateRepository interface {
	// SetCurrent points the room at a song, or clears playback when
	// songID is nil.
	SetCurrent(ctx context.Context, roomCode string, songID *uint) error

	// GetNowPlaying returns the playback projection. A nil result (with
	// nil error) means nothing is playing or the reference dangles.
	GetNowPlaying(ctx context.Context, roomCode string) (*domain.NowPlaying, error)
}

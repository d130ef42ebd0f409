package gormpersistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/costantinodig/youdj-vote/internal/domain"
)

// newTestDB opens a throwaway sqlite database with the real schema. The
// raw projection SQL is plain enough to run unchanged on sqlite, which
// is what these tests are after: the ordering and uniqueness guarantees
// live in this layer, not in the services.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	// Keep sqlite predictable under the transaction-heavy paths.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.Room{},
		&domain.RoomState{},
		&domain.Song{},
		&domain.Vote{},
		&domain.MiniPlaylistEntry{},
	))
	return db
}

func seedRoom(t *testing.T, db *gorm.DB, code string) {
	t.Helper()
	repo := NewGormRoomRepository(db)
	require.NoError(t, repo.Create(context.Background(), &domain.Room{
		Code:      code,
		Name:      "Test Party",
		DJPinHash: "irrelevant",
	}))
}

func seedSong(t *testing.T, db *gorm.DB, code, title string, createdAt time.Time) *domain.Song {
	t.Helper()
	song := &domain.Song{
		RoomCode:  code,
		Title:     title,
		AddedBy:   "DJ",
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(song).Error)
	return song
}

func TestGormSongRepository_ListWithVotes_RanksByVotesThenAge(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedRoom(t, db, "ABC234")

	base := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)
	first := seedSong(t, db, "ABC234", "First", base)
	second := seedSong(t, db, "ABC234", "Second", base.Add(time.Minute))
	third := seedSong(t, db, "ABC234", "Third", base.Add(2*time.Minute))
	// A song in another room must never leak into the projection.
	seedRoom(t, db, "OTHER2")
	seedSong(t, db, "OTHER2", "Elsewhere", base)

	voteRepo := NewGormVoteRepository(db)
	for _, v := range []struct {
		songID uint
		userID string
	}{
		{second.ID, "guest-1"},
		{second.ID, "guest-2"},
		{first.ID, "guest-1"},
		{third.ID, "guest-2"},
	} {
		inserted, err := voteRepo.Insert(ctx, v.songID, v.userID)
		require.NoError(t, err)
		require.True(t, inserted)
	}

	songs, err := NewGormSongRepository(db).ListWithVotes(ctx, "ABC234")
	require.NoError(t, err)
	require.Len(t, songs, 3)

	// Second leads on votes; First and Third tie at one vote each and
	// the earlier submission wins the tie.
	assert.Equal(t, []string{"Second", "First", "Third"},
		[]string{songs[0].Title, songs[1].Title, songs[2].Title})
	assert.Equal(t, []int{2, 1, 1},
		[]int{songs[0].Votes, songs[1].Votes, songs[2].Votes})
}

func TestGormVoteRepository_Insert_DuplicatePairIsNoOp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedRoom(t, db, "ABC234")
	song := seedSong(t, db, "ABC234", "Song A", time.Now())

	voteRepo := NewGormVoteRepository(db)

	inserted, err := voteRepo.Insert(ctx, song.ID, "guest-1")
	require.NoError(t, err)
	assert.True(t, inserted)

	// Same pair again: the unique index absorbs it. No error, no row.
	inserted, err = voteRepo.Insert(ctx, song.ID, "guest-1")
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := voteRepo.CountForSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// A different guest still counts.
	inserted, err = voteRepo.Insert(ctx, song.ID, "guest-2")
	require.NoError(t, err)
	assert.True(t, inserted)

	count, err = voteRepo.CountForSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormPlaylistRepository_Replace_AssignsDensePositions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedRoom(t, db, "ABC234")

	base := time.Now()
	s1 := seedSong(t, db, "ABC234", "One", base)
	s2 := seedSong(t, db, "ABC234", "Two", base)
	s3 := seedSong(t, db, "ABC234", "Three", base)
	s4 := seedSong(t, db, "ABC234", "Four", base)

	playlistRepo := NewGormPlaylistRepository(db)

	require.NoError(t, playlistRepo.Replace(ctx, "ABC234", []uint{s3.ID, s1.ID, s2.ID}))

	entries, err := playlistRepo.ListWithVotes(ctx, "ABC234")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"Three", "One", "Two"},
		[]string{entries[0].Title, entries[1].Title, entries[2].Title})
	assert.Equal(t, []int{1, 2, 3},
		[]int{entries[0].Position, entries[1].Position, entries[2].Position})

	// A disjoint replacement fully displaces the old entries.
	require.NoError(t, playlistRepo.Replace(ctx, "ABC234", []uint{s4.ID}))

	entries, err = playlistRepo.ListWithVotes(ctx, "ABC234")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Four", entries[0].Title)
	assert.Equal(t, 1, entries[0].Position)

	var rows int64
	require.NoError(t, db.Model(&domain.MiniPlaylistEntry{}).
		Where("room_code = ?", "ABC234").Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	// Replacing with nothing clears the list.
	require.NoError(t, playlistRepo.Replace(ctx, "ABC234", []uint{}))

	entries, err = playlistRepo.ListWithVotes(ctx, "ABC234")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGormStateRepository_GetNowPlaying(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedRoom(t, db, "ABC234")
	song := seedSong(t, db, "ABC234", "Song A", time.Now())

	stateRepo := NewGormStateRepository(db)

	// A fresh room plays nothing.
	state, err := stateRepo.GetNowPlaying(ctx, "ABC234")
	require.NoError(t, err)
	assert.Nil(t, state)

	require.NoError(t, stateRepo.SetCurrent(ctx, "ABC234", &song.ID))
	state, err = stateRepo.GetNowPlaying(ctx, "ABC234")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, song.ID, *state.CurrentSongID)
	assert.Equal(t, "Song A", state.Title)

	// A dangling reference yields the empty result, not an error.
	dangling := song.ID + 1000
	require.NoError(t, stateRepo.SetCurrent(ctx, "ABC234", &dangling))
	state, err = stateRepo.GetNowPlaying(ctx, "ABC234")
	require.NoError(t, err)
	assert.Nil(t, state)

	require.NoError(t, stateRepo.SetCurrent(ctx, "ABC234", nil))
	state, err = stateRepo.GetNowPlaying(ctx, "ABC234")
	require.NoError(t, err)
	assert.Nil(t, state)
}

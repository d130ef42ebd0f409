package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/costantinodig/youdj-vote/internal/domain"
	"github.com/costantinodig/youdj-vote/internal/event"
	"github.com/costantinodig/youdj-vote/internal/repository"
	"github.com/costantinodig/youdj-vote/internal/repository/mocks"
	"github.com/costantinodig/youdj-vote/internal/service"
)

func newCatalogFixture(t *testing.T) (*mocks.RoomRepository, *mocks.SongRepository, *recordingNotifier, *service.CatalogService) {
	t.Helper()
	mockRoomRepo := new(mocks.RoomRepository)
	mockSongRepo := new(mocks.SongRepository)
	notifier := &recordingNotifier{}
	roomService := service.NewRoomService(mockRoomRepo)
	catalogService := service.NewCatalogService(mockSongRepo, roomService, notifier)
	return mockRoomRepo, mockSongRepo, notifier, catalogService
}

func TestCatalogService_AddSong_Unauthorized(t *testing.T) {
	mockRoomRepo, mockSongRepo, notifier, catalogService := newCatalogFixture(t)
	ctx := context.Background()
	room := testRoom(t, "ABC234", "1234")

	mockRoomRepo.On("FindByCode", ctx, "ABC234").Return(room, nil)
	mockRoomRepo.On("FindByCode", ctx, "NOPE22").Return(nil, repository.ErrRoomNotFound)

	// Wrong PIN.
	_, err := catalogService.AddSong(ctx, "ABC234", "Song A", "", "", "bad")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	// Unknown room looks exactly the same from outside.
	_, err = catalogService.AddSong(ctx, "NOPE22", "Song A", "", "", "1234")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	// Auth failed fast: nothing else was touched, nothing broadcast.
	mockSongRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assert.Empty(t, notifier.Events())
}

func TestCatalogService_AddSong_RequiresTitle(t *testing.T) {
	mockRoomRepo, mockSongRepo, notifier, catalogService := newCatalogFixture(t)
	ctx := context.Background()
	room := testRoom(t, "ABC234", "1234")

	mockRoomRepo.On("FindByCode", ctx, "ABC234").Return(room, nil)

	_, err := catalogService.AddSong(ctx, "ABC234", "   ", "", "", "1234")
	assert.ErrorIs(t, err, service.ErrValidation)

	mockSongRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assert.Empty(t, notifier.Events())
}

func TestCatalogService_AddSong_Success(t *testing.T) {
	mockRoomRepo, mockSongRepo, notifier, catalogService := newCatalogFixture(t)
	ctx := context.Background()
	room := testRoom(t, "ABC234", "1234")
	createdAt := time.Now()

	mockRoomRepo.On("FindByCode", ctx, "ABC234").Return(room, nil)
	mockRoomRepo.On("TouchActive", ctx, "ABC234").Return(nil)
	mockSongRepo.On("Insert", ctx, mock.MatchedBy(func(song *domain.Song) bool {
		return song.RoomCode == "ABC234" && song.Title == "Song A" && song.AddedBy == "DJ"
	})).
		Run(func(args mock.Arguments) {
			songArg := args.Get(1).(*domain.Song)
			songArg.ID = 42
			songArg.CreatedAt = createdAt
		}).
		Return(nil).
		Once()

	song, err := catalogService.AddSong(ctx, "abc234", "  Song A ", "Artist", "https://example.com/a", "1234")
	require.NoError(t, err)
	require.NotNil(t, song)
	assert.Equal(t, uint(42), song.ID)
	assert.Equal(t, "Song A", song.Title)
	assert.Equal(t, 0, song.Votes, "a fresh song starts with zero votes")

	events := notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, event.KindSongsChanged, events[0].Kind)
	assert.Equal(t, "ABC234", events[0].RoomCode)

	mockSongRepo.AssertExpectations(t)
}

func TestCatalogService_ListSongs_PassesThroughRanking(t *testing.T) {
	_, mockSongRepo, _, catalogService := newCatalogFixture(t)
	ctx := context.Background()

	ranked := []domain.SongWithVotes{
		{ID: 2, Title: "B", Votes: 3},
		{ID: 1, Title: "A", Votes: 3},
		{ID: 3, Title: "C", Votes: 0},
	}
	mockSongRepo.On("ListWithVotes", ctx, "ABC234").Return(ranked, nil).Once()

	songs, err := catalogService.ListSongs(ctx, "abc234")
	require.NoError(t, err)
	assert.Equal(t, ranked, songs)
}

package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/costantinodig/youdj-vote/internal/domain"
	"github.com/costantinodig/youdj-vote/internal/repository"
	"github.com/costantinodig/youdj-vote/internal/repository/mocks"
	"github.com/costantinodig/youdj-vote/internal/service"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func TestRoomService_CreateRoom_RequiresNameAndPin(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	_, err := roomService.CreateRoom(ctx, "", "1234")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = roomService.CreateRoom(ctx, "Party", "")
	assert.ErrorIs(t, err, service.ErrValidation)

	mockRoomRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoomService_CreateRoom_Success(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	mockRoomRepo.On("Create", ctx, mock.AnythingOfType("*domain.Room")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Room).ID = 7
		}).
		Return(nil).
		Once()

	room, err := roomService.CreateRoom(ctx, "Saturday Night", "1234")
	require.NoError(t, err)
	require.NotNil(t, room)

	assert.Equal(t, uint(7), room.ID)
	assert.Equal(t, "Saturday Night", room.Name)
	assert.Len(t, room.Code, 6)
	for _, ch := range room.Code {
		assert.Contains(t, codeAlphabet, string(ch), "code must stay inside the unambiguous alphabet")
	}
	// The PIN is stored hashed, and the hash matches the original.
	assert.NotEqual(t, "1234", room.DJPinHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(room.DJPinHash), []byte("1234")))

	mockRoomRepo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_RetriesOnCodeCollision(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	// First code is taken; the second attempt lands.
	mockRoomRepo.On("Create", ctx, mock.AnythingOfType("*domain.Room")).
		Return(repository.ErrDuplicateEntry).Once()
	mockRoomRepo.On("Create", ctx, mock.AnythingOfType("*domain.Room")).
		Return(nil).Once()

	room, err := roomService.CreateRoom(ctx, "Party", "pin")
	require.NoError(t, err)
	require.NotNil(t, room)

	mockRoomRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestRoomService_CreateRoom_GivesUpAfterRepeatedCollisions(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	mockRoomRepo.On("Create", ctx, mock.AnythingOfType("*domain.Room")).
		Return(repository.ErrDuplicateEntry)

	_, err := roomService.CreateRoom(ctx, "Party", "pin")
	assert.ErrorIs(t, err, service.ErrInternalServer)
}

func TestRoomService_CreateRoom_OtherRepoErrorIsNotRetried(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	mockRoomRepo.On("Create", ctx, mock.AnythingOfType("*domain.Room")).
		Return(errors.New("connection reset")).Once()

	_, err := roomService.CreateRoom(ctx, "Party", "pin")
	assert.ErrorIs(t, err, service.ErrInternalServer)
	mockRoomRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestRoomService_VerifyDJ(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()
	room := testRoom(t, "ABC234", "1234")

	mockRoomRepo.On("FindByCode", ctx, "ABC234").Return(room, nil)
	mockRoomRepo.On("FindByCode", ctx, "ZZZ999").Return(nil, repository.ErrRoomNotFound)

	assert.True(t, roomService.VerifyDJ(ctx, "ABC234", "1234"))
	// Codes are case-insensitive.
	assert.True(t, roomService.VerifyDJ(ctx, "abc234", "1234"))
	// Wrong PIN and unknown room are both just false.
	assert.False(t, roomService.VerifyDJ(ctx, "ABC234", "4321"))
	assert.False(t, roomService.VerifyDJ(ctx, "ZZZ999", "1234"))
	// An empty PIN never authorizes and never hits the repository.
	assert.False(t, roomService.VerifyDJ(ctx, "ABC234", ""))
}

func TestRoomService_NormalizeCode(t *testing.T) {
	assert.Equal(t, "ABC234", service.NormalizeCode("  abc234 "))
	assert.Equal(t, "ABC234", service.NormalizeCode("ABC234"))
}

func TestRoomService_CreateRoom_CodesDiffer(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	mockRoomRepo.On("Create", ctx, mock.AnythingOfType("*domain.Room")).Return(nil)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		room, err := roomService.CreateRoom(ctx, "Party", "pin")
		require.NoError(t, err)
		seen[room.Code] = true
	}
	// Random 6-char codes over a 32-symbol alphabet; 20 draws colliding
	// would point at a broken generator.
	assert.Greater(t, len(seen), 15)
	for code := range seen {
		assert.Equal(t, strings.ToUpper(code), code)
	}
}

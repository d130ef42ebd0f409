// Package service holds the business logic of the voting engine.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/costantinodig/youdj-vote/internal/domain"
	"github.com/costantinodig/youdj-vote/internal/repository"
)

// Room codes are sampled from an alphabet without look-alike characters
// (no 0/O, 1/I/L). Six characters over 32 symbols leave the code space
// far larger than any realistic concurrent room count, so the
// allocation loop almost always succeeds on the first attempt.
const (
	codeAlphabet  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength    = 6
	maxCodeTrials = 10
)

// RoomService owns room creation and DJ authorization.
type RoomService struct {
	roomRepo repository.RoomRepository
}

func NewRoomService(roomRepo repository.RoomRepository) *RoomService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomService")
	}
	return &RoomService{roomRepo: roomRepo}
}

// NormalizeCode folds a client-supplied room code to its canonical
// (upper case) form. Codes are case-insensitive at every boundary.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateRoom allocates a fresh code and persists the room with its
// empty playback state. The PIN is stored as a bcrypt hash.
func (s *RoomService) CreateRoom(ctx context.Context, name, djPin string) (*domain.Room, error) {
	if strings.TrimSpace(name) == "" || djPin == "" {
		return nil, ErrValidation
	}
	logCtx := logrus.WithField("room_name", name)

	pinHash, err := bcrypt.GenerateFromPassword([]byte(djPin), bcrypt.DefaultCost)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash DJ PIN")
		return nil, ErrInternalServer
	}

	// Optimistic insert: the unique index on code arbitrates. A
	// duplicate-entry result means another creation won the code, so we
	// sample a new one and try again.
	for attempt := 0; attempt < maxCodeTrials; attempt++ {
		code, err := randomCode()
		if err != nil {
			logCtx.WithError(err).Error("Failed to generate room code")
			return nil, ErrInternalServer
		}
		room := &domain.Room{
			Code:      code,
			Name:      strings.TrimSpace(name),
			DJPinHash: string(pinHash),
		}
		err = s.roomRepo.Create(ctx, room)
		if err == nil {
			logCtx.WithField("room_code", code).Info("Room created")
			return room, nil
		}
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithField("room_code", code).Warnf("Room code collision, retrying (attempt %d)", attempt+1)
			continue
		}
		logCtx.WithError(err).Error("Failed to save new room")
		return nil, ErrInternalServer
	}
	logCtx.Errorf("Failed to allocate a unique room code after %d attempts", maxCodeTrials)
	return nil, ErrInternalServer
}

// VerifyDJ reports whether the PIN matches the room's stored secret.
// An unknown room and a wrong PIN both come back false; callers must
// not distinguish the two.
func (s *RoomService) VerifyDJ(ctx context.Context, code, pin string) bool {
	if pin == "" {
		return false
	}
	room, err := s.roomRepo.FindByCode(ctx, NormalizeCode(code))
	if err != nil {
		if !errors.Is(err, repository.ErrRoomNotFound) {
			logrus.WithError(err).WithField("room_code", code).Warn("DJ verification lookup failed")
		}
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(room.DJPinHash), []byte(pin)) == nil
}

// FindRoom looks a room up for the websocket join flow.
func (s *RoomService) FindRoom(ctx context.Context, code string) (*domain.Room, error) {
	room, err := s.roomRepo.FindByCode(ctx, NormalizeCode(code))
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logrus.WithError(err).WithField("room_code", code).Error("Room lookup failed")
		return nil, ErrInternalServer
	}
	return room, nil
}

// TouchActive marks the room as recently used. Best effort.
func (s *RoomService) TouchActive(ctx context.Context, code string) {
	if err := s.roomRepo.TouchActive(ctx, NormalizeCode(code)); err != nil {
		logrus.WithError(err).WithField("room_code", code).Warn("Failed to touch room activity")
	}
}

func randomCode() (string, error) {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}

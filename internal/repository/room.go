// Package repository declares the storage interfaces consumed by the
// service layer. Implementations live under internal/infra.
package repository

import (
	"context"
	"time"

	"github.com/costantinodig/youdj-vote/internal/domain"
)

// RoomRepository stores rooms and their playback state rows.
type RoomRepository interface {
	// Create persists a new room and its empty RoomState in one
	// transaction. Returns ErrDuplicateEntry when the code is already
	// taken; callers treat that as "pick another code", not a failure.
	Create(ctx context.Context, room *domain.Room) error

	// FindByCode looks a room up by its (upper case) code.
	// Returns ErrRoomNotFound when absent.
	FindByCode(ctx context.Context, code string) (*domain.Room, error)

	// TouchActive bumps the room's last_active timestamp. Feeds the
	// idle sweep; failures are logged, never surfaced to clients.
	TouchActive(ctx context.Context, code string) error

	// FindIdleSince returns codes of rooms whose last_active is older
	// than the cutoff.
	FindIdleSince(ctx context.Context, cutoff time.Time) ([]string, error)

	// DeleteCascade removes a room together with its songs, votes,
	// mini-playlist entries and state.
	DeleteCascade(ctx context.Context, code string) error
}

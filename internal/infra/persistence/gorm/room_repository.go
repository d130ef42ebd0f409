// Package gormpersistence implements the repository interfaces on GORM.
package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/costantinodig/youdj-vote/internal/domain"
	"github.com/costantinodig/youdj-vote/internal/repository"
)

// GormRoomRepository is the GORM implementation of RoomRepository.
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

// isDuplicateEntry maps the MySQL unique-constraint violation (1062) to
// the repository sentinel.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// Create inserts the room and its empty playback state in one transaction.
func (r *GormRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if room.LastActive.IsZero() {
		// A zero last_active would make the room sweepable immediately.
		room.LastActive = time.Now()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		return tx.Create(&domain.RoomState{RoomCode: room.Code}).Error
	})
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create room (code: %s): %w", room.Code, err)
	}
	return nil
}

func (r *GormRoomRepository) FindByCode(ctx context.Context, code string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by code '%s': %w", code, err)
	}
	return &room, nil
}

func (r *GormRoomRepository) TouchActive(ctx context.Context, code string) error {
	err := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("code = ?", code).
		Update("last_active", time.Now()).Error
	if err != nil {
		return fmt.Errorf("gorm: touch room '%s': %w", code, err)
	}
	return nil
}

func (r *GormRoomRepository) FindIdleSince(ctx context.Context, cutoff time.Time) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("last_active < ?", cutoff).
		Pluck("code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find idle rooms: %w", err)
	}
	return codes, nil
}

// DeleteCascade removes the room and everything hanging off it. Votes
// are deleted through the song id set since they do not carry the code.
func (r *GormRoomRepository) DeleteCascade(ctx context.Context, code string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		songIDs := tx.Model(&domain.Song{}).Select("id").Where("room_code = ?", code)
		if err := tx.Where("song_id IN (?)", songIDs).Delete(&domain.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_code = ?", code).Delete(&domain.MiniPlaylistEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_code = ?", code).Delete(&domain.RoomState{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_code = ?", code).Delete(&domain.Song{}).Error; err != nil {
			return err
		}
		return tx.Where("code = ?", code).Delete(&domain.Room{}).Error
	})
	if err != nil {
		return fmt.Errorf("gorm: delete room cascade '%s': %w", code, err)
	}
	return nil
}

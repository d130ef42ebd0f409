package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/costantinodig/youdj-vote/internal/domain"
)

// GormStateRepository is the GORM implementation of StateRepository.
type GormStateRepository struct {
	db *gorm.DB
}

func NewGormStateRepository(db *gorm.DB) *GormStateRepository {
	if db == nil {
		panic("database connection cannot be nil for GormStateRepository")
	}
	return &GormStateRepository{db: db}
}

func (r *GormStateRepository) SetCurrent(ctx context.Context, roomCode string, songID *uint) error {
	err := r.db.WithContext(ctx).Model(&domain.RoomState{}).
		Where("room_code = ?", roomCode).
		Update("current_song_id", songID).Error
	if err != nil {
		return fmt.Errorf("gorm: set current song for room '%s': %w", roomCode, err)
	}
	return nil
}

// GetNowPlaying left-joins the referenced song; a cleared or dangling
// reference yields nil rather than an error.
func (r *GormStateRepository) GetNowPlaying(ctx context.Context, roomCode string) (*domain.NowPlaying, error) {
	var row domain.NowPlaying
	result := r.db.WithContext(ctx).Raw(`
		SELECT rs.current_song_id, s.title, s.artist, s.url
		FROM room_states rs
		LEFT JOIN songs s ON s.id = rs.current_song_id
		WHERE rs.room_code = ?`, roomCode).Scan(&row)
	if result.Error != nil {
		return nil, fmt.Errorf("gorm: get now playing for room '%s': %w", roomCode, result.Error)
	}
	if result.RowsAffected == 0 || row.CurrentSongID == nil || row.Title == "" {
		return nil, nil
	}
	return &row, nil
}

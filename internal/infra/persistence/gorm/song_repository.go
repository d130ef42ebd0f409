package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/costantinodig/youdj-vote/internal/domain"
)

// GormSongRepository is the GORM implementation of SongRepository.
type GormSongRepository struct {
	db *gorm.DB
}

func NewGormSongRepository(db *gorm.DB) *GormSongRepository {
	if db == nil {
		panic("database connection cannot be nil for GormSongRepository")
	}
	return &GormSongRepository{db: db}
}

func (r *GormSongRepository) Insert(ctx context.Context, song *domain.Song) error {
	if err := r.db.WithContext(ctx).Create(song).Error; err != nil {
		return fmt.Errorf("gorm: insert song (room: %s, title: %s): %w", song.RoomCode, song.Title, err)
	}
	return nil
}

// ListWithVotes recomputes the tally join on every call so the ranking
// is always consistent with the latest votes.
func (r *GormSongRepository) ListWithVotes(ctx context.Context, roomCode string) ([]domain.SongWithVotes, error) {
	var rows []domain.SongWithVotes
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.id, s.room_code, s.title, s.artist, s.url, s.added_by, s.created_at,
		       COALESCE(v.cnt, 0) AS votes
		FROM songs s
		LEFT JOIN (SELECT song_id, COUNT(*) AS cnt FROM votes GROUP BY song_id) v
		       ON s.id = v.song_id
		WHERE s.room_code = ?
		ORDER BY votes DESC, s.created_at ASC`, roomCode).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list songs with votes for room '%s': %w", roomCode, err)
	}
	return rows, nil
}

func (r *GormSongRepository) ExistsInRoom(ctx context.Context, roomCode string, songID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Song{}).
		Where("room_code = ? AND id = ?", roomCode, songID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: check song %d in room '%s': %w", songID, roomCode, err)
	}
	return count > 0, nil
}

func (r *GormSongRepository) CountInRoom(ctx context.Context, roomCode string, songIDs []uint) (int64, error) {
	if len(songIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Song{}).
		Where("room_code = ? AND id IN ?", roomCode, songIDs).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count songs in room '%s': %w", roomCode, err)
	}
	return count, nil
}

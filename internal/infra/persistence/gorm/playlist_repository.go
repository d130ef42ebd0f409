package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/costantinodig/youdj-vote/internal/domain"
)

// GormPlaylistRepository is the GORM implementation of PlaylistRepository.
type GormPlaylistRepository struct {
	db *gorm.DB
}

func NewGormPlaylistRepository(db *gorm.DB) *GormPlaylistRepository {
	if db == nil {
		panic("database connection cannot be nil for GormPlaylistRepository")
	}
	return &GormPlaylistRepository{db: db}
}

// Replace swaps the whole list in one transaction so readers never see
// a partially cleared playlist.
func (r *GormPlaylistRepository) Replace(ctx context.Context, roomCode string, songIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_code = ?", roomCode).Delete(&domain.MiniPlaylistEntry{}).Error; err != nil {
			return err
		}
		if len(songIDs) == 0 {
			return nil
		}
		entries := make([]domain.MiniPlaylistEntry, 0, len(songIDs))
		for i, id := range songIDs {
			entries = append(entries, domain.MiniPlaylistEntry{
				RoomCode: roomCode,
				SongID:   id,
				Position: i + 1,
			})
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		return fmt.Errorf("gorm: replace mini playlist for room '%s': %w", roomCode, err)
	}
	return nil
}

// ListWithVotes keeps the DJ's stored order; vote counts are joined live
// and do not influence position.
func (r *GormPlaylistRepository) ListWithVotes(ctx context.Context, roomCode string) ([]domain.SongWithVotes, error) {
	var rows []domain.SongWithVotes
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.id, s.room_code, s.title, s.artist, s.url, s.added_by, s.created_at,
		       COALESCE(v.cnt, 0) AS votes, m.position
		FROM mini_playlist_entries m
		JOIN songs s ON s.id = m.song_id
		LEFT JOIN (SELECT song_id, COUNT(*) AS cnt FROM votes GROUP BY song_id) v
		       ON s.id = v.song_id
		WHERE m.room_code = ?
		ORDER BY m.position ASC`, roomCode).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list mini playlist for room '%s': %w", roomCode, err)
	}
	return rows, nil
}

package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/costantinodig/youdj-vote/internal/domain"
)

// GormVoteRepository is the GORM implementation of VoteRepository.
type GormVoteRepository struct {
	db *gorm.DB
}

func NewGormVoteRepository(db *gorm.DB) *GormVoteRepository {
	if db == nil {
		panic("database connection cannot be nil for GormVoteRepository")
	}
	return &GormVoteRepository{db: db}
}

// Insert attempts the optimistic insert. The unique index on
// (song_id, user_id) closes the check-then-insert race; a conflict is
// reported as inserted=false, never as an error.
func (r *GormVoteRepository) Insert(ctx context.Context, songID uint, userID string) (bool, error) {
	vote := domain.Vote{SongID: songID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&vote)
	if result.Error != nil {
		// Drivers without ON CONFLICT support surface the constraint
		// violation instead; that is still the already-voted path.
		if isDuplicateEntry(result.Error) {
			return false, nil
		}
		return false, fmt.Errorf("gorm: insert vote (song: %d, user: %s): %w", songID, userID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *GormVoteRepository) CountForSong(ctx context.Context, songID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Vote{}).
		Where("song_id = ?", songID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count votes for song %d: %w", songID, err)
	}
	return count, nil
}

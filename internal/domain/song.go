package domain

import "time"

// Song is one catalog entry of a room. Songs are immutable after
// creation; the vote count is derived, never stored on the row.
type Song struct {
	ID       uint   `gorm:"primaryKey"`
	RoomCode string `gorm:"index;size:16;not null"`
	Title    string `gorm:"size:191;not null"`
	Artist   string `gorm:"size:191"`
	URL      string `gorm:"type:text"` // opaque, resolved by the playback widget
	AddedBy  string `gorm:"size:50;not null"`
	// CreatedAt is the tie-breaker when vote counts are equal:
	// earlier submissions rank first.
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// Vote records one guest's standing endorsement of one song. The
// composite unique index is what makes voting idempotent: the store,
// not the application, enforces at most one row per (song, user).
type Vote struct {
	ID        uint      `gorm:"primaryKey"`
	SongID    uint      `gorm:"uniqueIndex:idx_song_user;not null"`
	UserID    string    `gorm:"uniqueIndex:idx_song_user;size:64;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// MiniPlaylistEntry is one slot of the DJ's curated short list.
// Positions are dense, 1-based, and only ever written as a whole set.
type MiniPlaylistEntry struct {
	ID       uint   `gorm:"primaryKey"`
	RoomCode string `gorm:"index;size:16;not null"`
	SongID   uint   `gorm:"not null"`
	Position int    `gorm:"not null"`
}

// MiniPlaylistCap bounds the curated list; extra ids are silently dropped.
const MiniPlaylistCap = 10

// SongWithVotes is the catalog read projection: a song plus its live
// tally, and the playlist position when read through the mini-playlist.
type SongWithVotes struct {
	ID        uint      `json:"id"`
	RoomCode  string    `json:"roomCode"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	URL       string    `json:"url"`
	AddedBy   string    `json:"addedBy"`
	CreatedAt time.Time `json:"createdAt"`
	Votes     int       `json:"votes"`
	Position  int       `json:"position,omitempty"`
}

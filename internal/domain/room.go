// Package domain defines the persistent data model of the voting service.
package domain

import "time"

// Room is an isolated voting session. It is identified by a short
// human-typeable code; the DJ who created it holds the shared PIN.
type Room struct {
	ID         uint      `gorm:"primaryKey"`
	Code       string    `gorm:"uniqueIndex;size:16;not null"` // stored upper case
	Name       string    `gorm:"size:191;not null"`
	DJPinHash  string    `gorm:"type:text;not null"` // bcrypt hash of the shared PIN
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	LastActive time.Time `gorm:"index"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// RoomState holds the single "now playing" record of a room.
// CurrentSongID is nil when nothing is playing.
type RoomState struct {
	RoomCode      string    `gorm:"primaryKey;size:16"`
	CurrentSongID *uint     `gorm:"index"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// NowPlaying is the read projection of RoomState joined with the song
// it references. The zero value means nothing is playing.
type NowPlaying struct {
	CurrentSongID *uint  `json:"currentSongId,omitempty"`
	Title         string `json:"title,omitempty"`
	Artist        string `json:"artist,omitempty"`
	URL           string `json:"url,omitempty"`
}

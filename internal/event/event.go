// Package event defines the change notifications fanned out to room
// subscribers. Events tell clients which category of room state changed;
// they carry no delta, clients are expected to re-fetch.
package event

// Kinds of room change notifications.
const (
	KindSongsChanged   = "songsChanged"
	KindVotesChanged   = "votesChanged"
	KindMiniChanged    = "miniChanged"
	KindPlayingChanged = "playingChanged"
)

// Event is the minimal payload delivered to every session subscribed to
// a room. SongID is set only for vote and playing events.
type Event struct {
	Kind     string `json:"kind"`
	RoomCode string `json:"roomCode"`
	SongID   uint   `json:"songId,omitempty"`
}

// Channel returns the redis pub/sub channel carrying a room's events.
func Channel(keyPrefix, roomCode string) string {
	return keyPrefix + "room:" + roomCode + ":events"
}

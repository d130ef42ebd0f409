package service

import "errors"

var (
	// ErrValidation covers missing or malformed required input.
	ErrValidation = errors.New("missing or invalid required field")
	// ErrUnauthorized covers a wrong DJ PIN and an unknown room code on
	// DJ actions alike, so callers cannot probe for room existence.
	ErrUnauthorized = errors.New("invalid DJ PIN")
	ErrRoomNotFound   = errors.New("room not found")
	ErrSongNotFound   = errors.New("song not found in room")
	ErrInternalServer = errors.New("internal server error")
)

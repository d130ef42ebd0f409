package repository

import "errors"

// Shared repository errors. Implementations map their driver errors to
// these so the service layer never inspects driver types.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means an insert or update violated a unique
	// constraint. For room codes this is the retry signal of the
	// allocation loop; for votes it is the idempotent no-op path.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

var (
	ErrRoomNotFound = ErrNotFound
	ErrSongNotFound = ErrNotFound
)

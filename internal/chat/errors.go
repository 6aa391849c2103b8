package chat

import "errors"

// Mutation failures surfaced to the caller. The UI disables the offending
// action proactively, but the engine re-checks and rejects regardless.
var (
	// ErrUnauthorized means the requester is not the message author.
	ErrUnauthorized = errors.New("not the message author")
	// ErrWindowExpired means the edit/delete window has closed.
	ErrWindowExpired = errors.New("edit window expired")
	// ErrNotFound means the message does not exist or has been deleted.
	ErrNotFound = errors.New("message not found")
)

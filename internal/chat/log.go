package chat

import "database/sql"

// Log is the slice of the event log the chat engines consume: one-shot
// reads, serialized append/patch writes, and a change wake channel.
// *eventlog.Client satisfies it.
type Log interface {
	DB() *sql.DB
	Write(fn func(*sql.DB) error) error
	Changes() (<-chan struct{}, func())
}

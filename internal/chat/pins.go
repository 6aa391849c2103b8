package chat

import (
	"database/sql"

	"github.com/wardroomhq/wardroom/internal/db"
	"github.com/wardroomhq/wardroom/internal/types"
)

// TogglePin flips a message's pinned flag. Any user may pin or unpin any
// live message. Returns the new state.
func (e *Engine) TogglePin(messageID string) (bool, error) {
	var pinned bool
	err := e.log.Write(func(conn *sql.DB) error {
		if _, err := e.mutable(conn, messageID); err != nil {
			return err
		}
		var err error
		pinned, err = db.TogglePin(conn, messageID)
		return err
	})
	return pinned, err
}

// ListPinned returns all pinned messages in store order.
func (e *Engine) ListPinned() ([]types.Message, error) {
	return db.GetPinnedMessages(e.log.DB())
}

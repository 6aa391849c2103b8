package chat

import (
	"database/sql"
	"fmt"

	"github.com/wardroomhq/wardroom/internal/db"
)

// ToggleReaction adds the user's reaction for emoji, or retracts it if
// already present. Any user may react to any live message. Returns whether
// the reaction is present after the toggle.
func (e *Engine) ToggleReaction(messageID, emoji string) (bool, error) {
	if emoji == "" {
		return false, fmt.Errorf("emoji is empty")
	}

	var added bool
	err := e.log.Write(func(conn *sql.DB) error {
		if _, err := e.mutable(conn, messageID); err != nil {
			return err
		}
		var err error
		added, err = db.ToggleReaction(conn, messageID, emoji, e.self.ID)
		return err
	})
	return added, err
}

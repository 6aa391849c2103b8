package db

import "database/sql"

// GetChatCursor returns the user's last-reviewed timestamp in unix ms, or
// nil if no cursor exists yet.
func GetChatCursor(db *sql.DB, userID string) (*int64, error) {
	row := db.QueryRow(`SELECT last_seen_chat FROM wr_chat_cursors WHERE user_id = ?`, userID)
	var lastSeen int64
	if err := row.Scan(&lastSeen); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &lastSeen, nil
}

// SetChatCursor sets or advances the user's last-reviewed timestamp.
func SetChatCursor(db *sql.DB, userID string, lastSeenMS int64) error {
	_, err := db.Exec(`
		INSERT INTO wr_chat_cursors (user_id, last_seen_chat)
		VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET last_seen_chat = excluded.last_seen_chat
	`, userID, lastSeenMS)
	return err
}

// InitChatCursor creates the cursor at nowMS only if none exists, so history
// predating a first login is not counted as unread.
func InitChatCursor(db *sql.DB, userID string, nowMS int64) error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO wr_chat_cursors (user_id, last_seen_chat)
		VALUES (?, ?)
	`, userID, nowMS)
	return err
}

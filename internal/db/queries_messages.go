package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wardroomhq/wardroom/internal/core"
	"github.com/wardroomhq/wardroom/internal/types"
)

// messageColumns is the explicit column list for SELECT queries.
const messageColumns = `guid, ts, author_id, author_username, author_avatar, body, seen_by, edited, edited_at, deleted, pinned, reactions`

// CreateMessage inserts a new message. The store assigns guid and timestamp;
// the seen-by set is seeded with the author.
func CreateMessage(db *sql.DB, message types.Message) (types.Message, error) {
	ts := message.TS
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}

	guid, err := generateUniqueGUID(db, "wr_messages", "msg")
	if err != nil {
		return types.Message{}, err
	}

	seenBy := []string{message.AuthorID}
	seenByJSON, err := json.Marshal(seenBy)
	if err != nil {
		return types.Message{}, err
	}

	_, err = db.Exec(`
		INSERT INTO wr_messages (guid, ts, author_id, author_username, author_avatar, body, seen_by, edited, edited_at, deleted, pinned, reactions)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, NULL, 0, 0, '{}')
	`, guid, ts, message.AuthorID, message.AuthorUsername, message.AuthorAvatar, message.Body, string(seenByJSON))
	if err != nil {
		return types.Message{}, err
	}

	return types.Message{
		ID:             guid,
		TS:             ts,
		AuthorID:       message.AuthorID,
		AuthorUsername: message.AuthorUsername,
		AuthorAvatar:   message.AuthorAvatar,
		Body:           message.Body,
		SeenBy:         seenBy,
		Reactions:      map[string][]string{},
	}, nil
}

// GetMessage returns a message by guid, or nil if absent.
func GetMessage(db *sql.DB, messageID string) (*types.Message, error) {
	row := db.QueryRow(`SELECT `+messageColumns+` FROM wr_messages WHERE guid = ?`, messageID)
	message, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// GetRecentMessages returns the newest limit messages in chronological order.
func GetRecentMessages(db *sql.DB, limit int) ([]types.Message, error) {
	rows, err := db.Query(fmt.Sprintf(`
		SELECT %s FROM (
			SELECT %s FROM wr_messages
			ORDER BY ts DESC, guid DESC
			LIMIT ?
		) ORDER BY ts ASC, guid ASC
	`, messageColumns, messageColumns), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// GetMessagesBefore returns up to limit messages strictly older than the
// cursor, in chronological order.
func GetMessagesBefore(db *sql.DB, cursor types.MessageCursor, limit int) ([]types.Message, error) {
	rows, err := db.Query(fmt.Sprintf(`
		SELECT %s FROM (
			SELECT %s FROM wr_messages
			WHERE (ts < ? OR (ts = ? AND guid < ?))
			ORDER BY ts DESC, guid DESC
			LIMIT ?
		) ORDER BY ts ASC, guid ASC
	`, messageColumns, messageColumns), cursor.TS, cursor.TS, cursor.GUID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// GetPinnedMessages returns all pinned messages in store order.
func GetPinnedMessages(db *sql.DB) ([]types.Message, error) {
	rows, err := db.Query(`
		SELECT ` + messageColumns + ` FROM wr_messages
		WHERE pinned = 1
		ORDER BY ts ASC, guid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// UpdateMessageBody applies an edit: new body, edited flag, edit timestamp.
func UpdateMessageBody(db *sql.DB, messageID, newBody string, editedAtMS int64) error {
	_, err := db.Exec(`
		UPDATE wr_messages SET body = ?, edited = 1, edited_at = ? WHERE guid = ?
	`, newBody, editedAtMS, messageID)
	return err
}

// SoftDeleteMessage marks a message deleted. The placeholder body, cleared
// reactions, and dropped pin are applied in the same statement so the
// deleted-message invariant holds atomically.
func SoftDeleteMessage(db *sql.DB, messageID string, deletedAtMS int64) error {
	_, err := db.Exec(`
		UPDATE wr_messages
		SET body = ?, deleted = 1, edited = 1, edited_at = ?, reactions = '{}', pinned = 0
		WHERE guid = ?
	`, types.DeletedPlaceholder, deletedAtMS, messageID)
	return err
}

// AddSeenBy unions a user id into a message's seen-by set. Idempotent; the
// set only grows.
func AddSeenBy(db *sql.DB, messageID, userID string) error {
	return withTx(db, func(tx *sql.Tx) error {
		var seenByJSON string
		err := tx.QueryRow(`SELECT seen_by FROM wr_messages WHERE guid = ?`, messageID).Scan(&seenByJSON)
		if err == sql.ErrNoRows {
			return fmt.Errorf("message %s not found", messageID)
		}
		if err != nil {
			return err
		}

		var seenBy []string
		if err := json.Unmarshal([]byte(seenByJSON), &seenBy); err != nil {
			return err
		}
		for _, id := range seenBy {
			if id == userID {
				return nil
			}
		}
		seenBy = append(seenBy, userID)

		updated, err := json.Marshal(seenBy)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`UPDATE wr_messages SET seen_by = ? WHERE guid = ?`, string(updated), messageID)
		return err
	})
}

// ToggleReaction adds or removes a user from an emoji's reactor set,
// dropping the emoji key when its last reactor retracts. Returns whether the
// reaction is present after the toggle.
func ToggleReaction(db *sql.DB, messageID, emoji, userID string) (bool, error) {
	var added bool
	err := withTx(db, func(tx *sql.Tx) error {
		var reactionsJSON string
		err := tx.QueryRow(`SELECT reactions FROM wr_messages WHERE guid = ?`, messageID).Scan(&reactionsJSON)
		if err == sql.ErrNoRows {
			return fmt.Errorf("message %s not found", messageID)
		}
		if err != nil {
			return err
		}

		reactions := map[string][]string{}
		if reactionsJSON != "" {
			if err := json.Unmarshal([]byte(reactionsJSON), &reactions); err != nil {
				return err
			}
		}

		reactors := reactions[emoji]
		idx := -1
		for i, id := range reactors {
			if id == userID {
				idx = i
				break
			}
		}
		if idx >= 0 {
			reactors = append(reactors[:idx], reactors[idx+1:]...)
			if len(reactors) == 0 {
				delete(reactions, emoji)
			} else {
				reactions[emoji] = reactors
			}
			added = false
		} else {
			reactions[emoji] = append(reactors, userID)
			added = true
		}

		updated, err := json.Marshal(reactions)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`UPDATE wr_messages SET reactions = ? WHERE guid = ?`, string(updated), messageID)
		return err
	})
	return added, err
}

// TogglePin flips a message's pinned flag. Returns the new state.
func TogglePin(db *sql.DB, messageID string) (bool, error) {
	var pinned bool
	err := withTx(db, func(tx *sql.Tx) error {
		var current int
		err := tx.QueryRow(`SELECT pinned FROM wr_messages WHERE guid = ?`, messageID).Scan(&current)
		if err == sql.ErrNoRows {
			return fmt.Errorf("message %s not found", messageID)
		}
		if err != nil {
			return err
		}

		next := 0
		if current == 0 {
			next = 1
		}
		pinned = next == 1
		_, err = tx.Exec(`UPDATE wr_messages SET pinned = ? WHERE guid = ?`, next, messageID)
		return err
	})
	return pinned, err
}

// CountMessagesAfter counts messages newer than sinceMS not authored by userID.
func CountMessagesAfter(db *sql.DB, userID string, sinceMS int64) (int, error) {
	row := db.QueryRow(`
		SELECT COUNT(*) FROM wr_messages WHERE ts > ? AND author_id != ?
	`, sinceMS, userID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func withTx(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// generateUniqueGUID creates a guid and retries on the unlikely collision.
func generateUniqueGUID(db *sql.DB, table, prefix string) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		guid, err := core.GenerateGUID(prefix)
		if err != nil {
			return "", err
		}
		var exists int
		err = db.QueryRow(fmt.Sprintf("SELECT 1 FROM %s WHERE guid = ?", table), guid).Scan(&exists)
		if err == sql.ErrNoRows {
			return guid, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not generate unique guid for %s", table)
}

type messageRow struct {
	GUID           string
	TS             int64
	AuthorID       string
	AuthorUsername string
	AuthorAvatar   sql.NullString
	Body           string
	SeenBy         string
	Edited         int
	EditedAt       sql.NullInt64
	Deleted        int
	Pinned         int
	Reactions      string
}

func (row messageRow) toMessage() (types.Message, error) {
	seenBy := []string{}
	if row.SeenBy != "" {
		if err := json.Unmarshal([]byte(row.SeenBy), &seenBy); err != nil {
			return types.Message{}, err
		}
	}
	reactions := map[string][]string{}
	if row.Reactions != "" {
		if err := json.Unmarshal([]byte(row.Reactions), &reactions); err != nil {
			return types.Message{}, err
		}
	}

	message := types.Message{
		ID:             row.GUID,
		TS:             row.TS,
		AuthorID:       row.AuthorID,
		AuthorUsername: row.AuthorUsername,
		Body:           row.Body,
		SeenBy:         seenBy,
		Edited:         row.Edited != 0,
		Deleted:        row.Deleted != 0,
		Pinned:         row.Pinned != 0,
		Reactions:      reactions,
	}
	if row.AuthorAvatar.Valid {
		message.AuthorAvatar = row.AuthorAvatar.String
	}
	if row.EditedAt.Valid {
		message.EditedAt = &row.EditedAt.Int64
	}
	return message, nil
}

func scanMessages(rows *sql.Rows) ([]types.Message, error) {
	var messages []types.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func scanMessage(scanner interface{ Scan(dest ...any) error }) (types.Message, error) {
	var row messageRow
	if err := scanner.Scan(&row.GUID, &row.TS, &row.AuthorID, &row.AuthorUsername, &row.AuthorAvatar, &row.Body, &row.SeenBy, &row.Edited, &row.EditedAt, &row.Deleted, &row.Pinned, &row.Reactions); err != nil {
		return types.Message{}, err
	}
	return row.toMessage()
}

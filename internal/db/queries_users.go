package db

import (
	"database/sql"
	"time"

	"github.com/wardroomhq/wardroom/internal/types"
)

const userColumns = `id, username, avatar, last_seen, typing`

// UpsertUser inserts or refreshes a user row. Identity fields are updated,
// presence fields are refreshed to now.
func UpsertUser(db *sql.DB, user types.User) error {
	lastSeen := user.LastSeen
	if lastSeen == 0 {
		lastSeen = time.Now().UnixMilli()
	}
	_, err := db.Exec(`
		INSERT INTO wr_users (id, username, avatar, last_seen, typing)
		VALUES (?, ?, ?, ?, 0)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			avatar = excluded.avatar,
			last_seen = excluded.last_seen
	`, user.ID, user.Username, user.Avatar, lastSeen)
	return err
}

// TouchUser refreshes a user's last_seen heartbeat timestamp.
func TouchUser(db *sql.DB, userID string, nowMS int64) error {
	_, err := db.Exec(`UPDATE wr_users SET last_seen = ? WHERE id = ?`, nowMS, userID)
	return err
}

// SetTyping sets a user's typing flag.
func SetTyping(db *sql.DB, userID string, typing bool) error {
	flag := 0
	if typing {
		flag = 1
	}
	_, err := db.Exec(`UPDATE wr_users SET typing = ? WHERE id = ?`, flag, userID)
	return err
}

// GetUser returns a user by id, or nil if absent.
func GetUser(db *sql.DB, userID string) (*types.User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM wr_users WHERE id = ?`, userID)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByName returns a user by username, or nil if absent.
func GetUserByName(db *sql.DB, username string) (*types.User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM wr_users WHERE username = ?`, username)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOnlineUsers returns users whose heartbeat is within the online window,
// most recently seen first.
func GetOnlineUsers(db *sql.DB, now time.Time) ([]types.User, error) {
	threshold := now.UnixMilli() - types.OnlineWindow.Milliseconds()
	rows, err := db.Query(`
		SELECT `+userColumns+` FROM wr_users
		WHERE last_seen > ?
		ORDER BY last_seen DESC, id ASC
	`, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

// GetTypingUsers returns users with the typing flag set, excluding excludeID.
func GetTypingUsers(db *sql.DB, excludeID string) ([]types.User, error) {
	rows, err := db.Query(`
		SELECT `+userColumns+` FROM wr_users
		WHERE typing = 1 AND id != ?
		ORDER BY username ASC
	`, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

// GetUsedAvatars returns the set of avatar glyphs already assigned.
func GetUsedAvatars(db *sql.DB) (map[string]struct{}, error) {
	rows, err := db.Query(`SELECT avatar FROM wr_users WHERE avatar IS NOT NULL AND avatar != ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	used := make(map[string]struct{})
	for rows.Next() {
		var avatar string
		if err := rows.Scan(&avatar); err != nil {
			return nil, err
		}
		used[avatar] = struct{}{}
	}
	return used, rows.Err()
}

func scanUsers(rows *sql.Rows) ([]types.User, error) {
	var users []types.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func scanUser(scanner interface{ Scan(dest ...any) error }) (types.User, error) {
	var user types.User
	var avatar sql.NullString
	var typing int
	if err := scanner.Scan(&user.ID, &user.Username, &avatar, &user.LastSeen, &typing); err != nil {
		return types.User{}, err
	}
	if avatar.Valid {
		user.Avatar = avatar.String
	}
	user.Typing = typing != 0
	return user, nil
}

package db

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens the sqlite database at path with the pragmas the chat
// store depends on (WAL for concurrent readers, busy_timeout for CLI overlap).
func OpenDatabase(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	return conn, nil
}

package db

import "database/sql"

// InitSchema creates the chat tables if they do not exist.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}

package chat

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/wardroomhq/wardroom/internal/core"
	"github.com/wardroomhq/wardroom/internal/db"
	"github.com/wardroomhq/wardroom/internal/types"
)

// Engine performs message mutations on behalf of one user, enforcing
// authorship and the edit window.
type Engine struct {
	log  Log
	self types.User

	now func() time.Time // test seam
}

// NewEngine creates a mutation engine for the given user.
func NewEngine(log Log, self types.User) *Engine {
	return &Engine{log: log, self: self, now: time.Now}
}

// Create posts a new message. Leading and trailing whitespace is trimmed;
// an empty body is rejected.
func (e *Engine) Create(body string) (types.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return types.Message{}, fmt.Errorf("message body is empty")
	}

	var created types.Message
	err := e.log.Write(func(conn *sql.DB) error {
		var err error
		created, err = db.CreateMessage(conn, types.Message{
			TS:             e.now().UnixMilli(),
			AuthorID:       e.self.ID,
			AuthorUsername: e.self.Username,
			AuthorAvatar:   e.self.Avatar,
			Body:           body,
		})
		return err
	})
	return created, err
}

// Edit replaces a message body. Only the author may edit, only within the
// edit window, and never a deleted message.
func (e *Engine) Edit(messageID, newBody string) error {
	newBody = strings.TrimSpace(newBody)
	if newBody == "" {
		return fmt.Errorf("message body is empty")
	}

	now := e.now()
	return e.log.Write(func(conn *sql.DB) error {
		msg, err := e.mutable(conn, messageID)
		if err != nil {
			return err
		}
		if msg.AuthorID != e.self.ID {
			return ErrUnauthorized
		}
		if !core.WithinWindow(msg.TS, types.EditWindow, now) {
			return ErrWindowExpired
		}
		return db.UpdateMessageBody(conn, messageID, newBody, now.UnixMilli())
	})
}

// Delete soft-deletes a message: placeholder body, reactions cleared, pin
// dropped. Same authorship and window rules as Edit.
func (e *Engine) Delete(messageID string) error {
	now := e.now()
	return e.log.Write(func(conn *sql.DB) error {
		msg, err := e.mutable(conn, messageID)
		if err != nil {
			return err
		}
		if msg.AuthorID != e.self.ID {
			return ErrUnauthorized
		}
		if !core.WithinWindow(msg.TS, types.EditWindow, now) {
			return ErrWindowExpired
		}
		return db.SoftDeleteMessage(conn, messageID, now.UnixMilli())
	})
}

// mutable loads a message and rejects absent or deleted targets.
func (e *Engine) mutable(conn *sql.DB, messageID string) (*types.Message, error) {
	msg, err := db.GetMessage(conn, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.Deleted {
		return nil, ErrNotFound
	}
	return msg, nil
}

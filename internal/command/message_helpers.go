package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wardroomhq/wardroom/internal/chat"
	"github.com/wardroomhq/wardroom/internal/db"
	"github.com/wardroomhq/wardroom/internal/types"
)

// resolveMessageRef finds a message by guid. Accepts the bare short id
// without the "msg-" prefix and an optional leading '#'.
func resolveMessageRef(ctx *CommandContext, ref string) (*types.Message, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(ref, "#"))
	if trimmed == "" {
		return nil, fmt.Errorf("message id is empty")
	}
	if !strings.HasPrefix(trimmed, "msg-") {
		trimmed = "msg-" + trimmed
	}

	msg, err := db.GetMessage(ctx.Log.DB(), trimmed)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("message %s not found", trimmed)
	}
	return msg, nil
}

// othersOnline reports whether anyone besides selfID is currently online.
func othersOnline(ctx *CommandContext, selfID string) bool {
	online, err := db.GetOnlineUsers(ctx.Log.DB(), time.Now())
	if err != nil {
		return false
	}
	for _, user := range online {
		if user.ID != selfID {
			return true
		}
	}
	return false
}

// friendlyMutationError maps engine errors to actionable messages.
func friendlyMutationError(err error, verb string) error {
	switch {
	case errors.Is(err, chat.ErrUnauthorized):
		return fmt.Errorf("only the author can %s a message", verb)
	case errors.Is(err, chat.ErrWindowExpired):
		return fmt.Errorf("too late to %s: the %s window has passed", verb, types.EditWindow)
	case errors.Is(err, chat.ErrNotFound):
		return fmt.Errorf("message not found or already deleted")
	default:
		return err
	}
}

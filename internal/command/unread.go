package command

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/db"
)

// NewUnreadCmd creates the unread command.
func NewUnreadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unread",
		Short: "Show the unread message count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			user, err := ctx.RequireUser()
			if err != nil {
				return writeCommandError(cmd, err)
			}

			count, err := countUnread(ctx, user.ID)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]int{"unread": count})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d unread\n", count)
			return nil
		},
	}

	return cmd
}

// countUnread counts messages newer than the user's chat cursor, excluding
// their own.
func countUnread(ctx *CommandContext, userID string) (int, error) {
	cursor, err := db.GetChatCursor(ctx.Log.DB(), userID)
	if err != nil {
		return 0, err
	}
	if cursor == nil {
		return 0, nil
	}
	return db.CountMessagesAfter(ctx.Log.DB(), userID, *cursor)
}

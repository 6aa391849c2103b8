package command

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/chat"
	"github.com/wardroomhq/wardroom/internal/db"
)

// NewPostCmd creates the post command.
func NewPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post <message>",
		Short: "Post a message to the room",
		Args:  cobra.ExactArgs(1),
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

			engine := chat.NewEngine(ctx.Log, user)
			msg, err := engine.Create(args[0])
			if err != nil {
				return writeCommandError(cmd, err)
			}

			// Posting is activity; refresh presence alongside.
			_ = ctx.Log.Write(func(conn *sql.DB) error {
				return db.TouchUser(conn, user.ID, time.Now().UnixMilli())
			})

			fmt.Fprintln(cmd.OutOrStdout(), FormatMessage(msg, user.ID, othersOnline(ctx, user.ID), time.Now()))
			return nil
		},
	}

	return cmd
}

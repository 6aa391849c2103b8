package command

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/db"
)

// NewByeCmd creates the bye command.
func NewByeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bye",
		Short: "Leave the room (go offline immediately)",
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

			err = ctx.Log.Write(func(conn *sql.DB) error {
				if err := db.SetTyping(conn, user.ID, false); err != nil {
					return err
				}
				return db.TouchUser(conn, user.ID, 0)
			})
			if err != nil {
				return writeCommandError(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s left\n", user.Avatar, user.Username)
			return nil
		},
	}

	return cmd
}

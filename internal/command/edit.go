package command

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/chat"
)

// NewEditCmd creates the edit command.
func NewEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id> <message>",
		Short: "Edit one of your recent messages",
		Args:  cobra.ExactArgs(2),
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

			msg, err := resolveMessageRef(ctx, args[0])
			if err != nil {
				return writeCommandError(cmd, err)
			}

			engine := chat.NewEngine(ctx.Log, user)
			if err := engine.Edit(msg.ID, args[1]); err != nil {
				return writeCommandError(cmd, friendlyMutationError(err, "edit"))
			}

			updated, err := resolveMessageRef(ctx, msg.ID)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), FormatMessage(*updated, user.ID, othersOnline(ctx, user.ID), time.Now()))
			return nil
		},
	}

	return cmd
}

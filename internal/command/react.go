package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/chat"
)

// NewReactCmd creates the react command.
func NewReactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "react <id> <emoji>",
		Short: "Toggle an emoji reaction on a message",
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
			added, err := engine.ToggleReaction(msg.ID, args[1])
			if err != nil {
				return writeCommandError(cmd, friendlyMutationError(err, "react to"))
			}

			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "Reacted %s to %s\n", args[1], msg.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[1], msg.ID)
			}
			return nil
		},
	}

	return cmd
}

package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/chat"
)

// NewRmCmd creates the rm command.
func NewRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete one of your recent messages",
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

			msg, err := resolveMessageRef(ctx, args[0])
			if err != nil {
				return writeCommandError(cmd, err)
			}

			engine := chat.NewEngine(ctx.Log, user)
			if err := engine.Delete(msg.ID); err != nil {
				return writeCommandError(cmd, friendlyMutationError(err, "delete"))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", msg.ID)
			return nil
		},
	}

	return cmd
}

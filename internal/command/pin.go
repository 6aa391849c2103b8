package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/chat"
)

// NewPinCmd creates the pin command.
func NewPinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPinToggle(cmd, args[0], true)
		},
	}

	return cmd
}

// NewUnpinCmd creates the unpin command.
func NewUnpinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpin <id>",
		Short: "Unpin a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPinToggle(cmd, args[0], false)
		},
	}

	return cmd
}

// runPinToggle drives pin and unpin. Both are toggles underneath; the
// command is a no-op when the message is already in the requested state.
func runPinToggle(cmd *cobra.Command, ref string, want bool) error {
	ctx, err := GetContext(cmd)
	if err != nil {
		return writeCommandError(cmd, err)
	}
	defer ctx.Close()

	user, err := ctx.RequireUser()
	if err != nil {
		return writeCommandError(cmd, err)
	}

	msg, err := resolveMessageRef(ctx, ref)
	if err != nil {
		return writeCommandError(cmd, err)
	}

	if msg.Pinned == want {
		if want {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already pinned\n", msg.ID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not pinned\n", msg.ID)
		}
		return nil
	}

	engine := chat.NewEngine(ctx.Log, user)
	verb := "pin"
	if !want {
		verb = "unpin"
	}
	pinned, err := engine.TogglePin(msg.ID)
	if err != nil {
		return writeCommandError(cmd, friendlyMutationError(err, verb))
	}

	if pinned {
		fmt.Fprintf(cmd.OutOrStdout(), "Pinned %s\n", msg.ID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Unpinned %s\n", msg.ID)
	}
	return nil
}

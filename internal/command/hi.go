package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/chat"
)

// NewHiCmd creates the hi command.
func NewHiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hi",
		Short: "Join the room (register on first login, refresh presence after)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			session, err := chat.StartSession(ctx.Log, ctx.Config, ctx.Logger)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer session.Stop()

			online, err := session.Online()
			if err != nil {
				return writeCommandError(cmd, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s is here\n", session.Self.Avatar, session.Self.Username)
			others := 0
			for _, user := range online {
				if user.ID != session.Self.ID {
					others++
				}
			}
			switch others {
			case 0:
				fmt.Fprintln(out, "Nobody else is around")
			case 1:
				fmt.Fprintln(out, "1 other person is online")
			default:
				fmt.Fprintf(out, "%d others are online\n", others)
			}
			if unread, err := countUnread(ctx, session.Self.ID); err == nil && unread > 0 {
				fmt.Fprintf(out, "%d unread message(s). See them with 'wr log'\n", unread)
			}
			return nil
		},
	}

	return cmd
}

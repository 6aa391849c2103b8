package command

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/chat"
	"github.com/wardroomhq/wardroom/internal/types"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream messages in real-time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			notify, _ := cmd.Flags().GetBool("notify")

			session, err := chat.StartSession(ctx.Log, ctx.Config, ctx.Logger)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer session.Stop()

			messages, cancelMessages := session.Store.SubscribeRecent()
			defer cancelMessages()
			typing, cancelTyping := session.Typing.SubscribeTyping()
			defer cancelTyping()

			out := cmd.OutOrStdout()
			if !ctx.JSONMode {
				fmt.Fprintf(out, "--- watching as %s (Ctrl+C to stop) ---\n", session.Self.Username)
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(stop)

			seen := make(map[string]types.Message)
			first := true
			for {
				select {
				case <-stop:
					// Leaving the room marks everything read.
					if err := session.MarkAllSeen(); err != nil {
						ctx.Logger.Warn("mark all seen failed", "err", err)
					}
					if !ctx.JSONMode {
						fmt.Fprintln(out, "\n--- stopped ---")
					}
					return nil

				case snapshot := <-messages:
					printNew := !first
					first = false
					online := othersOnline(ctx, session.Self.ID)
					for _, msg := range snapshot {
						prev, known := seen[msg.ID]
						seen[msg.ID] = msg
						if known && prev.Body == msg.Body && prev.Deleted == msg.Deleted {
							continue
						}
						if known && !printNew {
							continue
						}
						if ctx.JSONMode {
							_ = json.NewEncoder(out).Encode(msg)
							continue
						}
						fmt.Fprintln(out, FormatMessage(msg, session.Self.ID, online, time.Now()))
						if !known && printNew && notify &&
							msg.AuthorID != session.Self.ID &&
							mentionsUser(msg.Body, session.Self.Username) {
							_ = beeep.Notify("wardroom", fmt.Sprintf("@%s: %s", msg.AuthorUsername, msg.Body), "")
						}
					}
					if err := session.Receipts.MarkDelivered(snapshot); err != nil {
						ctx.Logger.Warn("mark delivered failed", "err", err)
					}

				case users := <-typing:
					if ctx.JSONMode {
						continue
					}
					switch len(users) {
					case 0:
					case 1:
						fmt.Fprintf(out, "%s%s is typing…%s\n", dim, users[0].Username, reset)
					default:
						fmt.Fprintf(out, "%s%d people are typing…%s\n", dim, len(users), reset)
					}
				}
			}
		},
	}

	cmd.Flags().Bool("notify", true, "desktop notification when you are mentioned")
	return cmd
}

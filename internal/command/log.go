package command

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/chat"
	"github.com/wardroomhq/wardroom/internal/db"
	"github.com/wardroomhq/wardroom/internal/types"
)

// NewLogCmd creates the log command.
func NewLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			before, _ := cmd.Flags().GetString("before")
			if limit <= 0 {
				limit = types.DefaultPageSize
			}

			var messages []types.Message
			if before != "" {
				anchor, err := resolveMessageRef(ctx, before)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				cursor := types.MessageCursor{GUID: anchor.ID, TS: anchor.TS}
				messages, err = db.GetMessagesBefore(ctx.Log.DB(), cursor, limit)
				if err != nil {
					return writeCommandError(cmd, err)
				}
			} else {
				messages, err = db.GetRecentMessages(ctx.Log.DB(), limit)
				if err != nil {
					return writeCommandError(cmd, err)
				}
			}

			selfID := ""
			if user, err := ctx.RequireUser(); err == nil {
				selfID = user.ID
				receipts := chat.NewReceipts(ctx.Log, user, ctx.Logger)
				if err := receipts.MarkDelivered(messages); err != nil {
					ctx.Logger.Warn("mark delivered failed", "err", err)
				}
			}

			if ctx.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(messages)
			}

			out := cmd.OutOrStdout()
			if len(messages) == 0 {
				fmt.Fprintln(out, "No messages")
				return nil
			}
			now := time.Now()
			online := selfID != "" && othersOnline(ctx, selfID)
			for _, msg := range messages {
				fmt.Fprintln(out, FormatMessage(msg, selfID, online, now))
			}
			if len(messages) == limit {
				fmt.Fprintf(out, "%sOlder: wr log --before %s%s\n", dim, messages[0].ID, reset)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", types.DefaultPageSize, "number of messages to show")
	cmd.Flags().String("before", "", "page backwards from this message id")
	return cmd
}

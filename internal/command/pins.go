package command

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/db"
)

// NewPinsCmd creates the pins command.
func NewPinsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pins",
		Short: "List pinned messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			pins, err := db.GetPinnedMessages(ctx.Log.DB())
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(pins)
			}

			out := cmd.OutOrStdout()
			if len(pins) == 0 {
				fmt.Fprintln(out, "No pinned messages")
				return nil
			}
			now := time.Now()
			for _, msg := range pins {
				fmt.Fprintln(out, FormatMessage(msg, "", false, now))
			}
			return nil
		},
	}

	return cmd
}

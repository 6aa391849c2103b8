package command

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/db"
	"github.com/wardroomhq/wardroom/internal/types"
)

// NewWhoCmd creates the who command.
func NewWhoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "who",
		Short: "Show who is online",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			now := time.Now()
			online, err := db.GetOnlineUsers(ctx.Log.DB(), now)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				payload := make([]userDetails, 0, len(online))
				for _, user := range online {
					payload = append(payload, toUserDetails(user, now))
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(payload)
			}

			out := cmd.OutOrStdout()
			if len(online) == 0 {
				fmt.Fprintln(out, "Nobody is online")
				return nil
			}
			for _, user := range online {
				fmt.Fprintln(out, FormatUser(user, now))
			}
			return nil
		},
	}

	return cmd
}

type userDetails struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	LastSeen int64  `json:"last_seen"`
	Online   bool   `json:"online"`
	Typing   bool   `json:"typing"`
}

func toUserDetails(user types.User, now time.Time) userDetails {
	return userDetails{
		ID:       user.ID,
		Username: user.Username,
		Avatar:   user.Avatar,
		LastSeen: user.LastSeen,
		Online:   user.Online(now),
		Typing:   user.Typing,
	}
}

package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/core"
	"github.com/wardroomhq/wardroom/internal/db"
	"github.com/wardroomhq/wardroom/internal/eventlog"
	"github.com/wardroomhq/wardroom/internal/types"
)

// CommandContext provides shared command resources.
type CommandContext struct {
	Log      *eventlog.Client
	Project  core.Project
	Config   core.Config
	Logger   *slog.Logger
	JSONMode bool
}

// GetContext resolves the project, opens the event log, and builds the
// command logger.
func GetContext(cmd *cobra.Command) (*CommandContext, error) {
	jsonMode, _ := cmd.Flags().GetBool("json")

	project, err := core.DiscoverProject("")
	if err != nil {
		return nil, err
	}

	cfg := core.LoadConfig()
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: cfg.LogLevel}))

	log, err := eventlog.Open(project.DBPath, eventlog.Options{Logger: logger})
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Log:      log,
		Project:  project,
		Config:   cfg,
		Logger:   logger,
		JSONMode: jsonMode,
	}, nil
}

// Close releases the event log handle.
func (ctx *CommandContext) Close() {
	_ = ctx.Log.Close()
}

// RequireUser loads the configured user's registered identity. Commands
// that act as someone need a prior 'wr hi'.
func (ctx *CommandContext) RequireUser() (types.User, error) {
	if ctx.Config.Username == "" {
		return types.User{}, fmt.Errorf("no username configured (set WARDROOM_USER)")
	}
	user, err := db.GetUserByName(ctx.Log.DB(), ctx.Config.Username)
	if err != nil {
		return types.User{}, err
	}
	if user == nil {
		return types.User{}, fmt.Errorf("user '%s' not registered. Use 'wr hi' first", ctx.Config.Username)
	}
	return *user, nil
}

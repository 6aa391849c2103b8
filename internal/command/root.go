package command

import (
	"os"

	"github.com/spf13/cobra"
)

const AppName = "wr"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "Wardroom - team chat in your repo",
		Long:          "Wardroom is a lightweight team chat CLI backed by a shared project database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().Bool("json", false, "output in JSON format")

	cmd.AddCommand(
		NewInitCmd(),
		NewHiCmd(),
		NewByeCmd(),
		NewWhoCmd(),
		NewWhoamiCmd(),
		NewPostCmd(),
		NewEditCmd(),
		NewRmCmd(),
		NewReactCmd(),
		NewPinCmd(),
		NewUnpinCmd(),
		NewPinsCmd(),
		NewLogCmd(),
		NewWatchCmd(),
		NewUnreadCmd(),
		NewSeenCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd(Version).Execute()
}

package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wardroomhq/wardroom/internal/core"
	"github.com/wardroomhq/wardroom/internal/db"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .wardroom/ chat database in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			cwd, err := os.Getwd()
			if err != nil {
				return writeCommandError(cmd, err)
			}

			project, err := core.InitProject(cwd, force)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			conn, err := db.OpenDatabase(project.DBPath)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer conn.Close()
			if err := db.InitSchema(conn); err != nil {
				return writeCommandError(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized wardroom at %s\n", project.DBPath)
			fmt.Fprintln(cmd.OutOrStdout(), "Say hello with 'wr hi'")
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "reinitialize even if .wardroom/ exists")
	return cmd
}

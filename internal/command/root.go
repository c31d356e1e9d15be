// Package command implements the rollcall CLI.
package command

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

const AppName = "rollcall"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "rollcall - attendance client",
		Long:          "rollcall logs people in and out of groups, edits logged entries and moves rosters and logs in and out of the attendance server.",
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

	cmd.PersistentFlags().String("config", "", "config file (default $ROLLCALL_CONFIG or ~/.config/rollcall/config.yaml)")
	cmd.PersistentFlags().String("server", "", "server base URL")
	cmd.PersistentFlags().String("data", "", "directory of the local database")
	cmd.PersistentFlags().String("out", "", "directory for downloaded files")
	cmd.PersistentFlags().String("locale", "", "locale for ordering group names")
	cmd.PersistentFlags().Bool("json", false, "output in JSON format")
	cmd.PersistentFlags().Bool("force", false, "skip confirmations")

	cmd.AddCommand(
		NewGroupsCmd(),
		NewFavCmd(),
		NewMembersCmd(),
		NewEnterCmd(),
		NewExitCmd(),
		NewEntriesCmd(),
		NewEntryCmd(),
		NewExportCmd(),
		NewImportCmd(),
		NewLogCmd(),
	)

	return cmd
}

// Execute runs the root command. Command errors have already been printed.
func Execute(ctx context.Context) error {
	return NewRootCmd(Version).ExecuteContext(ctx)
}

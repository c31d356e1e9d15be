package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMembersCmd creates the members command.
func NewMembersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members <group>",
		Short: "List the members of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			group := args[0]
			members, err := ctx.Attendance.Members(cmd.Context(), group)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return writeJSON(cmd, members)
			}

			star, err := ctx.Groups.Star(cmd.Context(), group)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", headerStyle.Render(group), starStyle.Render(star.String()))
			if len(members) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), metaStyle.Render("No members found."))
				return nil
			}
			for _, m := range members {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", metaStyle.Render(fmt.Sprintf("%6s", m.ID)), m.FullName())
			}
			return nil
		},
	}

	return cmd
}

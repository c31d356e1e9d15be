package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/rollcall/internal/models"
	"github.com/mmynk/rollcall/internal/service"
)

// NewEnterCmd creates the enter command.
func NewEnterCmd() *cobra.Command {
	return newActionCmd("enter", models.ActionEntered, "Log people as entered")
}

// NewExitCmd creates the exit command.
func NewExitCmd() *cobra.Command {
	return newActionCmd("exit", models.ActionExited, "Log people as exited")
}

func newActionCmd(use string, action models.Action, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <group> [person-id...]",
		Short: short,
		Long:  short + ". Initials default to the last ones used.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			initials, _ := cmd.Flags().GetString("initials")
			if initials == "" {
				initials, err = ctx.Attendance.SavedInitials(cmd.Context())
				if err != nil {
					return writeCommandError(cmd, err)
				}
			}
			all, _ := cmd.Flags().GetBool("all")

			resp, err := ctx.Attendance.Submit(cmd.Context(), service.SubmitInput{
				Initials: initials,
				Group:    args[0],
				People:   args[1:],
				All:      all,
				Action:   action,
			})
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return writeJSON(cmd, resp)
			}
			writeSuccess(cmd, "Change saved: %s", resp.Action)
			for _, p := range resp.People {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p.FullName())
			}
			return nil
		},
	}

	cmd.Flags().String("initials", "", "operator initials")
	cmd.Flags().Bool("all", false, "select every member of the group")
	return cmd
}

package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/rollcall/internal/events"
	"github.com/mmynk/rollcall/internal/favorites"
	"github.com/mmynk/rollcall/internal/models"
)

type groupResult struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Favorite bool   `json:"favorite"`
}

func groupResults(options []models.GroupOption) []groupResult {
	out := make([]groupResult, 0, len(options))
	for _, o := range options {
		if o.IsPlaceholder() {
			continue
		}
		out = append(out, groupResult{ID: o.ID, Label: o.Label, Favorite: o.Label != o.ID})
	}
	return out
}

func printGroups(cmd *cobra.Command, options []models.GroupOption) {
	for _, g := range groupResults(options) {
		if g.Favorite {
			fmt.Fprintln(cmd.OutOrStdout(), starStyle.Render(g.Label))
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), g.Label)
	}
}

// NewGroupsCmd creates the groups command.
func NewGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List groups, favorites first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			options, err := ctx.Groups.ListGroups(cmd.Context())
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return writeJSON(cmd, groupResults(options))
			}
			printGroups(cmd, options)
			return nil
		},
	}

	return cmd
}

// NewFavCmd creates the fav command.
func NewFavCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav <group>",
		Short: "Toggle the favorite mark of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			bus := events.NewBus()
			ctx.Groups.Register(bus)

			group := args[0]
			if err := bus.Dispatch(cmd.Context(), events.SelectionChanged{Group: group}); err != nil {
				return writeCommandError(cmd, err)
			}
			if err := bus.Dispatch(cmd.Context(), events.FavoriteToggled{Group: group}); err != nil {
				return writeCommandError(cmd, err)
			}

			star, err := ctx.Groups.Star(cmd.Context(), group)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return writeJSON(cmd, map[string]any{
					"group":    group,
					"favorite": star == favorites.StarFilled,
				})
			}
			if star == favorites.StarFilled {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s is a favorite\n", starStyle.Render(star.String()), group)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s is no longer a favorite\n", star, group)
			}
			return nil
		},
	}

	return cmd
}

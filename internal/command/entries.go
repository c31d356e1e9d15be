package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmynk/rollcall/internal/events"
	"github.com/mmynk/rollcall/internal/models"
	"github.com/mmynk/rollcall/internal/rowedit"
)

type rowResult struct {
	Index     int    `json:"index"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	State     string `json:"state"`
}

func rowResults(rows []rowedit.Row) []rowResult {
	out := make([]rowResult, len(rows))
	for i, r := range rows {
		out[i] = rowResult{
			Index:     i + 1,
			Status:    string(r.Status),
			Timestamp: r.Timestamp(),
			State:     r.State.String(),
		}
	}
	return out
}

func printRows(cmd *cobra.Command, rows []rowedit.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), metaStyle.Render("No entries."))
		return
	}
	for _, r := range rowResults(rows) {
		line := fmt.Sprintf("%3d  %-12s %s", r.Index, r.Status, r.Timestamp)
		if r.State != rowedit.Clean.String() {
			line += "  " + metaStyle.Render("("+r.State+")")
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}

// openRow opens the entries of a person and resolves a 1-based row number.
func openRow(ctx context.Context, c *CommandContext, bus *events.Bus, group, personID, n string) (*rowedit.Reconciler, string, error) {
	rec, err := c.Edit.Open(ctx, bus, group, personID)
	if err != nil {
		return nil, "", err
	}
	i, err := strconv.Atoi(n)
	if err != nil {
		return nil, "", fmt.Errorf("invalid row number %q", n)
	}
	row, ok := rec.Rows().At(i - 1)
	if !ok {
		return nil, "", fmt.Errorf("no row %d (have %d)", i, rec.Rows().Len())
	}
	return rec, row.Key, nil
}

// NewEntriesCmd creates the entries command.
func NewEntriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries <group> <person-id>",
		Short: "List today's entries of a person",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			rec, err := ctx.Edit.Open(cmd.Context(), events.NewBus(), args[0], args[1])
			if err != nil {
				return writeCommandError(cmd, err)
			}

			rows := rec.Rows().Rows()
			if ctx.JSONMode {
				return writeJSON(cmd, rowResults(rows))
			}
			printRows(cmd, rows)
			return nil
		},
	}

	return cmd
}

// NewEntryCmd creates the entry command group.
func NewEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Edit or delete a logged entry",
	}

	cmd.AddCommand(newEntrySetCmd(), newEntryRmCmd())
	return cmd
}

func newEntrySetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <group> <person-id> <row>",
		Short: "Change the status, date or time of an entry and save it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			bus := events.NewBus()
			rec, key, err := openRow(cmd.Context(), ctx, bus, args[0], args[1], args[2])
			if err != nil {
				return writeCommandError(cmd, err)
			}

			for _, f := range []rowedit.Field{rowedit.FieldStatus, rowedit.FieldDate, rowedit.FieldTime} {
				if !cmd.Flags().Changed(string(f)) {
					continue
				}
				v, _ := cmd.Flags().GetString(string(f))
				if f == rowedit.FieldStatus && !models.Action(v).Valid() {
					return writeCommandError(cmd, fmt.Errorf("invalid status %q (want %s or %s)", v, models.ActionEntered, models.ActionExited))
				}
				if err := bus.Dispatch(cmd.Context(), events.FieldChanged{Row: key, Field: f, Value: v}); err != nil {
					return writeCommandError(cmd, err)
				}
			}

			if err := bus.Dispatch(cmd.Context(), events.SaveRequested{Row: key}); err != nil {
				return writeCommandError(cmd, err)
			}

			row, err := rec.Rows().Get(key)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return writeJSON(cmd, rowResults([]rowedit.Row{row})[0])
			}
			writeSuccess(cmd, "Saved: %s %s", row.Original.Status, row.Original.Timestamp)
			return nil
		},
	}

	cmd.Flags().String(string(rowedit.FieldStatus), "", "new status (eingetreten or ausgetreten)")
	cmd.Flags().String(string(rowedit.FieldDate), "", "new date (YYYY-MM-DD)")
	cmd.Flags().String(string(rowedit.FieldTime), "", "new time (HH:MM)")
	return cmd
}

func newEntryRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <group> <person-id> <row>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			bus := events.NewBus()
			rec, key, err := openRow(cmd.Context(), ctx, bus, args[0], args[1], args[2])
			if err != nil {
				return writeCommandError(cmd, err)
			}

			err = bus.Dispatch(cmd.Context(), events.DeleteRequested{Row: key})
			if errors.Is(err, rowedit.ErrCancelled) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return writeJSON(cmd, map[string]any{"removed": true, "remaining": rec.Rows().Len()})
			}
			writeSuccess(cmd, "Entry deleted")
			return nil
		},
	}

	return cmd
}

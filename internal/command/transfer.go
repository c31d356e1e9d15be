package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/rollcall/internal/models"
)

// NewExportCmd creates the export command group.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download exports into the download directory",
	}

	cmd.AddCommand(
		newExportGroupCmd("csv", models.FileTypeCSV),
		newExportGroupCmd("pdf", models.FileTypePDF),
		newDownloadCmd("logs", "Download the attendance log", func(ctx context.Context, c *CommandContext) (string, error) {
			return c.Transfer.ExportLogs(ctx)
		}),
		newDownloadCmd("groups", "Download all group rosters", func(ctx context.Context, c *CommandContext) (string, error) {
			return c.Transfer.ExportGroups(ctx)
		}),
		newDownloadCmd("asv", "Download the ASV export", func(ctx context.Context, c *CommandContext) (string, error) {
			return c.Transfer.ExportASV(ctx)
		}),
	)
	return cmd
}

func writeDownloaded(cmd *cobra.Command, c *CommandContext, path string) error {
	if c.JSONMode {
		return writeJSON(cmd, map[string]string{"path": path})
	}
	writeSuccess(cmd, "Saved %s", path)
	return nil
}

func newExportGroupCmd(use string, fileType models.FileType) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <group> [person-id...]",
		Short: fmt.Sprintf("Export the selected people of a group as %s", fileType),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			all, _ := cmd.Flags().GetBool("all")
			path, err := ctx.Transfer.ExportGroup(cmd.Context(), fileType, args[0], args[1:], all)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			return writeDownloaded(cmd, ctx, path)
		},
	}

	cmd.Flags().Bool("all", false, "select every member of the group")
	return cmd
}

func newDownloadCmd(use, short string, download func(context.Context, *CommandContext) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			path, err := download(cmd.Context(), ctx)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			return writeDownloaded(cmd, ctx, path)
		},
	}
}

// NewImportCmd creates the import command group.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Upload files to the server",
	}

	cmd.AddCommand(newImportASVCmd(), newImportGroupsCmd())
	return cmd
}

func newImportASVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asv <file>",
		Short: "Import an ASV file, optionally regenerating the groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			generate, _ := cmd.Flags().GetBool("generate")
			if !generate && !ctx.JSONMode {
				generate = newConfirmer(cmd, ctx.Force).Confirm("Generate groups from the imported file?")
			}

			msgs, err := ctx.Transfer.ImportASV(cmd.Context(), args[0], generate)
			if err != nil {
				for _, m := range msgs {
					fmt.Fprintln(cmd.OutOrStdout(), m)
				}
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return writeJSON(cmd, map[string]any{"messages": msgs})
			}
			for _, m := range msgs {
				writeSuccess(cmd, "%s", m)
			}
			return nil
		},
	}

	cmd.Flags().Bool("generate", false, "regenerate groups after the import")
	return cmd
}

func newImportGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups <file>...",
		Short: "Import group roster files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			msg, err := ctx.Transfer.ImportGroups(cmd.Context(), args)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return writeJSON(cmd, map[string]string{"message": msg})
			}
			writeSuccess(cmd, "%s", msg)
			return nil
		},
	}
}

// NewLogCmd creates the log command group.
func NewLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Manage the attendance log",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rm",
		Short: "Delete the whole attendance log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			if !newConfirmer(cmd, ctx.Force).Confirm("Really delete the whole log? This cannot be undone.") {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}

			msg, err := ctx.Transfer.DeleteLog(cmd.Context())
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return writeJSON(cmd, map[string]string{"message": msg})
			}
			writeSuccess(cmd, "%s", msg)
			return nil
		},
	})
	return cmd
}

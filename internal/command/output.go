package command

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mmynk/rollcall/internal/rowedit"
	"github.com/mmynk/rollcall/internal/validation"
)

var (
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	noticeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	starStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))
)

func writeCommandError(cmd *cobra.Command, err error) error {
	w := cmd.ErrOrStderr()

	var verr *validation.Error
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			fmt.Fprintf(w, "%s %s %s\n", errorStyle.Render("Error:"), f.Field, f.Message)
		}
		return err
	}

	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("Error:"), err.Error())
	if isTransportError(err) {
		fmt.Fprintln(w, metaStyle.Render("Hint: check --server or ROLLCALL_SERVER"))
	}
	return err
}

// isTransportError reports errors that never reached the backend.
func isTransportError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "unavailable")
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSuccess(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf(format, args...)))
}

// notifier prints one-shot failure messages on stderr.
type notifier struct {
	w io.Writer
}

func newNotifier(cmd *cobra.Command) rowedit.Notifier {
	return notifier{w: cmd.ErrOrStderr()}
}

func (n notifier) Notify(msg string) {
	fmt.Fprintln(n.w, noticeStyle.Render("! "+msg))
}

// newConfirmer asks on the command's stdin, or always says yes with force.
func newConfirmer(cmd *cobra.Command, force bool) rowedit.Confirmer {
	return rowedit.ConfirmFunc(func(prompt string) bool {
		if force {
			return true
		}
		ok, err := confirmPrompt(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt+" [y/N]: ")
		if err != nil {
			slog.Warn("Failed to read confirmation", "error", err)
			return false
		}
		return ok
	})
}

func confirmPrompt(input io.Reader, output io.Writer, prompt string) (bool, error) {
	fmt.Fprint(output, prompt)
	reader := bufio.NewReader(input)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response := strings.TrimSpace(strings.ToLower(line))
	return response == "y" || response == "yes" || response == "j" || response == "ja", nil
}

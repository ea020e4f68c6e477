package cmd

import (
	"errors"
	"fmt"
	"strings"

	chatrender "github.com/bnema/coach-cli/internal/adapters/render/chat"
	"github.com/bnema/coach-cli/internal/domain"
	"github.com/spf13/cobra"
)

const lastMessageLayout = "2006-01-02 15:04"

var errNoActiveSession = errors.New("no active session: run `coach upload <file>` first")

func newSessionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Manage coaching sessions",
	}

	cmd.AddCommand(
		newSessionListCmd(app),
		newSessionUseCmd(app),
		newSessionRemoveCmd(app),
		newSessionShowCmd(app),
	)

	return cmd
}

func newSessionListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sessions, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := app.workspace.Sessions(cmd.Context())
			if err != nil {
				return err
			}

			return writeSessionsOutput(cmd, app, sessions, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newSessionUseCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use <session-id>",
		Short: "Make a session the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			if err := requireSession(cmd, app, id); err != nil {
				return err
			}

			chat, err := app.workspace.Activate(cmd.Context(), id)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "active session: %s (%s)\n", chat.Session.ID, chat.Session.DisplayName())
			return err
		},
	}
}

func newSessionRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <session-id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a session and its conversation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			if err := requireSession(cmd, app, id); err != nil {
				return err
			}

			if err := app.workspace.Delete(cmd.Context(), id); err != nil {
				return err
			}

			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "removed session: %s\n", id); err != nil {
				return err
			}
			if next := app.workspace.ActiveID(); next != "" {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "active session: %s\n", next)
			}
			return err
		},
	}
}

func newSessionShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [session-id]",
		Short: "Show the parsed resume of a session (default: active)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 1 {
				raw = args[0]
			}

			id, err := resolveSessionID(app, raw)
			if err != nil {
				return err
			}

			chat, err := app.workspace.Session(cmd.Context(), id)
			if err != nil {
				return err
			}

			rendered, err := chatrender.Resume(chat.Session)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "session: %s\nname: %s\nmessages: %d\n", chat.Session.ID, chat.Session.DisplayName(), len(chat.Messages)); err != nil {
				return err
			}
			if last, ok := chat.LastMessage(); ok {
				if _, err := fmt.Fprintf(out, "last message: %s (%s)\n", last.Time.Local().Format(lastMessageLayout), last.Sender); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(out, rendered)
			return err
		},
	}
}

func parseSessionID(raw string) (domain.SessionID, error) {
	id := domain.NormalizeSessionID(raw)
	if id == "" {
		return "", errors.New("session id is required")
	}

	return id, nil
}

// resolveSessionID returns the session named by raw, or the active session
// when raw is blank.
func resolveSessionID(app *app, raw string) (domain.SessionID, error) {
	if strings.TrimSpace(raw) != "" {
		return parseSessionID(raw)
	}

	id := app.workspace.ActiveID()
	if id == "" {
		return "", errNoActiveSession
	}

	return id, nil
}

func requireSession(cmd *cobra.Command, app *app, id domain.SessionID) error {
	exists, err := app.workspace.Store().Has(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	return nil
}

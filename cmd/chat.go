package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	chatrender "github.com/bnema/coach-cli/internal/adapters/render/chat"
	"github.com/bnema/coach-cli/internal/application"
	"github.com/spf13/cobra"
)

var errEmptyMessage = errors.New("message is empty")

func newChatCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the coach about a session's resume",
	}

	cmd.AddCommand(
		newChatSendCmd(app),
		newChatHistoryCmd(app),
		newChatClearCmd(app),
	)

	return cmd
}

func newChatSendCmd(app *app) *cobra.Command {
	var sessionID string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "send <message...>",
		Short: "Send a message and print the coach's reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChatSend(cmd, app, sessionID, strings.Join(args, " "), quiet)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: active session)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip the typing indicator")

	return cmd
}

func runChatSend(cmd *cobra.Command, app *app, rawID string, text string, quiet bool) error {
	id, err := resolveSessionID(app, rawID)
	if err != nil {
		return err
	}

	var result application.SendResult
	send := func(ctx context.Context) error {
		result = app.dispatcher.Send(ctx, id, text)
		return nil
	}

	if quiet {
		_ = send(cmd.Context())
	} else if err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), typingLabel, send); err != nil {
		return err
	}

	if result.Outcome == application.SendSkipped {
		if result.Err != nil {
			return result.Err
		}
		return errEmptyMessage
	}

	rendered, err := chatrender.Reply(result.Reply)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func newChatHistoryCmd(app *app) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"log"},
		Short:   "Print the conversation of a session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := resolveSessionID(app, sessionID)
			if err != nil {
				return err
			}

			chat, err := app.workspace.Session(cmd.Context(), id)
			if err != nil {
				return err
			}

			rendered, err := chatrender.Transcript(chat)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: active session)")

	return cmd
}

func newChatClearCmd(app *app) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Erase the conversation of a session, keeping the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := resolveSessionID(app, sessionID)
			if err != nil {
				return err
			}

			if err := app.workspace.ClearLog(cmd.Context(), id); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleared conversation: %s\n", id)
			return err
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: active session)")

	return cmd
}

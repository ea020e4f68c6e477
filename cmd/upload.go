package cmd

import (
	"context"
	"fmt"
	"os"

	chatrender "github.com/bnema/coach-cli/internal/adapters/render/chat"
	"github.com/bnema/coach-cli/internal/application"
	"github.com/spf13/cobra"
)

func newUploadCmd(app *app) *cobra.Command {
	var domainHint string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a resume and start a coaching session for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, app, args[0], domainHint, quiet)
		},
	}

	cmd.Flags().StringVar(&domainHint, "domain", "", "Career domain hint sent with the resume")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip the spinner and the resume summary")

	return cmd
}

func runUpload(cmd *cobra.Command, app *app, path string, domainHint string, quiet bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open resume: %w", err)
	}
	defer file.Close()

	var result application.UploadResult
	submit := func(ctx context.Context) error {
		var submitErr error
		result, submitErr = app.uploader.Submit(ctx, &application.File{Name: path, Content: file}, domainHint)
		return submitErr
	}

	if quiet {
		err = submit(cmd.Context())
	} else {
		err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), uploadingLabel, submit)
	}

	if _, writeErr := fmt.Fprintln(cmd.OutOrStdout(), result.Status); writeErr != nil {
		return writeErr
	}
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "session: %s\n", result.Session.ID); err != nil {
		return err
	}
	if quiet {
		return nil
	}

	rendered, err := chatrender.Resume(result.Session)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

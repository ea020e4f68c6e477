package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	chatrender "github.com/bnema/coach-cli/internal/adapters/render/chat"
	"github.com/bnema/coach-cli/internal/domain"
	"github.com/spf13/cobra"
)

type sessionListing struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Active    bool      `json:"active"`
}

func writeSessionsOutput(cmd *cobra.Command, app *app, sessions []domain.Session, asJSON bool) error {
	active := app.workspace.ActiveID()

	if asJSON {
		listings := make([]sessionListing, 0, len(sessions))
		for _, session := range sessions {
			listings = append(listings, sessionListing{
				ID:        string(session.ID),
				Name:      session.DisplayName(),
				Label:     session.Label,
				CreatedAt: session.CreatedAt,
				Active:    session.ID == active,
			})
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	}

	rendered, err := chatrender.Sessions(sessions, active)
	if err != nil {
		return fmt.Errorf("render sessions: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

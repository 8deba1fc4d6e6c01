package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"sess"},
	Short:   "List the newest accepted token per identity",
	Long: `Shows which token the server currently considers the freshest for each
identity. Older tokens for the same identity are revoked as newer ones arrive.
Requires admin credentials (diploma login).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Fetching sessions...")
		sessions, err := cli.ListSessions(cmd.Context())
		if err != nil {
			log.Error().Msgf("%s failed to fetch sessions", redCross)
			log.Error().Msgf("error: %v", err)
			return BeQuietError{}
		}

		log.Info().Msgf("Retrieved %d sessions", len(sessions))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Identity", "Fingerprint", "Logical Time", "Accepted"})

		for identity, entry := range sessions {
			t.AppendRow(table.Row{
				truncate(identity, 35),
				truncate(entry.Fingerprint, 16),
				time.Unix(entry.LogicalTime, 0).UTC().Format(time.RFC3339),
				entry.AcceptedAt.Format(time.RFC3339),
			})
		}

		t.SortBy([]table.SortBy{{Name: "Identity", Mode: table.Asc}})
		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

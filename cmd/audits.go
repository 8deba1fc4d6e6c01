package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/CyrilRPG/diploma/pkg/client"
)

var (
	auditsLimit       int
	auditsIdentity    string
	auditsFingerprint string
)

// auditsCmd represents the audits command
var auditsCmd = &cobra.Command{
	Use:   "audits",
	Short: "Retrieve and display audit log entries",
	Long: `Fetches the most recent validation and revocation decisions from the server.
Requires admin credentials (diploma login).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Fetching audit log...")
		audits, correlation, err := cli.ListAudits(cmd.Context(), client.ListAuditsOpts{
			Identity:    auditsIdentity,
			Fingerprint: auditsFingerprint,
			Limit:       uint(auditsLimit),
		})
		if err != nil {
			log.Error().Msgf("%s failed to fetch audits (correlation ID: %s)", redCross, correlation)
			log.Error().Msgf("error: %v", err)
			return BeQuietError{}
		}

		log.Info().Msgf("Retrieved %d audit entries", len(audits))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Time", "Action", "Identity", "OK", "Reason", "Fingerprint", "Error",
		})

		for _, e := range audits {
			status := "YES"
			if !e.OK {
				status = "NO"
			}

			identity := e.Identity
			if identity == "" {
				identity = "(unknown)"
			}

			t.AppendRow(table.Row{
				e.Time.Format(time.RFC3339),
				e.Action,
				truncate(identity, 35),
				status,
				e.Reason,
				truncate(e.Fingerprint, 16),
				e.Error,
			})
		}

		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditsCmd)

	auditsCmd.Flags().IntVarP(&auditsLimit, "limit", "n", 25, "Number of audit entries to retrieve")
	auditsCmd.Flags().StringVar(&auditsIdentity, "identity", "", "Only show entries for this identity")
	auditsCmd.Flags().StringVar(&auditsFingerprint, "fingerprint", "", "Only show entries for this token fingerprint")
}

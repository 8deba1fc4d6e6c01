package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var revocationsCmd = &cobra.Command{
	Use:   "revocations",
	Short: "List revoked token fingerprints",
	Long: `Prints the fingerprint of every revoked token known to the server.
Requires admin credentials (diploma login).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		resp, err := cli.ListRevocations(cmd.Context())
		if err != nil {
			log.Error().Msgf("%s failed to fetch revocations", redCross)
			log.Error().Msgf("error: %v", err)
			return BeQuietError{}
		}

		log.Info().Msgf("%d tokens revoked", resp.Count)
		for _, fp := range resp.Fingerprints {
			fmt.Println(fp)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revocationsCmd)
}

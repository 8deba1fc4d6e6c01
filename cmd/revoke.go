package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var revokeToken string

var revokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Permanently revoke a token",
	Long: `Marks a token as revoked on the server. Revocation is permanent and
survives restarts; the token will fail validation from now on.
Requires admin credentials (diploma login).`,
	Example: `  diploma revoke --token eyJhbGciOi...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if revokeToken == "" {
			return fmt.Errorf("must provide --token")
		}

		cli, err := getClient()
		if err != nil {
			return err
		}

		correlation, err := cli.RevokeToken(cmd.Context(), revokeToken)
		if err != nil {
			log.Error().Msgf("%s failed to revoke token (correlation ID: %s)", redCross, correlation)
			log.Error().Msgf("error: %v", err)
			return BeQuietError{}
		}

		log.Info().Msgf("%s token revoked successfully", greenCheck)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revokeCmd)

	revokeCmd.Flags().StringVar(&revokeToken, "token", "", "The token to revoke")
	_ = revokeCmd.MarkFlagRequired("token")
}

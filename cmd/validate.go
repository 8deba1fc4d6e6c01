package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/CyrilRPG/diploma/internal/core"
)

var validateAsLink bool

var validateCmd = &cobra.Command{
	Use:   "validate TOKEN",
	Short: "Ask the server whether a token is still authorized",
	Long: `Runs the full authorization decision server-side and prints the outcome.
Pass --link to treat the argument as a link token instead of a bearer token.`,
	Example: `  # Validate a bearer token
  diploma validate eyJhbGciOi...

  # Validate a previously generated link token
  diploma validate --link cm3kq0...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		credential := args[0]
		if credential == "" {
			return fmt.Errorf("token cannot be empty")
		}

		cli, err := getClient()
		if err != nil {
			return err
		}

		var result *core.Result
		if validateAsLink {
			result, err = cli.ValidateLink(cmd.Context(), credential)
		} else {
			result, err = cli.Validate(cmd.Context(), credential)
		}
		if err != nil {
			log.Error().Msgf("%s validation request failed", redCross)
			log.Error().Msgf("error: %v", err)
			return BeQuietError{}
		}

		if result.OK {
			log.Info().Msgf("%s token is authorized", greenCheck)
			if result.ClientID != "" {
				log.Info().Msgf("identity: %s", result.ClientID)
			}
			return nil
		}

		log.Warn().Msgf("%s token rejected: %s", redCross, result.Reason)
		return BeQuietError{}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateAsLink, "link", false, "Treat the argument as a link token")
}

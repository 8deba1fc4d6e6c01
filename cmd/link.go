package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:   "link TOKEN",
	Short: "Generate a short link token for a bearer token",
	Long: `Registers the bearer token server-side and returns an opaque link token.
The link token can be embedded in URLs and resolved later via validate --link.`,
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

		link, err := cli.GenerateLink(cmd.Context(), credential)
		if err != nil {
			log.Error().Msgf("%s failed to generate link token", redCross)
			log.Error().Msgf("error: %v", err)
			return BeQuietError{}
		}

		log.Info().Msgf("%s link token generated", greenCheck)
		fmt.Println(link)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
}

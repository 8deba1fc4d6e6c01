package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/CyrilRPG/diploma/internal/token"
)

var fingerprintRaw bool

var fingerprintCmd = &cobra.Command{
	Use:     "fingerprint [token]",
	Aliases: []string{"fp"},
	Short:   "Calculate the fingerprint of a token",
	Long: `Calculates the SHA-256 fingerprint of a token. This is the value stored
in the revocation list and in the audit log's 'fingerprint' field.`,
	Example: `  # Calculate the fingerprint of a token
  diploma fingerprint eyJhbGciOi...

  # Calculate the fingerprint of a token from stdin
  echo "eyJ..." | diploma fingerprint -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var credential string

		if args[0] != "-" {
			credential = args[0]
		} else {
			log.Debug().Msg("Reading token from stdin")

			data, err := os.ReadFile("/dev/stdin")
			if err != nil {
				return fmt.Errorf("failed to read token from stdin: %w", err)
			}
			credential = strings.TrimSpace(string(data))
		}

		if credential == "" {
			return fmt.Errorf("token cannot be empty")
		}

		fp := token.Fingerprint(credential)

		if fingerprintRaw {
			fmt.Println(fp)
		} else {
			fmt.Println("Fingerprint:", fp)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)

	fingerprintCmd.Flags().BoolVarP(&fingerprintRaw, "raw", "r", false,
		"Output only the fingerprint value without additional text")
}

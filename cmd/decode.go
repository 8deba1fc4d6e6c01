package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/CyrilRPG/diploma/internal/token"
)

var decodeRaw bool

var decodeCmd = &cobra.Command{
	Use:   "decode [token]",
	Short: "Decode a token's payload locally",
	Long: `Decodes the claims of a token without contacting a server and without
verifying any signature. Useful to inspect what the gate would see.`,
	Example: `  # Decode a token
  diploma decode eyJhbGciOi...

  # Decode a token from stdin
  echo "eyJ..." | diploma decode -`,
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

		claims := token.Decode(credential)
		if claims == nil {
			log.Error().Msgf("%s token payload could not be decoded", redCross)
			return BeQuietError{}
		}

		if decodeRaw {
			spew.Dump(claims)
			return nil
		}

		fmt.Println("Identity:    ", claims.Identity())
		if exp, ok := claims.ExpiresAt(); ok {
			fmt.Println("Expires:     ", time.Unix(exp, 0).UTC().Format(time.RFC3339))
		}
		if iat, ok := claims.IssuedAt(); ok {
			fmt.Println("Issued:      ", time.Unix(iat, 0).UTC().Format(time.RFC3339))
		}
		fmt.Println("Fingerprint: ", token.Fingerprint(credential))
		fmt.Println("Claims:")
		spew.Dump(claims)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().BoolVarP(&decodeRaw, "raw", "r", false,
		"Dump only the raw claims without derived fields")
}
